package invoice

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"invogen/internal/domain"
)

const defaultGSTRate = 18.0

// timestampIDLayout is the fallback invoice ID format, DDMMYYYYHHMMSS.
const timestampIDLayout = "02012006150405"

// Computer derives a finalized invoice summary from an untrusted extracted
// record. The clock and RNG are injectable so the ID policy is testable.
type Computer struct {
	now  func() time.Time
	rand *rand.Rand
}

// NewComputer creates a Computer using the wall clock and a time-seeded RNG.
func NewComputer() *Computer {
	return &Computer{
		now:  time.Now,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewComputerWithClock creates a Computer with a fixed clock and RNG (for testing).
func NewComputerWithClock(now func() time.Time, rng *rand.Rand) *Computer {
	return &Computer{now: now, rand: rng}
}

// Compute applies tax-rate resolution, per-item math, the invoice ID policy,
// and field defaults to produce an InvoiceSummary. overrides maps item index
// to a user-corrected price; indices without an entry use the extracted price.
// Every extracted field is optional, so each access applies an explicit
// default — Compute never fails.
func (c *Computer) Compute(extracted *domain.ExtractedInvoice, profile *domain.CompanyProfile, overrides map[int]float64) domain.InvoiceSummary {
	rate := ResolveGSTRate(extracted.GSTRate.String())

	items := make([]domain.LineItem, 0, len(extracted.Items))
	var subtotal, totalGST float64

	for i, it := range extracted.Items {
		price := parsePrice(it.Price.String())
		if v, ok := overrides[i]; ok {
			price = v
		}

		gstAmount := price * rate / 100
		total := price + gstAmount

		name := it.Name
		if name == "" {
			name = "-"
		}

		items = append(items, domain.LineItem{
			Name:             name,
			Price:            price,
			GSTAmount:        gstAmount,
			Total:            total,
			PriceDisplay:     fmt.Sprintf("%.2f", price),
			GSTAmountDisplay: fmt.Sprintf("%.2f", gstAmount),
			TotalDisplay:     fmt.Sprintf("%.2f", total),
		})

		// Sums accumulate the unrounded values; only the display strings are
		// fixed to two decimals.
		subtotal += price
		totalGST += gstAmount
	}

	grandTotal := subtotal + totalGST

	return domain.InvoiceSummary{
		InvoiceID:         c.assignInvoiceID(extracted.InvoiceNumber, profile.InvoiceRange),
		Date:              defaultString(extracted.Date, c.now().Format("02/01/2006")),
		CustomerName:      defaultString(extracted.CustomerName, "-"),
		Address:           defaultString(extracted.Address, "-"),
		Mobile:            defaultString(extracted.Mobile, "-"),
		GSTNumber:         defaultString(extracted.GSTNumber, "-"),
		Items:             items,
		Subtotal:          subtotal,
		TotalGST:          totalGST,
		GrandTotal:        grandTotal,
		SubtotalDisplay:   fmt.Sprintf("%.2f", subtotal),
		TotalGSTDisplay:   fmt.Sprintf("%.2f", totalGST),
		GrandTotalDisplay: fmt.Sprintf("%.2f", grandTotal),
		GSTRatePercent:    rate,
		GSTRateDisplay:    fmt.Sprintf("%g%%", rate),
	}
}

// assignInvoiceID applies the three-tier ID policy: a usable extracted number
// wins verbatim; otherwise a random draw from the configured range; otherwise
// a timestamp-derived identifier when the range is not usable (upper <= lower).
func (c *Computer) assignInvoiceID(extractedNumber string, rng domain.InvoiceIDRange) string {
	if extractedNumber != "" && strings.TrimSpace(extractedNumber) != "-" {
		return extractedNumber
	}
	if rng.Upper > rng.Lower {
		// span overflows int64 when the range covers more than MaxInt64
		// values; such a range falls through to the timestamp tier rather
		// than handing Int63n a non-positive argument.
		if span := rng.Upper - rng.Lower + 1; span > 0 {
			return strconv.FormatInt(rng.Lower+c.rand.Int63n(span), 10)
		}
	}
	return c.now().Format(timestampIDLayout)
}

// ResolveGSTRate parses an extracted gst_rate value. A trailing "%" is
// stripped; absent or unparsable values fall back to the default rate of 18.
func ResolveGSTRate(raw string) float64 {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if s == "" {
		return defaultGSTRate
	}
	rate, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultGSTRate
	}
	return rate
}

func parsePrice(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return p
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
