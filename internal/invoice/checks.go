package invoice

import (
	"fmt"
	"math"

	"invogen/internal/domain"
)

const mathTolerance = 0.005

// CheckResult reports one arithmetic self-check on a computed summary.
type CheckResult struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Message  string `json:"message"`
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= mathTolerance
}

func checkResult(passed bool, name, expected, actual string) CheckResult {
	msg := fmt.Sprintf("%s: calculation matches", name)
	if !passed {
		msg = fmt.Sprintf("%s: calculation mismatch (expected %s, got %s)", name, expected, actual)
	}
	return CheckResult{Name: name, Passed: passed, Expected: expected, Actual: actual, Message: msg}
}

// CheckSummary verifies the arithmetic invariants of a computed summary. These
// checks are shown to the user alongside the preview; a failure indicates a
// bug in the computer, never bad input.
func CheckSummary(s *domain.InvoiceSummary) []CheckResult {
	results := make([]CheckResult, 0, 2*len(s.Items)+3)

	var subtotal, totalGST float64
	for i := range s.Items {
		item := &s.Items[i]

		expGST := item.Price * s.GSTRatePercent / 100
		results = append(results, checkResult(
			approxEqual(item.GSTAmount, expGST),
			fmt.Sprintf("items[%d].gst_amount", i),
			fmtf(expGST), fmtf(item.GSTAmount),
		))

		expTotal := item.Price + item.GSTAmount
		results = append(results, checkResult(
			approxEqual(item.Total, expTotal),
			fmt.Sprintf("items[%d].total", i),
			fmtf(expTotal), fmtf(item.Total),
		))

		subtotal += item.Price
		totalGST += item.GSTAmount
	}

	results = append(results, checkResult(
		approxEqual(s.Subtotal, subtotal), "subtotal", fmtf(subtotal), fmtf(s.Subtotal)))
	results = append(results, checkResult(
		approxEqual(s.TotalGST, totalGST), "total_gst", fmtf(totalGST), fmtf(s.TotalGST)))
	results = append(results, checkResult(
		approxEqual(s.GrandTotal, s.Subtotal+s.TotalGST), "grand_total",
		fmtf(s.Subtotal+s.TotalGST), fmtf(s.GrandTotal)))

	return results
}

// AllPassed reports whether every check passed.
func AllPassed(results []CheckResult) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

func fmtf(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
