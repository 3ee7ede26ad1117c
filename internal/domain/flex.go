package domain

import (
	"encoding/json"
	"strconv"
)

// FlexString accepts a JSON string or number and stores it as a string.
// LLM output is inconsistent about numeric fields ("40000" vs 40000), so the
// extracted record tolerates both and defers parsing to the invoice computer.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	// null or anything else collapses to empty; the computer applies defaults.
	*f = ""
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

// String returns the raw string value.
func (f FlexString) String() string { return string(f) }
