package model

// Status classifies a single comparison.
type Status string

const (
	// StatusWithinTolerance means the deviation is at or inside the threshold.
	StatusWithinTolerance Status = "within_tolerance"
	// StatusOutOfTolerance means the deviation exceeds the threshold.
	StatusOutOfTolerance Status = "out_of_tolerance"
	// StatusMissing means the OA side lacks the line or field.
	StatusMissing Status = "missing"
	// StatusExtra means the OA contains a line the PO never ordered.
	StatusExtra Status = "extra"
	// StatusTextChanged means a non-numeric field differs between sides.
	// Informational: text fields carry no tolerance.
	StatusTextChanged Status = "text_changed"
)

// LineSentinel is the Field value for rows that concern a whole line
// rather than a single field.
const LineSentinel = "Line Item"

// ComparisonRow is one reported fact about a PO/OA pair.
type ComparisonRow struct {
	Key           string   `json:"key"`
	Field         string   `json:"field"`
	PO            Value    `json:"po_value"`
	OA            Value    `json:"oa_value"`
	Difference    *float64 `json:"difference,omitempty"`
	PercentChange *float64 `json:"percent_change,omitempty"`
	Status        Status   `json:"status"`
}

// IsDiscrepancy reports whether the row represents a mismatch a human
// should look at. TextChanged counts: a changed material grade matters
// even though it has no numeric tolerance.
func (r ComparisonRow) IsDiscrepancy() bool {
	switch r.Status {
	case StatusOutOfTolerance, StatusMissing, StatusExtra, StatusTextChanged:
		return true
	}
	return false
}
