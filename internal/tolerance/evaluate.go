package tolerance

import (
	"math"

	"github.com/sells-group/reconcile-cli/internal/model"
)

// Evaluate applies a rule to a PO/OA value pair. Either side absent or
// non-numeric yields Missing; tolerance math runs only on numbers.
//
// Boundaries are inclusive: a deviation exactly equal to the threshold is
// within tolerance.
func Evaluate(rule Rule, po, oa model.Value) model.Status {
	p, pok := po.Float()
	o, ook := oa.Float()
	if !pok || !ook {
		return model.StatusMissing
	}

	switch rule.Mode {
	case RelativePercent:
		if p == 0 {
			// Percent change from a zero baseline is undefined. Identical
			// zeros agree; anything else cannot be scored and fails.
			if o == 0 {
				return model.StatusWithinTolerance
			}
			return model.StatusOutOfTolerance
		}
		pct := (o - p) / p * 100
		if math.Abs(pct) <= rule.Threshold {
			return model.StatusWithinTolerance
		}
		return model.StatusOutOfTolerance
	default:
		if math.Abs(o-p) <= rule.Threshold {
			return model.StatusWithinTolerance
		}
		return model.StatusOutOfTolerance
	}
}

// PercentChange computes (oa-po)/po*100. ok is false when the baseline is
// zero or either side is not a number.
func PercentChange(po, oa model.Value) (pct float64, ok bool) {
	p, pok := po.Float()
	o, ook := oa.Float()
	if !pok || !ook || p == 0 {
		return 0, false
	}
	return (o - p) / p * 100, true
}
