// Package reconcile matches PO and OA line items by key, scores every
// configured field against its tolerance rule, and emits the ordered set
// of comparison rows that is the system's output artifact.
package reconcile

import (
	"go.uber.org/zap"

	"github.com/sells-group/reconcile-cli/internal/model"
	"github.com/sells-group/reconcile-cli/internal/tolerance"
)

// Compare produces the ordered comparison rows for a PO/OA pair.
//
// Ordering is authoritative and reproducible: PO input order first, one
// row per configured field in the record's field order, then one Extra
// row per OA-only line in OA input order. Running Compare twice on the
// same inputs yields identical output.
//
// Duplicate keys within one side: first-seen wins. The later occurrence
// is ignored for matching and never emitted.
func Compare(po, oa []model.LineItem, profile tolerance.Profile) []model.ComparisonRow {
	poIdx, poOrder := index(po)
	oaIdx, oaOrder := index(oa)

	var rows []model.ComparisonRow

	for _, key := range poOrder {
		p := poIdx[key]
		o, matched := oaIdx[key]
		if !matched {
			// Exactly one whole-line row; no field rows for a missing line.
			rows = append(rows, model.ComparisonRow{
				Key:    key,
				Field:  model.LineSentinel,
				PO:     model.NoValue(),
				OA:     model.NoValue(),
				Status: model.StatusMissing,
			})
			continue
		}
		rows = append(rows, compareFields(p, o, profile)...)
	}

	// OA-only lines are surfaced, not dropped: a supplier silently adding
	// lines is a discrepancy the buyer must see.
	for _, key := range oaOrder {
		if _, ok := poIdx[key]; !ok {
			rows = append(rows, model.ComparisonRow{
				Key:    key,
				Field:  model.LineSentinel,
				PO:     model.NoValue(),
				OA:     model.NoValue(),
				Status: model.StatusExtra,
			})
		}
	}

	zap.L().Debug("reconcile: comparison complete",
		zap.Int("po_lines", len(poOrder)),
		zap.Int("oa_lines", len(oaOrder)),
		zap.Int("rows", len(rows)),
	)
	return rows
}

// compareFields emits rows for one matched line pair: tolerance rows for
// every rule-configured field present on the PO side, then informational
// rows for text fields that changed.
func compareFields(p, o model.LineItem, profile tolerance.Profile) []model.ComparisonRow {
	var rows []model.ComparisonRow

	for _, field := range p.FieldOrder {
		rule, configured := profile.Rule(field)
		if !configured {
			continue
		}

		pv := p.Get(field)
		ov := o.Get(field)
		if pv.IsText() && ov.IsText() {
			// Text-on-both-sides pairs belong to the text pass below.
			// Mixed-type pairs fall through to Evaluate, which scores any
			// non-numeric side as Missing; dropping them would hide the row.
			continue
		}

		row := model.ComparisonRow{
			Key:    p.Key,
			Field:  field,
			PO:     pv,
			OA:     ov,
			Status: tolerance.Evaluate(rule, pv, ov),
		}
		if pf, ok := pv.Float(); ok {
			if of, ok2 := ov.Float(); ok2 {
				diff := of - pf
				row.Difference = &diff
				if rule.Mode == tolerance.RelativePercent {
					if pct, defined := tolerance.PercentChange(pv, ov); defined {
						row.PercentChange = &pct
					}
				}
			}
		}
		rows = append(rows, row)
	}

	for _, field := range p.FieldOrder {
		pv := p.Get(field)
		ov := o.Get(field)
		if !pv.IsText() || !ov.IsText() {
			continue
		}
		if pv.String() == "" || pv.String() == ov.String() {
			continue
		}
		rows = append(rows, model.ComparisonRow{
			Key:    p.Key,
			Field:  field,
			PO:     pv,
			OA:     ov,
			Status: model.StatusTextChanged,
		})
	}

	return rows
}

// index builds a key lookup plus the deduplicated key order for one side.
// First occurrence of a key wins; later duplicates are dropped.
func index(items []model.LineItem) (map[string]model.LineItem, []string) {
	idx := make(map[string]model.LineItem, len(items))
	order := make([]string, 0, len(items))
	for _, li := range items {
		if _, seen := idx[li.Key]; seen {
			zap.L().Warn("reconcile: duplicate line key, keeping first occurrence",
				zap.String("key", li.Key),
			)
			continue
		}
		idx[li.Key] = li
		order = append(order, li.Key)
	}
	return idx, order
}

// Discrepancies counts rows a reviewer must act on.
func Discrepancies(rows []model.ComparisonRow) int {
	n := 0
	for _, r := range rows {
		if r.IsDiscrepancy() {
			n++
		}
	}
	return n
}
