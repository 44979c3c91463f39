package extract

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/reconcile-cli/internal/model"
)

// linePattern matches one steel-order line: line number, material
// description (non-greedy), thickness and width in inches separated by an
// "x", a comma-grouped quantity with its unit, and a $-prefixed price.
//
//	3  SPCC Cold Rolled  0.250" x 48.000"  10,000 LBS  $0.52
var linePattern = regexp.MustCompile(`(?i)(\d+)\s+(.+?)\s+([\d.]+)"\s*x\s*([\d.]+)"\s+([\d,]+)\s*(LBS|KG)\s+\$([\d.]+)`)

// Field names produced by the pattern strategy.
const (
	FieldMaterial  = "Material"
	FieldThickness = "Thickness"
	FieldWidth     = "Width"
	FieldQuantity  = "Quantity"
	FieldUnitPrice = "UnitPrice"
	FieldUnit      = "Unit"
)

// Lines extracts line items from unstructured document text. Lines that do
// not match the structural pattern are skipped silently: page headers,
// addresses, and totals are legitimate non-data lines. A text with zero
// matching lines yields zero records, not an error.
func Lines(text string) []model.LineItem {
	var items []model.LineItem
	var skipped int

	for _, line := range strings.Split(text, "\n") {
		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			if strings.TrimSpace(line) != "" {
				skipped++
			}
			continue
		}

		thickness, err1 := parseNumber(m[3])
		width, err2 := parseNumber(m[4])
		quantity, err3 := parseNumber(m[5])
		price, err4 := parseNumber(m[7])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			// Matched the shape but a token failed numeric conversion:
			// treat as malformed and move on.
			skipped++
			continue
		}

		li := model.NewLineItem(m[1])
		li.Set(FieldMaterial, model.Text(strings.TrimSpace(m[2])))
		li.Set(FieldThickness, model.Number(thickness))
		li.Set(FieldWidth, model.Number(width))
		li.Set(FieldQuantity, model.Number(quantity))
		li.Set(FieldUnit, model.Text(strings.ToUpper(m[6])))
		li.Set(FieldUnitPrice, model.Number(price))
		items = append(items, li)
	}

	zap.L().Debug("extract: pattern pass complete",
		zap.Int("items", len(items)),
		zap.Int("skipped_lines", skipped),
	)
	return items
}

// parseNumber converts a numeric token, stripping thousands separators.
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}
