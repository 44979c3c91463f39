package extract

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/reconcile-cli/internal/model"
)

// Grid is raw tabular input: rows of cells as delivered by a document or
// tabular collaborator. Cells may be strings, numbers, nil (absent), or
// nested sequences that get flattened.
type Grid [][]any

// FromStrings converts a plain string grid (CSV/XLSX readers) to a Grid.
func FromStrings(rows [][]string) Grid {
	g := make(Grid, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, c := range row {
			cells[j] = c
		}
		g[i] = cells
	}
	return g
}

// Table extracts line items from a structured grid. The first row is the
// header; keyColumn (default "Item") designates the identifier column.
//
// An empty grid yields zero records, as does a header-only grid. A grid
// whose header lacks the key column is a configuration failure and errors.
// Data rows with an empty key cell are malformed and skipped.
func Table(grid Grid, keyColumn string) ([]model.LineItem, error) {
	if keyColumn == "" {
		keyColumn = DefaultKeyColumn
	}
	if len(grid) == 0 {
		return nil, nil
	}

	header := make([]string, len(grid[0]))
	keyIdx := -1
	for i, cell := range grid[0] {
		header[i] = strings.TrimSpace(flattenCell(cell))
		if header[i] == keyColumn {
			keyIdx = i
		}
	}
	if keyIdx < 0 {
		return nil, eris.Wrapf(ErrMissingKeyColumn, "expected column %q in header %v", keyColumn, header)
	}

	var items []model.LineItem
	var skipped int
	for _, row := range grid[1:] {
		key := ""
		if keyIdx < len(row) {
			key = strings.TrimSpace(flattenCell(row[keyIdx]))
		}
		if key == "" {
			skipped++
			continue
		}

		li := model.NewLineItem(key)
		for i, name := range header {
			if i == keyIdx || name == "" {
				continue
			}
			if i >= len(row) {
				// Short row: absent cells become empty text.
				li.Set(name, model.Text(""))
				continue
			}
			li.Set(name, cellValue(row[i]))
		}
		items = append(items, li)
	}

	zap.L().Debug("extract: table pass complete",
		zap.Int("items", len(items)),
		zap.Int("skipped_rows", skipped),
	)
	return items, nil
}

// cellValue resolves one cell to a typed Value. Native numbers stay
// numeric; strings are parsed opportunistically; nil becomes empty text.
func cellValue(cell any) model.Value {
	switch c := cell.(type) {
	case nil:
		return model.Text("")
	case float64:
		return model.Number(c)
	case int:
		return model.Number(float64(c))
	case string:
		return model.ParseValue(c)
	default:
		return model.ParseValue(flattenCell(cell))
	}
}

// flattenCell renders a cell to text. Nested sequences are joined with a
// single space; nil renders empty.
func flattenCell(cell any) string {
	switch c := cell.(type) {
	case nil:
		return ""
	case string:
		return c
	case []any:
		parts := make([]string, 0, len(c))
		for _, e := range c {
			if s := flattenCell(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case []string:
		return strings.Join(c, " ")
	case float64:
		return model.Number(c).String()
	default:
		return fmt.Sprintf("%v", c)
	}
}
