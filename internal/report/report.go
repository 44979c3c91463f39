// Package report reshapes comparison rows into a flat, ordered table and
// writes it out as CSV or XLSX. No comparison logic lives here.
package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/sells-group/reconcile-cli/internal/model"
)

// Columns is the fixed output column order.
var Columns = []string{"Line", "Field", "PO Value", "OA Value", "Difference", "% Change", "Status"}

// Table is the flat report handed to display or export collaborators.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// statusLabels maps row statuses to the labels reviewers see.
var statusLabels = map[model.Status]string{
	model.StatusWithinTolerance: "OK",
	model.StatusOutOfTolerance:  "OUT OF TOLERANCE",
	model.StatusMissing:         "MISSING",
	model.StatusExtra:           "OA ONLY",
	model.StatusTextChanged:     "CHANGED",
}

// Assemble shapes comparison rows into a Table, preserving row order.
// An empty input produces a well-formed table with headers and no rows.
func Assemble(rows []model.ComparisonRow) Table {
	t := Table{Columns: Columns, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Key,
			r.Field,
			r.PO.String(),
			r.OA.String(),
			formatSigned(r.Difference),
			formatPercent(r.PercentChange),
			statusLabels[r.Status],
		})
	}
	return t
}

// formatSigned renders a difference with an explicit sign, trailing zeros
// trimmed: +0.0005, -15, +1.5.
func formatSigned(f *float64) string {
	if f == nil {
		return ""
	}
	s := strconv.FormatFloat(*f, 'f', -1, 64)
	if *f >= 0 {
		s = "+" + s
	}
	return s
}

// formatPercent renders a percent change as +1.50% / -5.00%.
func formatPercent(p *float64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%+.2f%%", *p)
}

// Render writes the table as aligned text for terminal display.
func Render(t Table, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	writeRow := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, c)
		}
		fmt.Fprintln(tw)
	}
	writeRow(t.Columns)
	for _, row := range t.Rows {
		writeRow(row)
	}
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "report: render table")
	}
	return nil
}
