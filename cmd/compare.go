package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/reconcile-cli/internal/extract"
	"github.com/sells-group/reconcile-cli/internal/reconcile"
	"github.com/sells-group/reconcile-cli/internal/report"
	"github.com/sells-group/reconcile-cli/internal/store"
)

var (
	comparePO        string
	compareOA        string
	compareVendor    string
	compareSet       []string
	compareKeyColumn string
	compareFormat    string
	compareOutput    string
	compareLang      string
	compareNoStore   bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a PO against an OA",
	Long: `Extracts line items from both documents, compares them against the
vendor's tolerance profile, and prints or exports the discrepancy report.

Sources may be local paths or http(s):// and ftp:// URLs. PDFs are read
through pdftotext; .xlsx and .csv files go through the table extractor.

Exits nonzero when discrepancies are found, so the command scripts cleanly.

Examples:
  reconcile-cli compare --po po.pdf --oa oa.pdf --vendor posco
  reconcile-cli compare --po po.xlsx --oa ftp://supplier/oa.xlsx --set Thickness=0.002
  reconcile-cli compare --po po.csv --oa oa.csv --format xlsx --output report.xlsx`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		profile, err := resolveProfile(compareVendor, compareSet)
		if err != nil {
			return err
		}

		// --no-store means no run row at all, not a half-recorded one.
		var st store.Store
		var runID string
		if !compareNoStore {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			run, err := st.CreateRun(ctx, profile.Vendor, comparePO, compareOA)
			if err != nil {
				return err
			}
			runID = run.ID
		}
		failRun := func(cause error) {
			if st != nil {
				_ = st.FailRun(ctx, runID, cause)
			}
		}

		po, err := loadDocument(ctx, comparePO, keyColumnOrDefault(compareKeyColumn))
		if err != nil {
			failRun(err)
			return eris.Wrap(err, "compare: load PO")
		}
		oa, err := loadDocument(ctx, compareOA, keyColumnOrDefault(compareKeyColumn))
		if err != nil {
			failRun(err)
			return eris.Wrap(err, "compare: load OA")
		}

		if compareLang != "" {
			if tr := newTranslator(); tr != nil {
				po = extract.TranslateField(ctx, po, tr, extract.FieldMaterial, compareLang)
				oa = extract.TranslateField(ctx, oa, tr, extract.FieldMaterial, compareLang)
			}
		}

		if len(po) == 0 {
			zap.L().Warn("compare: no usable PO line items", zap.String("source", comparePO))
		}
		if len(oa) == 0 {
			zap.L().Warn("compare: no usable OA line items", zap.String("source", compareOA))
		}

		rows := reconcile.Compare(po, oa, profile)
		discrepancies := reconcile.Discrepancies(rows)
		table := report.Assemble(rows)

		if st != nil {
			if err := st.CompleteRun(ctx, runID, len(rows), discrepancies, table); err != nil {
				zap.L().Warn("compare: failed to record run", zap.Error(err))
			}
		}

		if err := emitReport(table, compareFormat, compareOutput); err != nil {
			return err
		}

		zap.L().Info("compare: complete",
			zap.String("run_id", runID),
			zap.String("vendor", profile.Vendor),
			zap.Int("rows", len(rows)),
			zap.Int("discrepancies", discrepancies),
		)

		if discrepancies > 0 {
			_ = zap.L().Sync()
			os.Exit(1)
		}
		return nil
	},
}

// emitReport writes the table to stdout or to --output in the requested format.
func emitReport(table report.Table, format, output string) error {
	switch format {
	case "table", "":
		return report.Render(table, os.Stdout)
	case "csv":
		if output == "" {
			return eris.New("compare: --output is required for csv format")
		}
		return report.WriteCSV(table, output)
	case "xlsx":
		if output == "" {
			return eris.New("compare: --output is required for xlsx format")
		}
		return report.WriteXLSX(table, output)
	default:
		return eris.Errorf("compare: unknown format %q", format)
	}
}

func init() {
	compareCmd.Flags().StringVar(&comparePO, "po", "", "PO document (path or URL)")
	compareCmd.Flags().StringVar(&compareOA, "oa", "", "OA document (path or URL)")
	compareCmd.Flags().StringVar(&compareVendor, "vendor", "", "vendor tolerance preset (default Custom)")
	compareCmd.Flags().StringArrayVar(&compareSet, "set", nil, "threshold override, field=value (repeatable)")
	compareCmd.Flags().StringVar(&compareKeyColumn, "key-column", "", "identifier column for tabular input (default from config)")
	compareCmd.Flags().StringVar(&compareFormat, "format", "table", "output format: table, csv, xlsx")
	compareCmd.Flags().StringVar(&compareOutput, "output", "", "output file for csv/xlsx formats")
	compareCmd.Flags().StringVar(&compareLang, "translate", "", "translate material descriptions to this language tag")
	compareCmd.Flags().BoolVar(&compareNoStore, "no-store", false, "skip recording the run in history")
	_ = compareCmd.MarkFlagRequired("po")
	_ = compareCmd.MarkFlagRequired("oa")
	rootCmd.AddCommand(compareCmd)
}
