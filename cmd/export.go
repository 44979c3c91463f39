package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Re-export a stored run's report",
	Long:  "Writes the report recorded for a completed run to a file, without re-reading the source documents.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		table, err := st.GetReport(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "export")
		}

		if err := emitReport(*table, exportFormat, exportOutput); err != nil {
			return err
		}

		if exportOutput != "" {
			zap.L().Info("export: report written",
				zap.String("run_id", args[0]),
				zap.String("output", exportOutput),
			)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "table", "output format: table, csv, xlsx")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output file for csv/xlsx formats")
	rootCmd.AddCommand(exportCmd)
}
