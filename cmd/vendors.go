package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/reconcile-cli/internal/tolerance"
)

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "List vendor tolerance profiles",
	Long: `Shows the built-in vendor presets plus any profiles loaded from the
configured profiles file, with the effective rule for each field.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		profiles := make(map[string]tolerance.Profile)
		for _, v := range tolerance.BuiltinVendors() {
			p, _ := tolerance.Builtin(v)
			profiles[v] = p
		}

		if path := cfg.Tolerance.ProfilesPath; path != "" {
			loaded, err := tolerance.LoadProfiles(path)
			if err != nil {
				return err
			}
			for k, p := range loaded {
				profiles[k] = p // file profiles shadow builtins
			}
		}

		formatVendors(os.Stdout, profiles)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vendorsCmd)
}

// formatVendors writes one row per rule, grouped by vendor.
func formatVendors(out io.Writer, profiles map[string]tolerance.Profile) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "VENDOR\tFIELD\tMODE\tTHRESHOLD")
	_, _ = fmt.Fprintln(w, "------\t-----\t----\t---------")

	for _, key := range sortedVendorKeys(profiles) {
		p := profiles[key]
		for _, r := range p.Rules {
			threshold := fmt.Sprintf("%g", r.Threshold)
			if r.Mode == tolerance.RelativePercent {
				threshold += "%"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Vendor, r.Field, r.Mode, threshold)
		}
	}
	_ = w.Flush()
}

func sortedVendorKeys(profiles map[string]tolerance.Profile) []string {
	keys := make([]string, 0, len(profiles))
	for k := range profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
