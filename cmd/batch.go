package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/reconcile-cli/internal/fetcher"
	"github.com/sells-group/reconcile-cli/internal/reconcile"
	"github.com/sells-group/reconcile-cli/internal/report"
	"github.com/sells-group/reconcile-cli/internal/store"
	"github.com/sells-group/reconcile-cli/internal/tolerance"
)

var (
	batchManifest    string
	batchVendor      string
	batchLimit       int
	batchConcurrency int
	batchOutDir      string
	batchFormat      string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Compare many PO/OA pairs from a manifest",
	Long: `Reads a manifest CSV with columns po,oa and an optional vendor column,
then compares every pair concurrently. Each pair is recorded as its own
run; individual failures do not abort the batch.

With --out-dir, each pair's report is written there as <run-id>.csv (or
.xlsx with --format xlsx) instead of being printed.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pairs, err := readManifest(batchManifest)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		concurrency := batchConcurrency
		if concurrency == 0 {
			concurrency = cfg.Batch.MaxConcurrentPairs
		}

		return processPairs(ctx, st, pairs, batchLimit, concurrency)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchManifest, "manifest", "", "manifest CSV of po,oa[,vendor] pairs")
	batchCmd.Flags().StringVar(&batchVendor, "vendor", "", "vendor preset for pairs without their own vendor column")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of pairs to process (0 = all)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max concurrent pairs (default from config)")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "write per-pair reports into this directory")
	batchCmd.Flags().StringVar(&batchFormat, "format", "csv", "report format for --out-dir: csv or xlsx")
	_ = batchCmd.MarkFlagRequired("manifest")
	rootCmd.AddCommand(batchCmd)
}

// pair is one manifest row: a PO source, an OA source, and the vendor
// whose tolerance profile governs the comparison.
type pair struct {
	PO     string
	OA     string
	Vendor string
}

// readManifest parses the manifest CSV. The header row is required and
// must contain po and oa columns; a vendor column is optional. Rows with
// an empty po or oa cell are skipped.
func readManifest(path string) ([]pair, error) {
	grid, err := fetcher.ReadCSVGridFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: read manifest")
	}
	if len(grid) == 0 {
		return nil, eris.New("batch: manifest is empty")
	}

	cols := map[string]int{}
	for i, name := range grid[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	poCol, okPO := cols["po"]
	oaCol, okOA := cols["oa"]
	if !okPO || !okOA {
		return nil, eris.Errorf("batch: manifest header %v must contain po and oa columns", grid[0])
	}
	vendorCol, hasVendor := cols["vendor"]

	var pairs []pair
	for _, row := range grid[1:] {
		p := pair{Vendor: batchVendor}
		if poCol < len(row) {
			p.PO = strings.TrimSpace(row[poCol])
		}
		if oaCol < len(row) {
			p.OA = strings.TrimSpace(row[oaCol])
		}
		if hasVendor && vendorCol < len(row) && strings.TrimSpace(row[vendorCol]) != "" {
			p.Vendor = strings.TrimSpace(row[vendorCol])
		}
		if p.PO == "" || p.OA == "" {
			zap.L().Warn("batch: skipping manifest row with missing source", zap.Strings("row", row))
			continue
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// processPairs applies limit, then compares pairs concurrently. Each pair
// gets its own run record; a pair failure is logged and counted but never
// aborts the batch.
func processPairs(ctx context.Context, st store.Store, pairs []pair, limit, concurrency int) error {
	if len(pairs) == 0 {
		zap.L().Info("batch: no pairs in manifest")
		return nil
	}

	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	if concurrency < 1 {
		concurrency = 1
	}

	zap.L().Info("batch: processing",
		zap.Int("pairs", len(pairs)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var clean, flagged, failed atomic.Int64

	for _, p := range pairs {
		g.Go(func() error {
			log := zap.L().With(zap.String("po", p.PO), zap.String("oa", p.OA))

			discrepancies, err := comparePair(gctx, st, p)
			if err != nil {
				failed.Add(1)
				log.Error("batch: pair failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			if discrepancies > 0 {
				flagged.Add(1)
			} else {
				clean.Add(1)
			}
			log.Info("batch: pair complete", zap.Int("discrepancies", discrepancies))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch")
	}

	zap.L().Info("batch: complete",
		zap.Int64("clean", clean.Load()),
		zap.Int64("flagged", flagged.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}

// comparePair runs one PO/OA comparison end to end and returns the
// discrepancy count.
func comparePair(ctx context.Context, st store.Store, p pair) (int, error) {
	profile, err := tolerance.Resolve(p.Vendor, cfg.Tolerance.ProfilesPath)
	if err != nil {
		return 0, err
	}

	run, err := st.CreateRun(ctx, profile.Vendor, p.PO, p.OA)
	if err != nil {
		return 0, err
	}

	po, err := loadDocument(ctx, p.PO, cfg.Compare.KeyColumn)
	if err != nil {
		_ = st.FailRun(ctx, run.ID, err)
		return 0, eris.Wrap(err, "load PO")
	}
	oa, err := loadDocument(ctx, p.OA, cfg.Compare.KeyColumn)
	if err != nil {
		_ = st.FailRun(ctx, run.ID, err)
		return 0, eris.Wrap(err, "load OA")
	}

	rows := reconcile.Compare(po, oa, profile)
	discrepancies := reconcile.Discrepancies(rows)
	table := report.Assemble(rows)

	if err := st.CompleteRun(ctx, run.ID, len(rows), discrepancies, table); err != nil {
		return 0, eris.Wrap(err, "record run")
	}

	if batchOutDir != "" {
		out := fmt.Sprintf("%s/%s.%s", strings.TrimRight(batchOutDir, "/"), run.ID, batchFormat)
		switch batchFormat {
		case "csv":
			err = report.WriteCSV(table, out)
		case "xlsx":
			err = report.WriteXLSX(table, out)
		default:
			err = eris.Errorf("unknown format %q", batchFormat)
		}
		if err != nil {
			return discrepancies, eris.Wrap(err, "write report")
		}
	}

	return discrepancies, nil
}
