package main

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/reconcile-cli/internal/extract"
	"github.com/sells-group/reconcile-cli/internal/fetcher"
	"github.com/sells-group/reconcile-cli/internal/model"
	"github.com/sells-group/reconcile-cli/internal/ocr"
	"github.com/sells-group/reconcile-cli/internal/store"
	"github.com/sells-group/reconcile-cli/internal/tolerance"
	"github.com/sells-group/reconcile-cli/internal/translate"
)

// initStore opens and migrates the run-history database.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// newFetchers builds the HTTP and FTP document fetchers from config.
func newFetchers() (httpF, ftpF fetcher.Fetcher) {
	timeout := time.Duration(cfg.Fetch.TimeoutSecs) * time.Second
	httpF = fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  cfg.Fetch.UserAgent,
		Timeout:    timeout,
		MaxRetries: cfg.Fetch.MaxRetries,
	})
	ftpF = fetcher.NewFTPFetcher(fetcher.FTPOptions{
		Timeout:  timeout,
		User:     cfg.Fetch.FTPUser,
		Password: cfg.Fetch.FTPPassword,
	})
	return httpF, ftpF
}

// newTranslator builds the optional translator. Returns nil when no API
// key is configured; extraction then skips translation entirely.
func newTranslator() extract.Translator {
	if cfg.Translate.Key == "" {
		return nil
	}
	tr, err := translate.New(translate.Config{Key: cfg.Translate.Key, Model: cfg.Translate.Model})
	if err != nil {
		zap.L().Warn("translator unavailable", zap.Error(err))
		return nil
	}
	return tr
}

// loadDocument resolves a document source (local path or http/ftp URL) and
// extracts its line items. The extraction strategy follows the file type:
// PDFs go through text extraction and the line pattern, spreadsheets and
// CSVs through the table extractor, plain text through the line pattern.
func loadDocument(ctx context.Context, source, keyColumn string) ([]model.LineItem, error) {
	tempDir := cfg.Fetch.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	httpF, ftpF := newFetchers()

	path, err := fetcher.Materialize(ctx, source, tempDir, httpF, ftpF)
	if err != nil {
		return nil, eris.Wrap(err, "load document")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		ex, err := ocr.NewExtractor(ocr.Config{
			Provider:      cfg.OCR.Provider,
			PdfToTextPath: cfg.OCR.PdfToTextPath,
		})
		if err != nil {
			return nil, err
		}
		text, err := ex.ExtractText(ctx, path)
		if err != nil {
			return nil, eris.Wrapf(extract.ErrExtractionFailure, "pdf %s: %v", path, err)
		}
		return extract.Lines(text), nil

	case ".xlsx":
		grid, err := fetcher.ReadXLSXGrid(path, fetcher.XLSXOptions{})
		if err != nil {
			return nil, eris.Wrapf(extract.ErrExtractionFailure, "xlsx %s: %v", path, err)
		}
		return extract.Table(extract.FromStrings(grid), keyColumn)

	case ".csv":
		grid, err := fetcher.ReadCSVGridFile(path)
		if err != nil {
			return nil, eris.Wrapf(extract.ErrExtractionFailure, "csv %s: %v", path, err)
		}
		return extract.Table(extract.FromStrings(grid), keyColumn)

	case ".txt", "":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(extract.ErrExtractionFailure, "text %s: %v", path, err)
		}
		return extract.Lines(string(raw)), nil

	default:
		return nil, eris.Errorf("load document: unsupported file type %q", filepath.Ext(path))
	}
}

// keyColumnOrDefault falls back to the configured identifier column.
func keyColumnOrDefault(keyColumn string) string {
	if keyColumn != "" {
		return keyColumn
	}
	return cfg.Compare.KeyColumn
}

// resolveProfile picks the vendor profile and applies --set overrides.
func resolveProfile(vendor string, overrides []string) (tolerance.Profile, error) {
	profile, err := tolerance.Resolve(vendor, cfg.Tolerance.ProfilesPath)
	if err != nil {
		return tolerance.Profile{}, err
	}
	if len(overrides) == 0 {
		return profile, nil
	}

	thresholds := make(map[string]float64, len(overrides))
	for _, o := range overrides {
		field, raw, found := strings.Cut(o, "=")
		if !found {
			return tolerance.Profile{}, eris.Errorf("invalid override %q, expected field=threshold", o)
		}
		thr, err := strconv.ParseFloat(raw, 64)
		if err != nil || thr < 0 {
			return tolerance.Profile{}, eris.Errorf("invalid threshold in override %q", o)
		}
		thresholds[strings.TrimSpace(field)] = thr
	}
	return profile.WithOverrides(thresholds), nil
}
