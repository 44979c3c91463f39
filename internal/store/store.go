// Package store persists comparison run history for audit and re-export.
// Line items are never stored; only run metadata and the finished report.
package store

import (
	"context"

	"github.com/sells-group/reconcile-cli/internal/model"
	"github.com/sells-group/reconcile-cli/internal/report"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Vendor string          `json:"vendor,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store is the persistence interface for run history.
type Store interface {
	CreateRun(ctx context.Context, vendor, poSource, oaSource string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, rows, discrepancies int, table report.Table) error
	FailRun(ctx context.Context, runID string, cause error) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	GetReport(ctx context.Context, runID string) (*report.Table, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
