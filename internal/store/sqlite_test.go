package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/reconcile-cli/internal/model"
	"github.com/sells-group/reconcile-cli/internal/report"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "Posco", "po.pdf", "oa.pdf")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	table := report.Table{
		Columns: report.Columns,
		Rows:    [][]string{{"1", "Quantity", "1000", "1050", "+50", "+5.00%", "OUT OF TOLERANCE"}},
	}
	require.NoError(t, s.CompleteRun(ctx, run.ID, 1, 1, table))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusCompleted, got.Status)
	assert.Equal(t, 1, got.Rows)
	assert.Equal(t, 1, got.Discrepancies)
	assert.Equal(t, "Posco", got.Vendor)

	stored, err := s.GetReport(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, table, *stored)
}

func TestFailRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "Custom", "po.pdf", "oa.pdf")
	require.NoError(t, err)
	require.NoError(t, s.FailRun(ctx, run.ID, errors.New("document could not be read")))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Contains(t, got.Error, "could not be read")

	// No report was stored.
	_, err = s.GetReport(ctx, run.ID)
	assert.Error(t, err)
}

func TestListRuns_FilterAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateRun(ctx, "Posco", "a-po.pdf", "a-oa.pdf")
	require.NoError(t, err)
	_, err = s.CreateRun(ctx, "Custom", "b-po.pdf", "b-oa.pdf")
	require.NoError(t, err)
	require.NoError(t, s.CompleteRun(ctx, a.ID, 0, 0, report.Table{Columns: report.Columns}))

	runs, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = s.ListRuns(ctx, RunFilter{Vendor: "Posco"})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, a.ID, runs[0].ID)

	runs, err = s.ListRuns(ctx, RunFilter{Status: model.RunStatusCompleted})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, a.ID, runs[0].ID)

	runs, err = s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestUpdateMissingRun(t *testing.T) {
	s := newTestStore(t)
	err := s.CompleteRun(context.Background(), "no-such-id", 0, 0, report.Table{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
