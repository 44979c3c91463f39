package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/reconcile-cli/internal/config"
	"github.com/sells-group/reconcile-cli/internal/store"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg = &config.Config{}
	cfg.Compare.KeyColumn = "Item"

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { _ = st.Close() })

	return newRouter(st)
}

func TestServe_Health(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestServe_Compare(t *testing.T) {
	r := testRouter(t)

	payload := compareRequest{
		Vendor: "posco",
		PO: [][]string{
			{"Item", "Thickness", "Quantity"},
			{"1", "0.250", "1000"},
		},
		OA: [][]string{
			{"Item", "Thickness", "Quantity"},
			{"1", "0.2505", "1100"},
		},
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/compare", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp compareResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, "Posco", resp.Vendor)
	// Quantity is +10%, outside Posco's 1.5% band; thickness stays within.
	assert.Equal(t, 1, resp.Discrepancies)
	assert.Len(t, resp.Report.Rows, 2)

	// The run is queryable afterwards.
	req = httptest.NewRequest(http.MethodGet, "/api/runs/"+resp.RunID, nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/runs/"+resp.RunID+"/report", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestServe_Compare_BadBody(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/compare", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestServe_Compare_BothTablesMissing(t *testing.T) {
	r := testRouter(t)

	body, _ := json.Marshal(compareRequest{Vendor: "posco"})
	req := httptest.NewRequest(http.MethodPost, "/api/compare", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestServe_Compare_EmptyOASide(t *testing.T) {
	r := testRouter(t)

	payload := compareRequest{
		Vendor: "posco",
		PO: [][]string{
			{"Item", "Thickness", "Quantity"},
			{"1", "0.250", "1000"},
		},
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/compare", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp compareResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	// Every PO line is missing from the empty acknowledgement.
	assert.Equal(t, 1, resp.Discrepancies)
	require.Len(t, resp.Report.Rows, 1)
	assert.Equal(t, "MISSING", resp.Report.Rows[0][6])
}

func TestServe_RunNotFound(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/runs/nope", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
