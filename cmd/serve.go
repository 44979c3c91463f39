package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/reconcile-cli/internal/extract"
	"github.com/sells-group/reconcile-cli/internal/model"
	"github.com/sells-group/reconcile-cli/internal/reconcile"
	"github.com/sells-group/reconcile-cli/internal/report"
	"github.com/sells-group/reconcile-cli/internal/store"
	"github.com/sells-group/reconcile-cli/internal/tolerance"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the comparison API server",
	Long: `Exposes the comparison engine over HTTP. POST tabular PO and OA data
to /api/compare and get the discrepancy report back as JSON; run history
is available under /api/runs.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the API routes.
func newRouter(st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/compare", handleCompare(st))

	r.Get("/api/runs", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		runs, err := st.ListRuns(req.Context(), store.RunFilter{
			Status: model.RunStatus(q.Get("status")),
			Vendor: q.Get("vendor"),
			Limit:  50,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, runs)
	})

	r.Get("/api/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
		run, err := st.GetRun(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusOK, run)
	})

	r.Get("/api/runs/{id}/report", func(w http.ResponseWriter, req *http.Request) {
		table, err := st.GetReport(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusOK, table)
	})

	return r
}

// compareRequest is the JSON body for POST /api/compare. PO and OA are
// row-major tables whose first row is the header.
type compareRequest struct {
	Vendor    string             `json:"vendor"`
	KeyColumn string             `json:"key_column"`
	Overrides map[string]float64 `json:"overrides"`
	PO        [][]string         `json:"po"`
	OA        [][]string         `json:"oa"`
}

// compareResponse is the result of an API comparison.
type compareResponse struct {
	RunID         string       `json:"run_id"`
	Vendor        string       `json:"vendor"`
	Rows          int          `json:"rows"`
	Discrepancies int          `json:"discrepancies"`
	Report        report.Table `json:"report"`
}

func handleCompare(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		var body compareRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, eris.Wrap(err, "invalid request body"))
			return
		}
		// One empty side is a legitimate comparison: the engine reports it
		// as all-Missing or all-Extra rows. Only a fully empty request is
		// rejected.
		if len(body.PO) == 0 && len(body.OA) == 0 {
			writeError(w, http.StatusBadRequest, eris.New("at least one of po and oa is required"))
			return
		}

		profile, err := tolerance.Resolve(body.Vendor, cfg.Tolerance.ProfilesPath)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if len(body.Overrides) > 0 {
			profile = profile.WithOverrides(body.Overrides)
		}

		keyColumn := keyColumnOrDefault(body.KeyColumn)
		po, err := extract.Table(extract.FromStrings(body.PO), keyColumn)
		if err != nil {
			writeError(w, http.StatusBadRequest, eris.Wrap(err, "po table"))
			return
		}
		oa, err := extract.Table(extract.FromStrings(body.OA), keyColumn)
		if err != nil {
			writeError(w, http.StatusBadRequest, eris.Wrap(err, "oa table"))
			return
		}

		run, err := st.CreateRun(ctx, profile.Vendor, "api", "api")
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		rows := reconcile.Compare(po, oa, profile)
		discrepancies := reconcile.Discrepancies(rows)
		table := report.Assemble(rows)

		if err := st.CompleteRun(ctx, run.ID, len(rows), discrepancies, table); err != nil {
			zap.L().Warn("serve: failed to record run", zap.Error(err))
		}

		writeJSON(w, http.StatusOK, compareResponse{
			RunID:         run.ID,
			Vendor:        profile.Vendor,
			Rows:          len(rows),
			Discrepancies: discrepancies,
			Report:        table,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
