package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/job-radar/internal/logging"
	"github.com/job-radar/internal/types"
)

// authorizeCron guards the run-trigger endpoints with a shared secret. The
// key can arrive as the X-Cron-Key header or a ?key= query parameter. An
// empty configured secret disables the check.
func (s *Server) authorizeCron(w http.ResponseWriter, r *http.Request) bool {
	if s.config.CronSecret == "" {
		return true
	}
	key := r.Header.Get("X-Cron-Key")
	if key == "" {
		key = r.URL.Query().Get("key")
	}
	if key != s.config.CronSecret {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid or missing cron key")
		return false
	}
	return true
}

// handleRunProvider handles POST /api/run/{provider} - trigger one provider run
func (s *Server) handleRunProvider(w http.ResponseWriter, r *http.Request) {
	if !s.authorizeCron(w, r) {
		return
	}

	provider, err := types.ParseProvider(mux.Vars(r)["provider"])
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Unknown provider")
		return
	}

	result, err := s.runner.RunProvider(r.Context(), provider)
	if err != nil {
		logging.WithError(err).WithField("provider", string(provider)).Error("provider run failed")
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Provider run failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// handleRunAll handles POST /api/run - trigger a full ingestion run
func (s *Server) handleRunAll(w http.ResponseWriter, r *http.Request) {
	if !s.authorizeCron(w, r) {
		return
	}

	results, err := s.runner.RunAll(r.Context())
	if err != nil {
		// partial results still ship; the error names the failed providers
		logging.WithError(err).Error("full run finished with failures")
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"results": results,
			"error":   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// handleStatus handles GET /api/status - per-provider run freshness.
// threshold_minutes overrides the configured staleness window.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	threshold := s.config.StaleAfter
	if threshold <= 0 {
		threshold = 12 * time.Hour
	}

	if v := r.URL.Query().Get("threshold_minutes"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes < 1 {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "threshold_minutes must be a positive integer")
			return
		}
		threshold = time.Duration(minutes) * time.Minute
	}

	statuses, err := s.status.Status(r.Context(), threshold)
	if err != nil {
		logging.WithError(err).Error("status read failed")
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to read run status")
		return
	}

	allFresh := true
	for _, st := range statuses {
		if !st.IsFresh {
			allFresh = false
			break
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":                allFresh,
		"threshold_minutes": int(threshold.Minutes()),
		"providers":         statuses,
	})
}
