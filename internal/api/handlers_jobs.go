package api

import (
	"net/http"
	"strconv"

	"github.com/job-radar/internal/logging"
	"github.com/job-radar/internal/storage"
)

const (
	defaultJobsLimit = 50
	maxJobsLimit     = 200
)

// handleListJobs handles GET /api/jobs - the read side of the feed.
// Query parameters: max_age_days, q, category, us_only, limit, offset.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := storage.ListFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		USOnly:   parseBoolParam(q.Get("us_only")),
		Limit:    defaultJobsLimit,
	}

	if v := q.Get("max_age_days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "max_age_days must be a non-negative integer")
			return
		}
		filter.MaxAgeDays = days
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "limit must be a positive integer")
			return
		}
		if limit > maxJobsLimit {
			limit = maxJobsLimit
		}
		filter.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "offset must be a non-negative integer")
			return
		}
		filter.Offset = offset
	}

	postings, total, err := s.postings.List(r.Context(), filter)
	if err != nil {
		logging.WithError(err).Error("list jobs failed")
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to list jobs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":   postings,
		"count":  len(postings),
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

func parseBoolParam(v string) bool {
	switch v {
	case "1", "true", "yes":
		return true
	}
	return false
}
