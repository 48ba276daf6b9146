package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/job-radar/internal/logging"
	"github.com/job-radar/internal/registry"
	"github.com/job-radar/internal/storage"
	"github.com/job-radar/internal/types"
)

// handleListSources handles GET /api/sources - list all registered boards
func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.sources.ListAll(r.Context())
	if err != nil {
		logging.WithError(err).Error("list sources failed")
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to list sources")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sources": sources,
		"count":   len(sources),
	})
}

// handleRegisterSource handles POST /api/sources - register a company board.
// Accepts either an explicit (provider, token) pair or a board URL to
// auto-detect from.
func (s *Server) handleRegisterSource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL         string `json:"url,omitempty"`
		Provider    string `json:"provider,omitempty"`
		Token       string `json:"token,omitempty"`
		DisplayName string `json:"display_name,omitempty"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body")
		return
	}

	provider, token, displayName := req.Provider, req.Token, req.DisplayName

	if provider == "" || token == "" {
		if req.URL == "" {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Either url or provider+token is required")
			return
		}
		detection, ok := registry.Detect(req.URL)
		if !ok {
			respondError(w, http.StatusUnprocessableEntity, ErrCodeUnrecognized, "Could not recognize an ATS board in the URL")
			return
		}
		provider = string(detection.Provider)
		token = detection.Token
		if displayName == "" {
			displayName = detection.DisplayName
		}
	}

	p, err := types.ParseProvider(provider)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Unknown provider")
		return
	}
	if displayName == "" {
		displayName = token
	}

	if err := s.sources.Register(r.Context(), p, token, displayName); err != nil {
		logging.WithError(err).Error("register source failed")
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to register source")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"provider":     string(p),
		"token":        token,
		"display_name": displayName,
	})
}

// handleDetectSource handles POST /api/sources/detect - dry-run URL detection
func (s *Server) handleDetectSource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := parseJSONBody(r, &req); err != nil || req.URL == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "url is required")
		return
	}

	detection, ok := registry.Detect(req.URL)
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, ErrCodeUnrecognized, "Could not recognize an ATS board in the URL")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"provider":     string(detection.Provider),
		"token":        detection.Token,
		"display_name": detection.DisplayName,
	})
}

// handleDeactivateSource handles DELETE /api/sources/{provider}/{token}
func (s *Server) handleDeactivateSource(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	p, err := types.ParseProvider(vars["provider"])
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Unknown provider")
		return
	}
	// tokens may contain escaped slashes or colons (Workday); the router
	// matches on the encoded path, so vars arrive still escaped
	token, err := url.PathUnescape(vars["token"])
	if err != nil || token == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid token")
		return
	}

	if err := s.sources.Deactivate(r.Context(), p, token); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Source not found")
			return
		}
		logging.WithError(err).Error("deactivate source failed")
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to deactivate source")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"provider": string(p),
		"token":    token,
		"status":   "deactivated",
	})
}
