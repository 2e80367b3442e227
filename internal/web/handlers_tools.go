package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sheetveil/sheetveil/internal/engine"
)

// toolRequest is the request body for creating or updating a tool.
type toolRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Method      string `json:"method"`
	Regexp      string `json:"regexp"`
	IsPublic    bool   `json:"isPublic"`
}

func toolID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "toolID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("tool not found: bad id %q", raw)
	}
	return id, nil
}

// handleListTools returns the caller's tools plus public ones.
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools, err := s.service.Tools().List(r.Context(), userID(r))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, tools)
}

// handleCreateTool registers a new custom tool owned by the caller.
func (s *Server) handleCreateTool(w http.ResponseWriter, r *http.Request) {
	var req toolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	tool, err := s.service.Tools().Create(r.Context(), engine.Tool{
		Name:        req.Name,
		Description: req.Description,
		Method:      req.Method,
		Regexp:      req.Regexp,
		UserID:      userID(r),
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusCreated, tool)
}

// handleGetTool returns one tool if the caller may see it.
func (s *Server) handleGetTool(w http.ResponseWriter, r *http.Request) {
	id, err := toolID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	tool, err := s.service.Tools().Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if !tool.IsPublic && tool.UserID != userID(r) {
		s.respondError(w, r, fmt.Errorf("tool not found: %s", id), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

// handleUpdateTool rewrites a tool owned by the caller.
func (s *Server) handleUpdateTool(w http.ResponseWriter, r *http.Request) {
	id, err := toolID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	var req toolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	tool, err := s.service.Tools().Update(r.Context(), engine.Tool{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Method:      req.Method,
		Regexp:      req.Regexp,
		UserID:      userID(r),
		IsPublic:    req.IsPublic,
	}, userID(r))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

// handleDeleteTool removes a tool owned by the caller.
func (s *Server) handleDeleteTool(w http.ResponseWriter, r *http.Request) {
	id, err := toolID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	if err := s.service.Tools().Delete(r.Context(), id, userID(r)); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
