package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bloomnet/backend/internal/domain"
)

// sessionRequest is the PUT /api/session body. ID is optional: the server
// assigns one on first sign-in and the client echoes it back when picking a
// role later. Role is optional too — it is chosen after identity creation.
type sessionRequest struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"displayName"`
	Role        domain.Role `json:"role"`
}

// handleGetSession handles GET /api/session.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	user, ok, err := s.sessions.Get()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "nobody is signed in")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": user})
}

// handlePutSession handles PUT /api/session: sign-in and role selection.
func (s *Server) handlePutSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}

	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "displayName is required")
		return
	}
	if !req.Role.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "role must be donor or shelter")
		return
	}
	if req.ID == "" {
		req.ID = "user_" + uuid.NewString()
	}

	user := domain.User{ID: req.ID, DisplayName: req.DisplayName, Role: req.Role}
	if err := s.sessions.Put(user); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": user})
}

// handleDeleteSession handles DELETE /api/session: sign-out.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
