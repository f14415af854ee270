package handler

import (
	"net/http"
	"time"

	"github.com/bloomnet/backend/internal/domain"
)

// handleStats handles GET /api/stats: the dashboard widgets plus the recent
// activity lines.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"dashboard": s.stats.Dashboard(now),
			"activity":  s.stats.RecentActivity(now),
		},
	})
}

// handleMyStats handles GET /api/stats/me: the panel stats for the signed-in
// user, shaped by their role.
func (s *Server) handleMyStats(w http.ResponseWriter, r *http.Request) {
	user, ok := s.signedInUser(w)
	if !ok {
		return
	}

	switch user.Role {
	case domain.RoleDonor:
		writeJSON(w, http.StatusOK, map[string]any{"data": s.stats.Donor(user.ID)})
	case domain.RoleShelter:
		writeJSON(w, http.StatusOK, map[string]any{"data": s.stats.Shelter(user.ID)})
	default:
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "pick a role first")
	}
}

// handleFeed handles GET /api/feed: the five newest open donations.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": toViews(s.stats.Feed(), time.Now())})
}
