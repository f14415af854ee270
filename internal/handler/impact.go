package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bloomnet/backend/internal/service"
)

// handleImpact handles GET /api/impact: the global impact summary over every
// claimed donation.
func (s *Server) handleImpact(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": s.impact.Global()})
}

// handleDonorImpact handles GET /api/impact/donors/{donorID}.
// A donor with no claimed donations gets a zero summary, not a 404: the
// impact of nothing is nothing.
func (s *Server) handleDonorImpact(w http.ResponseWriter, r *http.Request) {
	donorID := chi.URLParam(r, "donorID")
	writeJSON(w, http.StatusOK, map[string]any{"data": s.impact.Donor(donorID)})
}

// handleImpactShare handles GET /api/impact/share: the share sentence built
// from the global totals.
func (s *Server) handleImpactShare(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]string{"text": service.ShareText(s.impact.Global())},
	})
}

// handleLeaderboard handles GET /api/leaderboard: the top donors.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": s.leaderboard.Top()})
}
