// Package handler implements the JSON API the browser view layer consumes.
// All handlers are methods on Server; methods are split into domain-specific
// files (donation.go, impact.go, etc.) but share the same struct so they can
// access its dependencies. The view layer renders only — every state
// transition and derivation lives behind the store and service packages.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bloomnet/backend/internal/domain"
	"github.com/bloomnet/backend/internal/repo"
	"github.com/bloomnet/backend/internal/service"
)

// DonationStore defines the collection operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a fake without touching persistence.
type DonationStore interface {
	Create(d domain.Donation, creator domain.User) (domain.Donation, error)
	Claim(id string, claimant domain.User) (domain.Donation, error)
	All() []domain.Donation
	Subscribe() (<-chan struct{}, func())
}

// Server holds the dependencies for all API endpoints.
type Server struct {
	store    DonationStore
	sessions repo.UserRepo

	query       *service.QueryService
	impact      *service.ImpactService
	leaderboard *service.LeaderboardService
	stats       *service.StatsService
}

// NewServer constructs the Server and its derivation services over the store.
func NewServer(store DonationStore, sessions repo.UserRepo) *Server {
	return &Server{
		store:       store,
		sessions:    sessions,
		query:       service.NewQueryService(store),
		impact:      service.NewImpactService(store),
		leaderboard: service.NewLeaderboardService(store),
		stats:       service.NewStatsService(store),
	}
}

// Routes registers every endpoint on a fresh router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/donations", s.handleListDonations)
		r.Post("/donations", s.handleCreateDonation)
		r.Get("/donations/mine", s.handleMyDonations)
		r.Post("/donations/{id}/claim", s.handleClaimDonation)

		r.Get("/impact", s.handleImpact)
		r.Get("/impact/share", s.handleImpactShare)
		r.Get("/impact/donors/{donorID}", s.handleDonorImpact)
		r.Get("/leaderboard", s.handleLeaderboard)

		r.Get("/stats", s.handleStats)
		r.Get("/stats/me", s.handleMyStats)
		r.Get("/feed", s.handleFeed)
		r.Get("/events", s.handleEvents)

		r.Get("/session", s.handleGetSession)
		r.Put("/session", s.handlePutSession)
		r.Delete("/session", s.handleDeleteSession)
	})

	return r
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
