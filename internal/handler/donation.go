package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bloomnet/backend/internal/domain"
	"github.com/bloomnet/backend/internal/geo"
	"github.com/bloomnet/backend/internal/timefmt"
)

// donationView is a donation annotated for the view layer: the urgency badge
// class and the relative "posted X ago" string are computed server-side so
// the view only renders.
type donationView struct {
	domain.Donation
	Urgency   timefmt.Urgency `json:"urgency"`
	PostedAgo string          `json:"postedAgo"`
}

func toViews(donations []domain.Donation, now time.Time) []donationView {
	views := make([]donationView, len(donations))
	for i, d := range donations {
		views[i] = donationView{
			Donation:  d,
			Urgency:   timefmt.UrgencyAt(d.PickupTime, now),
			PostedAgo: timefmt.Ago(d.Timestamp, now),
		}
	}
	return views
}

// handleListDonations handles GET /api/donations.
// Query params: search, category, sort (recency|distance|quantity), and the
// viewer location as lat/lng. Distance sort without a viewer location
// degrades to input order.
func (s *Server) handleListDonations(w http.ResponseWriter, r *http.Request) {
	q := domain.Query{
		Search:   r.URL.Query().Get("search"),
		Category: domain.Category(r.URL.Query().Get("category")),
		Sort:     domain.SortKey(r.URL.Query().Get("sort")),
	}

	var viewer *geo.Point
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr == nil && lngErr == nil {
		viewer = &geo.Point{Lat: lat, Lng: lng}
	}

	visible := s.query.Visible(q, viewer)
	writeJSON(w, http.StatusOK, map[string]any{"data": toViews(visible, time.Now())})
}

// createDonationRequest is the POST /api/donations body.
// Latitude and longitude are pointers so a missing location (the browser's
// location provider failed or was denied) is distinguishable from 0,0 and
// rejects the post instead of placing it in the Gulf of Guinea.
type createDonationRequest struct {
	FoodName   string          `json:"foodName"`
	Category   domain.Category `json:"category"`
	Quantity   string          `json:"quantity"`
	Notes      string          `json:"notes"`
	PickupTime time.Time       `json:"pickupTime"`
	Latitude   *float64        `json:"latitude"`
	Longitude  *float64        `json:"longitude"`
}

// handleCreateDonation handles POST /api/donations.
// The creator is the signed-in user, who must hold the donor role.
// When the persistent store is full the donation is still created in memory;
// the response carries it plus a warning instead of failing the post.
func (s *Server) handleCreateDonation(w http.ResponseWriter, r *http.Request) {
	creator, ok := s.signedInUser(w)
	if !ok {
		return
	}

	var req createDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "location is required")
		return
	}

	created, err := s.store.Create(domain.Donation{
		FoodName:   req.FoodName,
		Category:   req.Category,
		Quantity:   req.Quantity,
		Notes:      req.Notes,
		PickupTime: req.PickupTime,
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
	}, creator)
	if err != nil {
		if errors.Is(err, domain.ErrStorageFull) {
			writeJSON(w, http.StatusCreated, map[string]any{
				"data":    created,
				"warning": "saved in memory only: persistent storage is full",
			})
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"data": created})
}

// handleClaimDonation handles POST /api/donations/{id}/claim.
// The claimant is the signed-in user, who must hold the shelter role.
func (s *Server) handleClaimDonation(w http.ResponseWriter, r *http.Request) {
	claimant, ok := s.signedInUser(w)
	if !ok {
		return
	}

	claimed, err := s.store.Claim(chi.URLParam(r, "id"), claimant)
	if err != nil {
		if errors.Is(err, domain.ErrStorageFull) {
			writeJSON(w, http.StatusOK, map[string]any{
				"data":    claimed,
				"warning": "saved in memory only: persistent storage is full",
			})
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": claimed})
}

// handleMyDonations handles GET /api/donations/mine: the signed-in donor's
// history, newest first, claimed and expired included.
func (s *Server) handleMyDonations(w http.ResponseWriter, r *http.Request) {
	user, ok := s.signedInUser(w)
	if !ok {
		return
	}

	var mine []domain.Donation
	for _, d := range s.store.All() {
		if d.DonorID == user.ID {
			mine = append(mine, d)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].Timestamp.After(mine[j].Timestamp)
	})

	writeJSON(w, http.StatusOK, map[string]any{"data": toViews(mine, time.Now())})
}

// signedInUser resolves the current session. On a missing session it writes
// a 401 and reports ok=false; handlers return immediately in that case.
func (s *Server) signedInUser(w http.ResponseWriter) (domain.User, bool) {
	user, ok, err := s.sessions.Get()
	if err != nil {
		writeDomainError(w, err)
		return domain.User{}, false
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "sign in first")
		return domain.User{}, false
	}
	return user, true
}
