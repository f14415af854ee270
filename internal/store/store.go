// Package store owns the authoritative in-memory donation collection and
// every mutation of it: loading, demo seeding, creation, the claim state
// machine, and expiry marking. All mutations run under one mutex so a
// check-then-set (two simultaneous claims on the same id) can never
// interleave, and each mutation persists the whole collection through the
// repo before notifying subscribers that the visible set must be recomputed.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bloomnet/backend/internal/domain"
	"github.com/bloomnet/backend/internal/repo"
	"github.com/bloomnet/backend/internal/timefmt"
)

// Store is the owned donation collection (one per process).
type Store struct {
	mu        sync.Mutex
	repo      repo.DonationRepo
	log       *slog.Logger
	donations []domain.Donation
	subs      map[chan struct{}]struct{}
}

// New constructs an empty Store over the given repo. Call Load before use.
func New(r repo.DonationRepo, log *slog.Logger) *Store {
	return &Store{
		repo: r,
		log:  log,
		subs: make(map[chan struct{}]struct{}),
	}
}

// Load reads the collection from persistence. Corruption and read failures
// are recovered locally by resetting to an empty collection; Load never
// fails outward. An empty collection is seeded with demo donations.
func (s *Store) Load(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	donations, err := s.repo.Load()
	if err != nil {
		if errors.Is(err, repo.ErrCorrupt) {
			s.log.Warn("persisted donations corrupt, resetting to empty", "error", err)
		} else {
			s.log.Warn("loading donations failed, starting empty", "error", err)
		}
		donations = nil
	}
	s.donations = donations

	if len(s.donations) == 0 {
		s.seedLocked(now)
	}
}

// seedLocked inserts the demo donations when the collection is empty.
// Idempotent: a collection with any donation at all, including user-created
// ones, is left alone. Caller holds s.mu.
func (s *Store) seedLocked(now time.Time) {
	if len(s.donations) > 0 {
		return
	}
	s.donations = demoDonations(now)
	if err := s.repo.Save(s.donations); err != nil {
		s.log.Warn("saving seeded donations failed", "error", err)
	}
	s.log.Info("seeded demo donations", "count", len(s.donations))
}

// Create validates fields, stamps identity and creation time, appends the
// donation, and persists. The creator must hold the donor role.
//
// On a failed save the in-memory collection keeps the new donation and the
// returned error wraps domain.ErrStorageFull: the caller is informed that
// the persisted copy may be stale, alongside the created record.
func (s *Store) Create(d domain.Donation, creator domain.User) (domain.Donation, error) {
	if creator.Role != domain.RoleDonor {
		return domain.Donation{}, fmt.Errorf("store.Store.Create: %w: only donors can post donations", domain.ErrValidation)
	}
	if err := validateDonation(d); err != nil {
		return domain.Donation{}, fmt.Errorf("store.Store.Create: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	d.ID = uuid.NewString()
	d.Timestamp = now
	d.DonorID = creator.ID
	d.DonorName = creator.DisplayName
	d.PickupTimeDisplay = timefmt.Display(d.PickupTime)
	d.Claimed = false
	d.ClaimedBy = ""
	d.ClaimedByName = ""
	d.ClaimedAt = nil
	d.Expired = false
	d.Distance = nil

	s.donations = append(s.donations, d)
	saveErr := s.repo.Save(s.donations)
	s.notifyLocked()

	if saveErr != nil {
		return d, fmt.Errorf("store.Store.Create: %w", saveErr)
	}
	return d, nil
}

// Claim transitions a donation to the claimed state, attributing it to the
// claimant. The claimant must hold the shelter role. An expired donation is
// still claimable: expiry is advisory urgency, not a lock. Claimed is
// absorbing — a second claim fails with domain.ErrAlreadyClaimed and leaves
// the claimed fields untouched.
func (s *Store) Claim(id string, claimant domain.User) (domain.Donation, error) {
	if claimant.Role != domain.RoleShelter {
		return domain.Donation{}, fmt.Errorf("store.Store.Claim: %w: only shelters can claim donations", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return domain.Donation{}, fmt.Errorf("store.Store.Claim: donation %q: %w", id, domain.ErrNotFound)
	}
	if s.donations[i].Claimed {
		return domain.Donation{}, fmt.Errorf("store.Store.Claim: donation %q: %w", id, domain.ErrAlreadyClaimed)
	}

	now := time.Now()
	s.donations[i].Claimed = true
	s.donations[i].ClaimedBy = claimant.ID
	s.donations[i].ClaimedByName = claimant.DisplayName
	s.donations[i].ClaimedAt = &now
	s.donations[i].Expired = false

	claimed := s.donations[i]
	saveErr := s.repo.Save(s.donations)
	s.notifyLocked()

	if saveErr != nil {
		return claimed, fmt.Errorf("store.Store.Claim: %w", saveErr)
	}
	return claimed, nil
}

// Sweep re-evaluates the expired flag of every unclaimed donation against
// now. It is idempotent and safe at any cadence: a deadline in the past sets
// expired, a deadline in the future clears it. When any flag changed the
// collection is persisted once and subscribers are notified.
func (s *Store) Sweep(now time.Time) (changed int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.donations {
		if s.donations[i].Claimed {
			continue
		}
		expired := now.After(s.donations[i].PickupTime)
		if s.donations[i].Expired != expired {
			s.donations[i].Expired = expired
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}

	saveErr := s.repo.Save(s.donations)
	s.notifyLocked()
	if saveErr != nil {
		return changed, fmt.Errorf("store.Store.Sweep: %w", saveErr)
	}
	return changed, nil
}

// All returns a snapshot copy of the full collection. Readers (query engine,
// aggregator, ranker) derive from the snapshot without holding the mutex.
func (s *Store) All() []domain.Donation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Donation, len(s.donations))
	copy(out, s.donations)
	return out
}

// Subscribe returns a channel that receives a signal after every mutation of
// the collection, plus a cancel func the subscriber must call when done.
// Signals are coalesced: a slow subscriber sees at least one signal for any
// burst of mutations, not one per mutation.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}
	return ch, cancel
}

// notifyLocked signals every subscriber without blocking. Caller holds s.mu.
func (s *Store) notifyLocked() {
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// indexLocked returns the position of the donation with the given id, or -1.
// Caller holds s.mu.
func (s *Store) indexLocked(id string) int {
	for i := range s.donations {
		if s.donations[i].ID == id {
			return i
		}
	}
	return -1
}

// validateDonation enforces the rules for user-submitted donation fields.
func validateDonation(d domain.Donation) error {
	if d.FoodName == "" {
		return fmt.Errorf("%w: foodName is required", domain.ErrValidation)
	}
	if !d.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, d.Category)
	}
	if d.Quantity == "" {
		return fmt.Errorf("%w: quantity is required", domain.ErrValidation)
	}
	if d.PickupTime.IsZero() {
		return fmt.Errorf("%w: pickupTime is required", domain.ErrValidation)
	}
	if d.Latitude == 0 && d.Longitude == 0 {
		return fmt.Errorf("%w: location is required", domain.ErrValidation)
	}
	return nil
}
