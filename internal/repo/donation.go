// Package repo contains the persistence codecs for the BloomNet backend.
// Each persisted record has its own file with an interface and a key-value
// implementation. No business logic lives here — only JSON and key mapping.
package repo

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bloomnet/backend/internal/domain"
	"github.com/bloomnet/backend/internal/kv"
)

// donationsKey is the key the full donation collection is stored under,
// as a single JSON array.
const donationsKey = "donations"

// ErrCorrupt is returned by Load when the persisted collection exists but is
// not valid JSON. Callers recover by resetting to an empty collection and
// re-seeding; the error is never surfaced past the store.
var ErrCorrupt = errors.New("corrupt collection")

// DonationRepo defines the persistence operations for the donation collection.
// The store depends on this interface, not the key-value implementation,
// which allows the store to be unit-tested with a mock.
type DonationRepo interface {
	// Load reads the full collection. An absent key yields (nil, nil).
	// Malformed persisted JSON yields an error wrapping ErrCorrupt.
	Load() ([]domain.Donation, error)

	// Save persists the full collection, overwriting the previous copy.
	// A full store yields an error wrapping domain.ErrStorageFull.
	Save(donations []domain.Donation) error
}

// kvDonationRepo is the key-value implementation of DonationRepo.
type kvDonationRepo struct {
	kv kv.Store
}

// NewDonationRepo constructs a DonationRepo backed by the provided key-value store.
func NewDonationRepo(store kv.Store) DonationRepo {
	return &kvDonationRepo{kv: store}
}

// Load reads and unmarshals the collection stored under the donations key.
func (r *kvDonationRepo) Load() ([]domain.Donation, error) {
	raw, ok, err := r.kv.Get(donationsKey)
	if err != nil {
		return nil, fmt.Errorf("repo.DonationRepo.Load: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var donations []domain.Donation
	if err := json.Unmarshal([]byte(raw), &donations); err != nil {
		return nil, fmt.Errorf("repo.DonationRepo.Load: %w: %w", ErrCorrupt, err)
	}

	// Distance is a per-viewer annotation; never trust a persisted one.
	for i := range donations {
		donations[i].Distance = nil
	}
	return donations, nil
}

// Save marshals and writes the whole collection in one set.
// Write amplification scales with mutation frequency, which is acceptable at
// demo scale; revisit before reusing this layout for larger collections.
func (r *kvDonationRepo) Save(donations []domain.Donation) error {
	if donations == nil {
		donations = []domain.Donation{}
	}
	raw, err := json.Marshal(donations)
	if err != nil {
		return fmt.Errorf("repo.DonationRepo.Save: %w", err)
	}
	if err := r.kv.Set(donationsKey, string(raw)); err != nil {
		return fmt.Errorf("repo.DonationRepo.Save: %w: %w", domain.ErrStorageFull, err)
	}
	return nil
}
