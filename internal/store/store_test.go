package store_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomnet/backend/internal/domain"
	"github.com/bloomnet/backend/internal/kv"
	"github.com/bloomnet/backend/internal/repo"
	"github.com/bloomnet/backend/internal/store"
)

var (
	donor   = domain.User{ID: "donor_1", DisplayName: "Community Kitchen", Role: domain.RoleDonor}
	shelter = domain.User{ID: "shelter_1", DisplayName: "Hope Shelter", Role: domain.RoleShelter}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestStore returns an unloaded store over a fresh in-memory kv, plus the
// kv itself so tests can pre-seed data or inject write failures.
func newTestStore(t *testing.T) (*store.Store, *kv.MemoryStore) {
	t.Helper()
	mem := kv.NewMemory()
	return store.New(repo.NewDonationRepo(mem), discardLogger()), mem
}

func validDonation() domain.Donation {
	return domain.Donation{
		FoodName:   "Rice & Dal",
		Category:   domain.CategoryMeals,
		Quantity:   "10 meals",
		Notes:      "Freshly cooked",
		PickupTime: time.Now().Add(4 * time.Hour),
		Latitude:   28.7,
		Longitude:  77.1,
	}
}

// ---- Load and seeding ------------------------------------------------------

func TestLoad_SeedsWhenEmpty(t *testing.T) {
	s, mem := newTestStore(t)

	s.Load(time.Now())

	all := s.All()
	require.Len(t, all, 3)
	for _, d := range all {
		assert.True(t, d.Open(), "seeded donation %s should be open", d.ID)
		assert.NotEmpty(t, d.PickupTimeDisplay)
	}

	// Seeds are persisted, not just in memory.
	persisted, err := repo.NewDonationRepo(mem).Load()
	require.NoError(t, err)
	assert.Len(t, persisted, 3)
}

func TestLoad_DoesNotSeedWhenNonEmpty(t *testing.T) {
	s, mem := newTestStore(t)
	existing := validDonation()
	existing.ID = "user_created"
	existing.DonorID = donor.ID
	require.NoError(t, repo.NewDonationRepo(mem).Save([]domain.Donation{existing}))

	s.Load(time.Now())

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, "user_created", all[0].ID)
}

// TestLoad_CorruptResetsAndSeeds verifies corruption is recovered locally:
// the collection resets to empty and the demo seed runs.
func TestLoad_CorruptResetsAndSeeds(t *testing.T) {
	s, mem := newTestStore(t)
	require.NoError(t, mem.Set("donations", "{definitely not json"))

	s.Load(time.Now())

	assert.Len(t, s.All(), 3)
}

// ---- Create ----------------------------------------------------------------

func TestCreate_OK(t *testing.T) {
	s, _ := newTestStore(t)

	created, err := s.Create(validDonation(), donor)

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Timestamp.IsZero())
	assert.Equal(t, donor.ID, created.DonorID)
	assert.Equal(t, donor.DisplayName, created.DonorName)
	assert.NotEmpty(t, created.PickupTimeDisplay)
	assert.False(t, created.Claimed)
	assert.False(t, created.Expired)

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)
}

func TestCreate_UniqueIDs(t *testing.T) {
	s, _ := newTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		created, err := s.Create(validDonation(), donor)
		require.NoError(t, err)
		assert.False(t, seen[created.ID], "duplicate id %s", created.ID)
		seen[created.ID] = true
	}
}

func TestCreate_RequiresDonorRole(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Create(validDonation(), shelter)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, s.All())
}

func TestCreate_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.Donation)
	}{
		{"missing food name", func(d *domain.Donation) { d.FoodName = "" }},
		{"unknown category", func(d *domain.Donation) { d.Category = "sushi" }},
		{"missing quantity", func(d *domain.Donation) { d.Quantity = "" }},
		{"missing pickup time", func(d *domain.Donation) { d.PickupTime = time.Time{} }},
		{"missing location", func(d *domain.Donation) { d.Latitude, d.Longitude = 0, 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			d := validDonation()
			tc.mutate(&d)

			_, err := s.Create(d, donor)

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, s.All())
		})
	}
}

// TestCreate_StorageFullKeepsMemory verifies a failed persist still creates
// the donation in memory and tells the caller the persisted copy is stale.
func TestCreate_StorageFullKeepsMemory(t *testing.T) {
	s, mem := newTestStore(t)
	mem.SetErr = errors.New("quota exceeded")

	created, err := s.Create(validDonation(), donor)

	assert.ErrorIs(t, err, domain.ErrStorageFull)
	assert.NotEmpty(t, created.ID)
	require.Len(t, s.All(), 1)
}

// ---- Claim -----------------------------------------------------------------

func TestClaim_OK(t *testing.T) {
	s, _ := newTestStore(t)
	created, err := s.Create(validDonation(), donor)
	require.NoError(t, err)

	claimed, err := s.Claim(created.ID, shelter)

	require.NoError(t, err)
	assert.True(t, claimed.Claimed)
	assert.Equal(t, shelter.ID, claimed.ClaimedBy)
	assert.Equal(t, shelter.DisplayName, claimed.ClaimedByName)
	require.NotNil(t, claimed.ClaimedAt)
	assert.False(t, claimed.Expired)
}

func TestClaim_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Claim("no-such-id", shelter)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClaim_RequiresShelterRole(t *testing.T) {
	s, _ := newTestStore(t)
	created, err := s.Create(validDonation(), donor)
	require.NoError(t, err)

	_, err = s.Claim(created.ID, donor)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, s.All()[0].Claimed)
}

// TestClaim_SecondClaimRejected verifies claimed is absorbing: the second
// claim fails with ErrAlreadyClaimed and the first claimant's attribution
// is untouched.
func TestClaim_SecondClaimRejected(t *testing.T) {
	s, _ := newTestStore(t)
	created, err := s.Create(validDonation(), donor)
	require.NoError(t, err)

	first, err := s.Claim(created.ID, shelter)
	require.NoError(t, err)

	other := domain.User{ID: "shelter_2", DisplayName: "Second Shelter", Role: domain.RoleShelter}
	_, err = s.Claim(created.ID, other)
	assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)

	got := s.All()[0]
	assert.Equal(t, first.ClaimedBy, got.ClaimedBy)
	assert.Equal(t, first.ClaimedByName, got.ClaimedByName)
	assert.True(t, first.ClaimedAt.Equal(*got.ClaimedAt))
}

// TestClaim_ExpiredStillClaimable verifies expiry is advisory: a donation
// whose deadline passed can still be claimed, and claiming clears the
// expired flag so claim and expiry stay mutually exclusive.
func TestClaim_ExpiredStillClaimable(t *testing.T) {
	s, _ := newTestStore(t)
	d := validDonation()
	d.PickupTime = time.Now().Add(-3 * time.Hour)
	created, err := s.Create(d, donor)
	require.NoError(t, err)

	changed, err := s.Sweep(time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, changed)
	require.True(t, s.All()[0].Expired)

	claimed, err := s.Claim(created.ID, shelter)

	require.NoError(t, err)
	assert.True(t, claimed.Claimed)
	assert.False(t, claimed.Expired)
}

// ---- Sweep -----------------------------------------------------------------

func TestSweep_MarksPastDeadlines(t *testing.T) {
	s, _ := newTestStore(t)
	stale := validDonation()
	stale.PickupTime = time.Now().Add(-3 * time.Hour)
	_, err := s.Create(stale, donor)
	require.NoError(t, err)
	_, err = s.Create(validDonation(), donor) // deadline still ahead
	require.NoError(t, err)

	changed, err := s.Sweep(time.Now())

	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	all := s.All()
	assert.True(t, all[0].Expired)
	assert.False(t, all[1].Expired)
}

// TestSweep_Idempotent verifies running the sweep twice with no time change
// flips nothing the second time.
func TestSweep_Idempotent(t *testing.T) {
	s, _ := newTestStore(t)
	stale := validDonation()
	stale.PickupTime = time.Now().Add(-time.Hour)
	_, err := s.Create(stale, donor)
	require.NoError(t, err)

	now := time.Now()
	first, err := s.Sweep(now)
	require.NoError(t, err)
	require.Equal(t, 1, first)
	before := s.All()

	second, err := s.Sweep(now)
	require.NoError(t, err)
	assert.Zero(t, second)
	assert.Equal(t, before, s.All())
}

// TestSweep_ClearsFlagWhenDeadlineAhead verifies re-evaluation clears a
// stale expired flag when the deadline is (again) in the future.
func TestSweep_ClearsFlagWhenDeadlineAhead(t *testing.T) {
	s, _ := newTestStore(t)
	d := validDonation()
	d.PickupTime = time.Now().Add(2 * time.Hour)
	_, err := s.Create(d, donor)
	require.NoError(t, err)

	// Sweep from a vantage point past the deadline, then from before it.
	changed, err := s.Sweep(time.Now().Add(3 * time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, changed)

	changed, err = s.Sweep(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	assert.False(t, s.All()[0].Expired)
}

func TestSweep_SkipsClaimed(t *testing.T) {
	s, _ := newTestStore(t)
	d := validDonation()
	d.PickupTime = time.Now().Add(time.Hour)
	created, err := s.Create(d, donor)
	require.NoError(t, err)
	_, err = s.Claim(created.ID, shelter)
	require.NoError(t, err)

	changed, err := s.Sweep(time.Now().Add(2 * time.Hour))

	require.NoError(t, err)
	assert.Zero(t, changed)
	assert.False(t, s.All()[0].Expired, "claimed donation must never be marked expired")
}

// ---- Subscription ----------------------------------------------------------

func TestSubscribe_SignalledOnMutation(t *testing.T) {
	s, _ := newTestStore(t)
	changes, cancel := s.Subscribe()
	defer cancel()

	_, err := s.Create(validDonation(), donor)
	require.NoError(t, err)

	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("no change signal after create")
	}
}

func TestSubscribe_CancelStopsSignals(t *testing.T) {
	s, _ := newTestStore(t)
	changes, cancel := s.Subscribe()
	cancel()

	_, err := s.Create(validDonation(), donor)
	require.NoError(t, err)

	select {
	case <-changes:
		t.Fatal("signal received after cancel")
	case <-time.After(50 * time.Millisecond):
	}
}
