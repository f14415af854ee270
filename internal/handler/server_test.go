package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomnet/backend/internal/domain"
	"github.com/bloomnet/backend/internal/handler"
	"github.com/bloomnet/backend/internal/kv"
	"github.com/bloomnet/backend/internal/repo"
	"github.com/bloomnet/backend/internal/store"
)

var (
	testDonor   = domain.User{ID: "donor_1", DisplayName: "Community Kitchen", Role: domain.RoleDonor}
	testShelter = domain.User{ID: "shelter_1", DisplayName: "Hope Shelter", Role: domain.RoleShelter}
)

// env wires a Server over real in-memory persistence. The store is not
// loaded, so tests start from an empty collection instead of the demo seeds.
type env struct {
	router   chi.Router
	store    *store.Store
	sessions repo.UserRepo
	mem      *kv.MemoryStore
}

func newTestEnv(t *testing.T) *env {
	t.Helper()
	mem := kv.NewMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(repo.NewDonationRepo(mem), log)
	sessions := repo.NewUserRepo(mem)
	return &env{
		router:   handler.NewServer(st, sessions).Routes(),
		store:    st,
		sessions: sessions,
		mem:      mem,
	}
}

func (e *env) signIn(t *testing.T, user domain.User) {
	t.Helper()
	require.NoError(t, e.sessions.Put(user))
}

// post a valid donation straight through the store, bypassing the API.
func (e *env) postDonation(t *testing.T, foodName string) domain.Donation {
	t.Helper()
	created, err := e.store.Create(domain.Donation{
		FoodName:   foodName,
		Category:   domain.CategoryProduce,
		Quantity:   "5 kg",
		PickupTime: time.Now().Add(4 * time.Hour),
		Latitude:   28.7,
		Longitude:  77.1,
	}, testDonor)
	require.NoError(t, err)
	return created
}

func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestHealthz(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
}
