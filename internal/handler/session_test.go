package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomnet/backend/internal/domain"
)

type sessionBody struct {
	Data domain.User `json:"data"`
}

func TestGetSession_NobodySignedIn(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/session", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPutSession_SignIn(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPut, "/api/session", map[string]any{
		"displayName": "  Community Kitchen  ",
		"role":        "donor",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var body sessionBody
	decodeBody(t, rec, &body)
	assert.True(t, strings.HasPrefix(body.Data.ID, "user_"), "server assigns an id")
	assert.Equal(t, "Community Kitchen", body.Data.DisplayName, "display name is trimmed")
	assert.Equal(t, domain.RoleDonor, body.Data.Role)

	// The session persists.
	rec = e.do(t, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got sessionBody
	decodeBody(t, rec, &got)
	assert.Equal(t, body.Data, got.Data)
}

func TestPutSession_KeepsClientID(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPut, "/api/session", map[string]any{
		"id":          "user_existing",
		"displayName": "Hope Shelter",
		"role":        "shelter",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var body sessionBody
	decodeBody(t, rec, &body)
	assert.Equal(t, "user_existing", body.Data.ID)
}

func TestPutSession_Validation(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPut, "/api/session", map[string]any{
		"displayName": "   ",
		"role":        "donor",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = e.do(t, http.MethodPut, "/api/session", map[string]any{
		"displayName": "Someone",
		"role":        "admin",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDeleteSession(t *testing.T) {
	e := newTestEnv(t)
	e.signIn(t, testDonor)

	rec := e.do(t, http.MethodDelete, "/api/session", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/session", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Sign-out when nobody is signed in is a no-op.
	rec = e.do(t, http.MethodDelete, "/api/session", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
