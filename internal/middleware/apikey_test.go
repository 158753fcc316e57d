package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymkit/gym-api/internal/model"
	"github.com/gymkit/gym-api/internal/repository"
)

// stubCredentials maps API keys to members. Keys of inactive members
// are simply not present, mirroring the repository's active-only
// lookup.
type stubCredentials struct {
	members map[string]model.Member
	err     error
}

func (s *stubCredentials) FindActiveByKey(ctx context.Context, key string) (model.Member, error) {
	if s.err != nil {
		return model.Member{}, s.err
	}
	m, ok := s.members[key]
	if !ok {
		return model.Member{}, repository.ErrNotFound
	}
	return m, nil
}

func runAuth(t *testing.T, store CredentialStore, limiter *RateLimiter, failOpen bool, apiKey string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/machines", nil)
	if apiKey != "" {
		req.Header.Set(HeaderAPIKey, apiKey)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.JSON(http.StatusOK, echo.Map{"ok": true}) }
	err := APIKeyAuth(store, limiter, failOpen)(next)(c)
	require.NoError(t, err)
	return rec
}

func TestAPIKeyAuthMissingHeader(t *testing.T) {
	rec := runAuth(t, &stubCredentials{}, nil, true, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"missing API key"}`, rec.Body.String())
}

func TestAPIKeyAuthIndistinguishableFailures(t *testing.T) {
	// One store where "inactive-key" belongs to a deactivated member
	// (and therefore resolves to nothing) and "nope" was never issued.
	store := &stubCredentials{members: map[string]model.Member{}}

	unknown := runAuth(t, store, nil, true, "nope")
	inactive := runAuth(t, store, nil, true, "inactive-key")

	assert.Equal(t, http.StatusForbidden, unknown.Code)
	assert.Equal(t, unknown.Code, inactive.Code)
	assert.Equal(t, unknown.Body.String(), inactive.Body.String(),
		"wrong key and inactive member must be indistinguishable")
}

func TestAPIKeyAuthAttachesPrincipal(t *testing.T) {
	member := model.Member{ID: 7, FirstName: "Ana", Role: model.RoleStaff, APIKey: "good", Active: true}
	store := &stubCredentials{members: map[string]model.Member{"good": member}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/machines", nil)
	req.Header.Set(HeaderAPIKey, "good")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got model.Member
	next := func(c echo.Context) error {
		p, ok := Principal(c)
		require.True(t, ok)
		got = p
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, APIKeyAuth(store, nil, true)(next)(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, member, got)
}

func TestAPIKeyAuthRateLimited(t *testing.T) {
	member := model.Member{ID: 1, APIKey: "good", Role: model.RoleMember, Active: true}
	store := &stubCredentials{members: map[string]model.Member{"good": member}}
	limiter, _ := newTestLimiter(t, 2)

	for i := 0; i < 2; i++ {
		rec := runAuth(t, store, limiter, true, "good")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	rec := runAuth(t, store, limiter, true, "good")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
}

func TestAPIKeyAuthFailOpen(t *testing.T) {
	member := model.Member{ID: 1, APIKey: "good", Role: model.RoleMember, Active: true}
	store := &stubCredentials{members: map[string]model.Member{"good": member}}

	limiter, mr := newTestLimiter(t, 2)
	mr.Close() // limiter infrastructure down

	rec := runAuth(t, store, limiter, true, "good")
	assert.Equal(t, http.StatusOK, rec.Code, "fail-open lets the request through without limiting")
}

func TestAPIKeyAuthFailClosed(t *testing.T) {
	member := model.Member{ID: 1, APIKey: "good", Role: model.RoleMember, Active: true}
	store := &stubCredentials{members: map[string]model.Member{"good": member}}

	limiter, mr := newTestLimiter(t, 2)
	mr.Close()

	rec := runAuth(t, store, limiter, false, "good")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAPIKeyAuthCountsBeforeBusinessLogic(t *testing.T) {
	member := model.Member{ID: 1, APIKey: "good", Role: model.RoleMember, Active: true}
	store := &stubCredentials{members: map[string]model.Member{"good": member}}
	limiter, mr := newTestLimiter(t, 100)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/machines", nil)
	req.Header.Set(HeaderAPIKey, "good")
	c := e.NewContext(req, httptest.NewRecorder())

	// The handler fails, but the increment already happened.
	next := func(c echo.Context) error { return c.NoContent(http.StatusInternalServerError) }
	require.NoError(t, APIKeyAuth(store, limiter, true)(next)(c))

	keys := mr.Keys()
	require.Len(t, keys, 1)
	v, err := mr.Get(keys[0])
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}
