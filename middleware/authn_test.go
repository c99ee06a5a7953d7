package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/backend/domain"
	aerrors "github.com/pitchside/backend/errors"
	"github.com/pitchside/backend/middleware"
	"github.com/pitchside/backend/revocation"
	"github.com/pitchside/backend/token"
)

func newCodec(t *testing.T) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec([]byte("gatekeeper-test-secret"), 0, 0)
	require.NoError(t, err)
	return codec
}

func newMemoryStore(t *testing.T) *revocation.MemoryStore {
	t.Helper()
	store := revocation.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// okHandler records the principal the gatekeeper attached.
func okHandler(got *domain.Principal) echo.HandlerFunc {
	return func(c echo.Context) error {
		if p, ok := domain.PrincipalFromContext(c.Request().Context()); ok {
			*got = p
		}
		return c.NoContent(http.StatusOK)
	}
}

func doRequest(t *testing.T, handler echo.HandlerFunc, mw echo.MiddlewareFunc, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, mw(handler)(c))
	return rec
}

func TestAuthenticate_MissingToken(t *testing.T) {
	g := middleware.NewGatekeeper(newCodec(t), newMemoryStore(t))

	var principal domain.Principal
	rec := doRequest(t, okHandler(&principal), g.Authenticate, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "access token required")
}

func TestAuthenticate_NonBearerHeader(t *testing.T) {
	g := middleware.NewGatekeeper(newCodec(t), newMemoryStore(t))

	var principal domain.Principal
	rec := doRequest(t, okHandler(&principal), g.Authenticate, "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	codec := newCodec(t)
	store := newMemoryStore(t)
	g := middleware.NewGatekeeper(codec, store)

	raw, err := codec.Issue("user-1", domain.RoleUser, token.KindAccess)
	require.NoError(t, err)

	// The token verifies fine on its own; revocation must precede expiry.
	_, err = codec.Verify(raw)
	require.NoError(t, err)

	require.NoError(t, store.Revoke(context.Background(), raw, time.Minute))

	var principal domain.Principal
	rec := doRequest(t, okHandler(&principal), g.Authenticate, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token is invalid")
	assert.Empty(t, principal.SubjectID)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	expiredCodec, err := token.NewCodec([]byte("gatekeeper-test-secret"), -time.Minute, 0)
	require.NoError(t, err)
	g := middleware.NewGatekeeper(expiredCodec, newMemoryStore(t))

	raw, err := expiredCodec.Issue("user-1", domain.RoleUser, token.KindAccess)
	require.NoError(t, err)

	var principal domain.Principal
	rec := doRequest(t, okHandler(&principal), g.Authenticate, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token has expired")
}

func TestAuthenticate_MalformedToken(t *testing.T) {
	g := middleware.NewGatekeeper(newCodec(t), newMemoryStore(t))

	var principal domain.Principal
	rec := doRequest(t, okHandler(&principal), g.Authenticate, "Bearer not-a-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestAuthenticate_AttachesPrincipal(t *testing.T) {
	codec := newCodec(t)
	g := middleware.NewGatekeeper(codec, newMemoryStore(t))

	raw, err := codec.Issue("user-42", domain.RoleAdmin, token.KindAccess)
	require.NoError(t, err)

	var principal domain.Principal
	rec := doRequest(t, okHandler(&principal), g.Authenticate, "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", principal.SubjectID)
	assert.Equal(t, domain.RoleAdmin, principal.Role)
}

func TestAuthenticate_StoreFailureFailsClosed(t *testing.T) {
	codec := newCodec(t)
	g := middleware.NewGatekeeper(codec, unreachableStore{})

	raw, err := codec.Issue("user-1", domain.RoleUser, token.KindAccess)
	require.NoError(t, err)

	var principal domain.Principal
	rec := doRequest(t, okHandler(&principal), g.Authenticate, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "an unreachable store must reject, not allow")
	assert.Empty(t, principal.SubjectID)
	// The infrastructure state is not leaked to the client.
	assert.NotContains(t, rec.Body.String(), "store")
}

// Every rejection body must come from the tagged error taxonomy, not from
// strings local to the middleware.
func TestAuthenticate_RejectionsCarryTaxonomyMessages(t *testing.T) {
	codec := newCodec(t)
	store := newMemoryStore(t)
	g := middleware.NewGatekeeper(codec, store)

	var principal domain.Principal

	rec := doRequest(t, okHandler(&principal), g.Authenticate, "")
	assert.Contains(t, rec.Body.String(), aerrors.NewTokenMissing().Description)

	raw, err := codec.Issue("user-1", domain.RoleUser, token.KindAccess)
	require.NoError(t, err)
	require.NoError(t, store.Revoke(context.Background(), raw, time.Minute))
	rec = doRequest(t, okHandler(&principal), g.Authenticate, "Bearer "+raw)
	assert.Contains(t, rec.Body.String(), aerrors.NewTokenRevoked().Description)

	rec = doRequest(t, okHandler(&principal), g.Authenticate, "Bearer bogus")
	assert.Contains(t, rec.Body.String(), aerrors.NewTokenMalformed(nil).Description)
}

type unreachableStore struct{}

func (unreachableStore) Revoke(context.Context, string, time.Duration) error {
	return aerrors.NewStoreUnavailable(assert.AnError)
}

func (unreachableStore) IsRevoked(context.Context, string) (bool, error) {
	return false, aerrors.NewStoreUnavailable(assert.AnError)
}

func (unreachableStore) Close() error { return nil }
