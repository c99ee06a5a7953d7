package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/pitchside/backend/domain"
	"github.com/pitchside/backend/dto"
	aerrors "github.com/pitchside/backend/errors"
	"github.com/pitchside/backend/revocation"
	"github.com/pitchside/backend/token"
)

// Gatekeeper is the per-request enforcement point. Authenticate verifies the
// bearer token and attaches the principal; RequireRoles (authz.go) is the
// composable second stage. The gatekeeper only reads the revocation store,
// never writes it.
type Gatekeeper struct {
	codec       *token.Codec
	revocations revocation.Store
}

// NewGatekeeper creates a new Gatekeeper.
func NewGatekeeper(codec *token.Codec, revocations revocation.Store) *Gatekeeper {
	return &Gatekeeper{codec: codec, revocations: revocations}
}

// Authenticate checks the bearer token on every request: extraction, then
// revocation, then signature/expiry. On success the principal is attached to
// the request context for downstream handlers.
//
// Rejections are deliberately distinguishable: missing and revoked tokens and
// expired tokens answer 401 (a fresh login or refresh can help), a malformed
// token answers 403 (retrying it never helps). A revocation-store failure
// rejects with 401 as well; the store state is logged, not leaked.
func (g *Gatekeeper) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := BearerToken(c.Request())
		if raw == "" {
			return reject(c, aerrors.NewTokenMissing())
		}

		revoked, err := g.revocations.IsRevoked(c.Request().Context(), raw)
		if err != nil {
			// Fail closed: unreachable store means the token cannot
			// be verified, not that it is clean.
			log.Error().Err(err).Msg("revocation check failed, rejecting request")
			return reject(c, aerrors.NewStoreUnavailable(err))
		}
		if revoked {
			return reject(c, aerrors.NewTokenRevoked())
		}

		claims, err := g.codec.Verify(raw)
		if err != nil {
			var ae *aerrors.AuthError
			if !stderrors.As(err, &ae) {
				ae = aerrors.NewTokenMalformed(err)
			}
			return reject(c, ae)
		}

		principal := domain.Principal{SubjectID: claims.Subject, Role: claims.Role}
		ctx := domain.WithPrincipal(c.Request().Context(), principal)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// reject maps a tagged auth error onto its HTTP rejection. The switch is
// exhaustive over the kinds the middleware produces: missing, revoked and
// expired tokens answer 401 (a fresh login or refresh can help), malformed
// tokens and authorization denials answer 403 (retrying never helps). A
// store failure is presented as a revoked token, so infrastructure state
// never leaks to the client.
func reject(c echo.Context, err *aerrors.AuthError) error {
	switch err.Kind {
	case aerrors.KindTokenMissing, aerrors.KindTokenRevoked, aerrors.KindTokenExpired:
		return c.JSON(http.StatusUnauthorized, dto.Error(err.Description))
	case aerrors.KindStoreUnavailable:
		return c.JSON(http.StatusUnauthorized, dto.Error(aerrors.NewTokenRevoked().Description))
	case aerrors.KindTokenMalformed, aerrors.KindNoRole, aerrors.KindForbidden:
		return c.JSON(http.StatusForbidden, dto.Error(err.Description))
	default:
		log.Error().Err(err).Msg("unexpected rejection kind")
		return c.JSON(http.StatusInternalServerError, dto.Error("Something went wrong"))
	}
}

// BearerToken extracts the token from the Authorization header. Empty when
// the header is missing or not a Bearer credential.
func BearerToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
