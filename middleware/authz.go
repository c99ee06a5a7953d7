package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/pitchside/backend/domain"
	aerrors "github.com/pitchside/backend/errors"
)

// RequireRoles returns middleware enforcing that the authenticated
// principal's role is in the given allow-set. It must run after
// Gatekeeper.Authenticate.
//
// The allow-set is validated at route registration: an empty or unknown set
// is a programmer error and panics immediately rather than surfacing as a
// per-request server fault.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	if len(roles) == 0 {
		panic("middleware: RequireRoles called with an empty role set")
	}
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		if !r.Valid() {
			panic(fmt.Sprintf("middleware: RequireRoles called with unknown role %q", r))
		}
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := domain.PrincipalFromContext(c.Request().Context())
			if !ok || principal.Role == "" {
				return reject(c, aerrors.NewNoRole())
			}

			if _, ok := allowed[principal.Role]; !ok {
				return reject(c, aerrors.NewForbidden())
			}

			return next(c)
		}
	}
}
