package domain

import "context"

// Principal is the authenticated identity attached to a request after the
// gatekeeper accepted its token.
type Principal struct {
	SubjectID string
	Role      Role
}

type principalContextKey struct{}

// WithPrincipal returns a context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext retrieves the principal attached by the gatekeeper.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
