package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind tags an authentication error with its category. Callers switch on the
// kind instead of matching error strings, so every failure the token
// subsystem can produce is enumerated here.
type Kind string

const (
	// KindConfig marks a fatal startup-time misconfiguration, e.g. no
	// signing secret configured.
	KindConfig Kind = "config_error"
	// KindConflict marks a registration collision on an existing email.
	KindConflict Kind = "conflict"
	// KindInvalidCredentials covers both "no such user" and "wrong
	// password"; the two must stay indistinguishable to the client.
	KindInvalidCredentials Kind = "invalid_credentials"
	// KindInvalidToken marks a refresh token that failed verification,
	// has the wrong kind, or resolves to an inactive principal.
	KindInvalidToken Kind = "invalid_token"
	// KindTokenExpired means the token was valid but its expiry has
	// passed. The only token failure worth retrying via refresh.
	KindTokenExpired Kind = "token_expired"
	// KindTokenMalformed means the signature or structure is invalid.
	KindTokenMalformed Kind = "token_malformed"
	// KindTokenRevoked means the token was pushed to the revocation
	// store before its natural expiry.
	KindTokenRevoked Kind = "token_revoked"
	// KindTokenMissing means no bearer token was presented.
	KindTokenMissing Kind = "token_missing"
	// KindNoRole means the authenticated principal carries no role claim.
	KindNoRole Kind = "no_role"
	// KindForbidden means the principal's role is not in the allow-set.
	KindForbidden Kind = "forbidden"
	// KindStoreUnavailable means the revocation store could not be
	// reached. Treated as a rejection, never as "not revoked".
	KindStoreUnavailable Kind = "store_unavailable"
	// KindInternal is the fallback for errors the taxonomy does not name.
	KindInternal Kind = "internal_error"
)

// AuthError is the tagged error variant carried through the auth subsystem.
type AuthError struct {
	Kind        Kind   `json:"error"`
	Description string `json:"error_description,omitempty"`
	Err         error  `json:"-"`
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Description)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, unwrapping as needed. Errors from outside
// the taxonomy map to KindInternal.
func KindOf(err error) Kind {
	var ae *AuthError
	if stderrors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Common error constructors

func NewConfigError(description string) *AuthError {
	return &AuthError{Kind: KindConfig, Description: description}
}

func NewConflict(description string) *AuthError {
	return &AuthError{Kind: KindConflict, Description: description}
}

// NewInvalidCredentials always carries the same message regardless of which
// check failed, so login responses reveal nothing about account existence.
func NewInvalidCredentials() *AuthError {
	return &AuthError{Kind: KindInvalidCredentials, Description: "invalid email or password"}
}

func NewInvalidToken(err error) *AuthError {
	return &AuthError{Kind: KindInvalidToken, Description: "invalid token", Err: err}
}

func NewTokenExpired() *AuthError {
	return &AuthError{Kind: KindTokenExpired, Description: "token has expired"}
}

func NewTokenMalformed(err error) *AuthError {
	return &AuthError{Kind: KindTokenMalformed, Description: "invalid token", Err: err}
}

func NewTokenRevoked() *AuthError {
	return &AuthError{Kind: KindTokenRevoked, Description: "token is invalid"}
}

func NewTokenMissing() *AuthError {
	return &AuthError{Kind: KindTokenMissing, Description: "access token required"}
}

func NewNoRole() *AuthError {
	return &AuthError{Kind: KindNoRole, Description: "access denied: no role specified"}
}

func NewForbidden() *AuthError {
	return &AuthError{Kind: KindForbidden, Description: "access denied: insufficient permissions"}
}

func NewStoreUnavailable(err error) *AuthError {
	return &AuthError{Kind: KindStoreUnavailable, Description: "revocation store unavailable", Err: err}
}

func NewInternal(description string, err error) *AuthError {
	return &AuthError{Kind: KindInternal, Description: description, Err: err}
}
