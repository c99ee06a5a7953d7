package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pitchside/backend/domain"
	aerrors "github.com/pitchside/backend/errors"
	"github.com/pitchside/backend/revocation"
	"github.com/pitchside/backend/token"
)

// AuthService is the only component permitted to mint fresh token pairs. It
// mediates between raw credentials and tokens; the gatekeeper handles
// per-request enforcement.
type AuthService struct {
	users       domain.UserRepository
	codec       *token.Codec
	revocations revocation.Store
	hasher      PasswordHasher
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users domain.UserRepository,
	codec *token.Codec,
	revocations revocation.Store,
	hasher PasswordHasher,
) *AuthService {
	return &AuthService{
		users:       users,
		codec:       codec,
		revocations: revocations,
		hasher:      hasher,
	}
}

// RegisterInput carries the fields accepted on registration.
type RegisterInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role,omitempty"`
}

// AuthResult bundles the principal and the freshly issued token pair returned
// on register and login.
type AuthResult struct {
	User   *domain.User `json:"user"`
	Tokens *token.Pair  `json:"tokens"`
}

// Register creates a new user and returns a fresh token pair. Fails with a
// conflict when the email is already registered. New users start active and
// unverified; the password is hashed before it is ever stored.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)

	role := in.Role
	if !role.Valid() {
		role = domain.RoleUser
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, aerrors.NewInternal("could not hash password", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, aerrors.NewConflict("email already registered")
		}
		return nil, aerrors.NewInternal("could not create user", err)
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")

	return &AuthResult{User: user, Tokens: pair}, nil
}

// Login validates credentials and returns a fresh token pair. Unknown email,
// inactive account and wrong password all fail with the identical
// invalid-credentials error so responses reveal nothing about which check
// failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			log.Error().Err(err).Msg("login: user lookup failed")
		}
		return nil, aerrors.NewInvalidCredentials()
	}
	if !user.IsActive {
		return nil, aerrors.NewInvalidCredentials()
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		return nil, aerrors.NewInvalidCredentials()
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("user_id", user.ID).Msg("login succeeded")

	return &AuthResult{User: user, Tokens: pair}, nil
}

// Refresh exchanges a valid refresh token for a brand-new pair. Any failure
// (bad signature, expiry, wrong kind, inactive principal) collapses into the
// single invalid-token error. The old refresh token is not revoked; rotation
// is out of scope.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*token.Pair, error) {
	claims, err := s.codec.Verify(refreshToken)
	if err != nil {
		return nil, aerrors.NewInvalidToken(err)
	}
	if claims.Kind != token.KindRefresh {
		return nil, aerrors.NewInvalidToken(fmt.Errorf("token kind %q cannot be refreshed", claims.Kind))
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, aerrors.NewInvalidToken(err)
	}
	if !user.IsActive {
		return nil, aerrors.NewInvalidToken(errors.New("account is not active"))
	}

	return s.issuePair(user)
}

// Logout pushes the token into the revocation store. It is safe to call
// unconditionally: a missing token is a no-op and any internal failure is
// swallowed, since best-effort revocation still honors the caller's intent.
// The revocation TTL is the token's exact remaining lifetime when it can be
// decoded, the default access window otherwise; the store itself never needs
// to parse the token.
func (s *AuthService) Logout(ctx context.Context, tokenValue string) {
	if tokenValue == "" {
		return
	}

	ttl, ok := s.codec.RemainingLifetime(tokenValue)
	if !ok {
		ttl = revocation.DefaultTTL
	}

	if err := s.revocations.Revoke(ctx, tokenValue, ttl); err != nil {
		log.Warn().Err(err).Msg("logout: best-effort revocation failed")
	}
}

func (s *AuthService) issuePair(user *domain.User) (*token.Pair, error) {
	access, err := s.codec.Issue(user.ID, user.Role, token.KindAccess)
	if err != nil {
		return nil, aerrors.NewInternal("could not issue access token", err)
	}
	refresh, err := s.codec.Issue(user.ID, user.Role, token.KindRefresh)
	if err != nil {
		return nil, aerrors.NewInternal("could not issue refresh token", err)
	}
	return &token.Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
