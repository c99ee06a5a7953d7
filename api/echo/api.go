package echo

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/pitchside/backend/domain"
	"github.com/pitchside/backend/dto"
	aerrors "github.com/pitchside/backend/errors"
	"github.com/pitchside/backend/middleware"
	"github.com/pitchside/backend/services"
)

const refreshCookieName = "refreshToken"

// AuthAPI exposes the authentication endpoints over HTTP.
type AuthAPI struct {
	auth         *services.AuthService
	users        domain.UserRepository
	gatekeeper   *middleware.Gatekeeper
	cookieSecure bool
	cookieMaxAge int
}

// NewAuthAPI initializes the auth API. cookieMaxAge is the refresh cookie
// lifetime in seconds and should match the refresh-token TTL.
func NewAuthAPI(
	auth *services.AuthService,
	users domain.UserRepository,
	gatekeeper *middleware.Gatekeeper,
	cookieSecure bool,
	cookieMaxAge int,
) *AuthAPI {
	return &AuthAPI{
		auth:         auth,
		users:        users,
		gatekeeper:   gatekeeper,
		cookieSecure: cookieSecure,
		cookieMaxAge: cookieMaxAge,
	}
}

// RegisterRoutes registers the auth routes.
func (a *AuthAPI) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/auth")

	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh-token", a.RefreshToken)
	g.POST("/logout", a.Logout, a.gatekeeper.Authenticate)

	g.GET("/admin/users", a.ListUsers,
		a.gatekeeper.Authenticate, middleware.RequireRoles(domain.RoleAdmin))
	g.GET("/premium/content", a.PremiumContent,
		a.gatekeeper.Authenticate, middleware.RequireRoles(domain.RoleAdmin, domain.RolePremium))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type authResponse struct {
	User   dto.UserInfo `json:"user"`
	Tokens interface{}  `json:"tokens"`
}

// Register handles POST /api/auth/register.
func (a *AuthAPI) Register(c echo.Context) error {
	var in services.RegisterInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, dto.Error("invalid request body"))
	}

	result, err := a.auth.Register(c.Request().Context(), in)
	if err != nil {
		return a.errorResponse(c, err)
	}

	a.setRefreshCookie(c, result.Tokens.RefreshToken)

	return c.JSON(http.StatusCreated, dto.OK(authResponse{
		User:   dto.NewUserInfo(result.User),
		Tokens: result.Tokens,
	}, "User registered successfully"))
}

// Login handles POST /api/auth/login.
func (a *AuthAPI) Login(c echo.Context) error {
	var in loginRequest
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, dto.Error("invalid request body"))
	}

	result, err := a.auth.Login(c.Request().Context(), in.Email, in.Password)
	if err != nil {
		return a.errorResponse(c, err)
	}

	a.setRefreshCookie(c, result.Tokens.RefreshToken)

	return c.JSON(http.StatusOK, dto.OK(authResponse{
		User:   dto.NewUserInfo(result.User),
		Tokens: result.Tokens,
	}, "Login successful"))
}

// RefreshToken handles POST /api/auth/refresh-token. The refresh token is
// read from the body, falling back to the HTTP-only cookie.
func (a *AuthAPI) RefreshToken(c echo.Context) error {
	var in refreshRequest
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, dto.Error("invalid request body"))
	}
	if in.RefreshToken == "" {
		if cookie, err := c.Cookie(refreshCookieName); err == nil {
			in.RefreshToken = cookie.Value
		}
	}
	if in.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, dto.Error("refresh token is required"))
	}

	pair, err := a.auth.Refresh(c.Request().Context(), in.RefreshToken)
	if err != nil {
		return a.errorResponse(c, err)
	}

	a.setRefreshCookie(c, pair.RefreshToken)

	return c.JSON(http.StatusOK, dto.OK(pair, "Token refreshed successfully"))
}

// Logout handles POST /api/auth/logout. Revocation is best-effort and the
// endpoint always reports success; the refresh cookie is cleared regardless.
func (a *AuthAPI) Logout(c echo.Context) error {
	a.auth.Logout(c.Request().Context(), middleware.BearerToken(c.Request()))
	a.clearRefreshCookie(c)

	return c.JSON(http.StatusOK, dto.OK(nil, "Logged out successfully"))
}

// ListUsers handles GET /api/auth/admin/users.
func (a *AuthAPI) ListUsers(c echo.Context) error {
	users, err := a.users.List(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("admin user listing failed")
		return c.JSON(http.StatusInternalServerError, dto.Error("could not list users"))
	}

	infos := make([]dto.UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, dto.NewUserInfo(u))
	}

	return c.JSON(http.StatusOK, dto.OK(infos, "Success"))
}

// PremiumContent handles GET /api/auth/premium/content.
func (a *AuthAPI) PremiumContent(c echo.Context) error {
	principal, _ := domain.PrincipalFromContext(c.Request().Context())

	return c.JSON(http.StatusOK, dto.OK(map[string]interface{}{
		"subjectId": principal.SubjectID,
		"role":      principal.Role,
	}, "Premium content"))
}

// errorResponse maps an auth error kind to its HTTP status and envelope.
// Internal failures are logged and answered with a generic message.
func (a *AuthAPI) errorResponse(c echo.Context, err error) error {
	var ae *aerrors.AuthError
	stderrors.As(err, &ae)

	switch aerrors.KindOf(err) {
	case aerrors.KindConflict:
		return c.JSON(http.StatusConflict, dto.Error(ae.Description))
	case aerrors.KindInvalidCredentials, aerrors.KindInvalidToken:
		return c.JSON(http.StatusUnauthorized, dto.Error(ae.Description))
	default:
		log.Error().Err(err).Msg("auth request failed")
		return c.JSON(http.StatusInternalServerError, dto.Error("Something went wrong"))
	}
}

func (a *AuthAPI) setRefreshCookie(c echo.Context, refreshToken string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/api/auth",
		MaxAge:   a.cookieMaxAge,
		HttpOnly: true,
		Secure:   a.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (a *AuthAPI) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
