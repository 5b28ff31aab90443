package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"galleria/internal/auth"
	"galleria/internal/cache"
	apperrors "galleria/internal/errors"
	"galleria/internal/model"
	"galleria/internal/service"
)

const oauthStateKeyPrefix = "oauthstate:"
const oauthStateTTL = 10 * time.Minute

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	google      *auth.GoogleProvider
	cache       *cache.Client
	frontendURL string
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, google *auth.GoogleProvider, cacheClient *cache.Client, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		google:      google,
		cache:       cacheClient,
		frontendURL: frontendURL,
	}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"omitempty,max=255"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SendVerificationRequest asks for the verification mail to be re-sent.
type SendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	AccessToken string      `json:"accessToken"`
	User        *model.User `json:"user"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, AuthResponse{AccessToken: token, User: user})
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, AuthResponse{AccessToken: token, User: user})
}

// GoogleLogin godoc
// @Summary Redirect to the Google consent page
// @Tags auth
// @Success 302
// @Router /auth/google [get]
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	state := auth.RandState()
	_ = h.cache.Set(c.Request().Context(), oauthStateKeyPrefix+state, []byte("1"), oauthStateTTL)
	return c.Redirect(http.StatusFound, h.google.LoginURL(state))
}

// GoogleCallback godoc
// @Summary Google OAuth callback
// @Tags auth
// @Success 302
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	ctx := c.Request().Context()

	state := c.QueryParam("state")
	if state == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing state")
	}
	// One-shot read: a replayed or unknown state is rejected.
	if saved, _ := h.cache.GetDel(ctx, oauthStateKeyPrefix+state); saved == nil {
		return respondError(c, apperrors.ErrInvalidCredentials)
	}

	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing code")
	}

	identity, err := h.google.Exchange(ctx, code)
	if err != nil {
		return respondError(c, apperrors.ErrUpstreamIdentity)
	}

	token, _, err := h.authService.GoogleLogin(ctx, identity)
	if err != nil {
		return respondError(c, err)
	}

	redirect := h.frontendURL + "/auth/callback?token=" + url.QueryEscape(token)
	return c.Redirect(http.StatusFound, redirect)
}

// SendVerification godoc
// @Summary Re-send the email verification mail
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SendVerificationRequest true "Target email"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/verify-email [post]
func (h *AuthHandler) SendVerification(c echo.Context) error {
	var req SendVerificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.SendVerification(c.Request().Context(), req.Email); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// VerifyEmail godoc
// @Summary Consume an email verification token
// @Tags auth
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/verify-email [get]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	if err := h.authService.VerifyEmail(c.Request().Context(), c.QueryParam("token")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "email verified"})
}
