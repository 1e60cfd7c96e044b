package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ogonek-app/backend/internal/apperror"
)

// Handler handles HTTP requests for authentication and the profile.
// Handlers are thin: they bind the request, call the service, and shape
// the response. No business logic lives here.
type Handler struct {
	service    AuthService
	sessions   SessionStore
	sessionTTL time.Duration
}

// NewHandler creates a new auth handler with the given dependencies.
func NewHandler(service AuthService, sessions SessionStore, sessionTTL time.Duration) *Handler {
	return &Handler{service: service, sessions: sessions, sessionTTL: sessionTTL}
}

// Login processes the login form submission (POST /login).
//
// The response body mirrors what the frontend has always consumed: a
// success flag, the username/email, and the auxiliary profile URL. On any
// credential failure the body carries the one generic message with a 400.
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	token, user, err := h.service.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if apperror.IsInvalidCredentials(err) {
			return c.JSON(http.StatusBadRequest, map[string]any{
				"success": false,
				"message": apperror.SafeMessage(err),
			})
		}
		return err
	}

	SetSessionCookie(c, token, h.sessionTTL)

	profile, err := h.service.GetProfile(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Success:         true,
		Message:         "Login successful!",
		Username:        user.Username,
		IsAuthenticated: true,
		Email:           user.Email,
		QuizletURL:      profile.QuizletURL,
	})
}

// Logout destroys the session and clears the cookie (POST /logout).
// Idempotent: a request without a live session still clears the cookie
// and succeeds.
func (h *Handler) Logout(c echo.Context) error {
	if token := SessionToken(c); token != "" {
		if err := h.service.Logout(c.Request().Context(), token); err != nil {
			return err
		}
	}

	ClearSessionCookie(c)

	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// SessionCheck reports whether the caller holds a valid session
// (GET /session-check). This endpoint resolves the cookie itself rather
// than sitting behind RequireSession, because its 401 has a defined body
// shape: {"is_authenticated": false}.
func (h *Handler) SessionCheck(c echo.Context) error {
	token := SessionToken(c)
	if token == "" {
		return unauthenticatedCheck(c)
	}

	session, err := h.sessions.Resolve(c.Request().Context(), token)
	if err != nil {
		if apperror.SafeCode(err) == http.StatusUnauthorized {
			ClearSessionCookie(c)
			return unauthenticatedCheck(c)
		}
		return err
	}

	resp, err := h.service.SessionCheck(c.Request().Context(), token, session)
	if err != nil {
		if apperror.SafeCode(err) == http.StatusUnauthorized {
			return unauthenticatedCheck(c)
		}
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// unauthenticatedCheck writes the fixed 401 body for /session-check.
func unauthenticatedCheck(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]any{
		"is_authenticated": false,
	})
}

// GetProfile returns the caller's profile (GET /profile).
func (h *Handler) GetProfile(c echo.Context) error {
	profile, err := h.service.GetProfile(c.Request().Context(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates the caller's auxiliary profile fields (PATCH /profile).
func (h *Handler) UpdateProfile(c echo.Context) error {
	var req ProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	profile, err := h.service.UpdateProfile(c.Request().Context(), GetUserID(c), req.QuizletURL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// RegenerateClientID issues a fresh client identifier (POST /profile/client-id).
// The identifier never changes through any other path.
func (h *Handler) RegenerateClientID(c echo.Context) error {
	profile, err := h.service.RegenerateClientID(c.Request().Context(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
