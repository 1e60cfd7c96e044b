package auth

import (
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/ogonek-app/backend/internal/middleware"
)

// RegisterRoutes wires the auth endpoints. Login and session-check sit
// outside the session group: login necessarily precedes a session, and
// session-check defines its own 401 body. Everything profile-shaped goes
// on the authenticated group.
func (h *Handler) RegisterRoutes(e *echo.Echo, authed *echo.Group) {
	// Credential stuffing protection: 10 attempts per minute per IP.
	loginLimiter := middleware.NewRateLimiter(rate.Limit(10.0/60.0), 10)

	e.POST("/login", h.Login, loginLimiter.Middleware())
	e.POST("/logout", h.Logout)
	e.GET("/session-check", h.SessionCheck)

	authed.GET("/profile", h.GetProfile)
	authed.PATCH("/profile", h.UpdateProfile)
	authed.POST("/profile/client-id", h.RegenerateClientID)
}
