package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists the origins permitted to call the API from a
	// browser, e.g. ["https://app.ogonek.dev", "http://localhost:3000"].
	// "*" allows all origins but disables credentials.
	AllowedOrigins []string

	// AllowCredentials makes browsers attach the session cookie to
	// cross-origin requests. The frontend lives on a different origin, so
	// production deployments need this on.
	AllowCredentials bool
}

var corsAllowMethods = strings.Join([]string{
	http.MethodGet, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}, ", ")

var corsAllowHeaders = strings.Join([]string{
	"Content-Type", "X-API-Key", "X-CSRF-Token", "X-Requested-With",
}, ", ")

// CORS answers preflights and stamps allow-origin headers for requests
// from a configured origin. The whole API is consumed cross-origin, so
// preflights must admit the X-API-Key and X-CSRF-Token headers, and the
// Content-Disposition header is exposed so downloads keep their filename
// in cross-origin JS.
func CORS(cfg CORSConfig) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	wildcard := false
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = true
		wildcard = wildcard || o == "*"
	}

	// A wildcard origin combined with credentials would let any site make
	// authenticated calls. Keep the wildcard, drop the credentials.
	if wildcard && cfg.AllowCredentials {
		slog.Warn("refusing AllowCredentials with a wildcard origin; set explicit origins to send cookies cross-origin")
		cfg.AllowCredentials = false
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get("Origin")
			if origin == "" {
				return next(c)
			}
			if !wildcard && !allowed[origin] {
				// Unknown origin: answer without CORS headers and let the
				// browser enforce the block.
				return next(c)
			}

			h := c.Response().Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Vary", "Origin")
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if c.Request().Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Max-Age", "3600")
				return c.NoContent(http.StatusNoContent)
			}

			h.Set("Access-Control-Expose-Headers", "Content-Disposition")
			return next(c)
		}
	}
}
