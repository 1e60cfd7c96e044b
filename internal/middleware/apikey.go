package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ogonek-app/backend/internal/apperror"
)

// APIKeyHeader is the request header carrying the pre-shared API key.
const APIKeyHeader = "X-API-Key"

// apiKeyExempt lists paths that bypass the gate: infrastructure endpoints
// scraped or probed by machines that cannot carry the secret.
var apiKeyExempt = map[string]bool{
	"/healthz": true,
	"/metrics": true,
}

// APIKeyGate returns middleware that rejects any request whose X-API-Key
// header does not equal the process-wide pre-shared secret. The check runs
// before authentication and before any business logic, including login.
//
// This is a coarse, single-tenant gate: one secret for the whole deployment,
// loaded once at startup and captured immutably in the closure. It is not a
// per-client key system.
func APIKeyGate(key string) echo.MiddlewareFunc {
	secret := []byte(key)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if apiKeyExempt[c.Request().URL.Path] {
				return next(c)
			}

			// CORS preflights cannot carry custom headers; the browser sends
			// them before the real request. Let them through -- the actual
			// request is still gated.
			if c.Request().Method == http.MethodOptions {
				return next(c)
			}

			presented := c.Request().Header.Get(APIKeyHeader)

			// Constant-time comparison. Missing and wrong keys fail the
			// same way so the response shape leaks nothing.
			if presented == "" || subtle.ConstantTimeCompare([]byte(presented), secret) != 1 {
				return apperror.NewInvalidAPIKey()
			}

			return next(c)
		}
	}
}
