package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ogonek-app/backend/internal/apperror"
)

// SessionCookieName is the HTTP cookie carrying the session token.
const SessionCookieName = "ogonek_session"

// CSRFHeaderName is the header mutating requests echo the CSRF token in.
const CSRFHeaderName = "X-CSRF-Token"

// Context keys for storing session data in Echo context. Resource
// packages use these keys (via the exported getter functions below) to
// scope queries to the authenticated user.
const (
	contextKeySession = "auth_session"
	contextKeyUserID  = "auth_user_id"
	contextKeyToken   = "auth_session_token"
)

// RequireSession returns middleware that resolves the session cookie and
// injects the session into the request context. A missing, expired, or
// invalidated token is indistinguishable from no session: the request
// fails with 401 and the stale cookie is cleared.
func RequireSession(store SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := SessionToken(c)
			if token == "" {
				return apperror.NewUnauthenticated()
			}

			session, err := store.Resolve(c.Request().Context(), token)
			if err != nil {
				ClearSessionCookie(c)
				return err
			}

			c.Set(contextKeySession, session)
			c.Set(contextKeyUserID, session.UserID)
			c.Set(contextKeyToken, token)

			return next(c)
		}
	}
}

// RequireCSRF returns middleware that validates the per-session CSRF token
// on every state-changing request. Must run after RequireSession. Safe
// methods pass through; a mutation with a missing or mismatched token is
// rejected with 403 before any handler runs.
func RequireCSRF(store SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isSafeMethod(c.Request().Method) {
				return next(c)
			}

			token := GetSessionToken(c)
			if token == "" {
				return apperror.NewUnauthenticated()
			}

			presented := c.Request().Header.Get(CSRFHeaderName)
			if presented == "" {
				presented = c.FormValue("csrf_token")
			}

			if err := store.CheckCSRF(c.Request().Context(), token, presented); err != nil {
				return err
			}

			return next(c)
		}
	}
}

// isSafeMethod returns true for HTTP methods that should not change state.
func isSafeMethod(method string) bool {
	return method == http.MethodGet ||
		method == http.MethodHead ||
		method == http.MethodOptions
}

// --- Exported getters for resource packages ---

// GetSession retrieves the authenticated session from the Echo context.
// Returns nil if the request is not authenticated (middleware not applied).
func GetSession(c echo.Context) *Session {
	session, ok := c.Get(contextKeySession).(*Session)
	if !ok {
		return nil
	}
	return session
}

// GetUserID retrieves the authenticated user's ID from the Echo context.
// Returns empty string if the request is not authenticated. Every
// ownership-scoped query starts from this value.
func GetUserID(c echo.Context) string {
	id, ok := c.Get(contextKeyUserID).(string)
	if !ok {
		return ""
	}
	return id
}

// GetSessionToken retrieves the resolved session token from the Echo context.
func GetSessionToken(c echo.Context) string {
	token, ok := c.Get(contextKeyToken).(string)
	if !ok {
		return ""
	}
	return token
}

// --- Cookie helpers ---

// SessionToken reads the raw session token from the request cookie.
// Returns empty string when the cookie is absent.
func SessionToken(c echo.Context) string {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie attaches the session cookie to the response. SameSite
// None because the frontend lives on a different origin; Secure is
// mandatory for SameSite=None cookies.
func SetSessionCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
