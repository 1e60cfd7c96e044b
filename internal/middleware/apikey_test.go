package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ogonek-app/backend/internal/apperror"
)

// gateRequest runs a request through the API key gate into a handler that
// returns 200.
func gateRequest(t *testing.T, method, path, presentedKey string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	if presentedKey != "" {
		req.Header.Set(APIKeyHeader, presentedKey)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)

	handler := APIKeyGate("the-secret")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return rec, handler(c)
}

func TestAPIKeyGate_ValidKey(t *testing.T) {
	rec, err := gateRequest(t, http.MethodGet, "/tasks", "the-secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAPIKeyGate_MissingKey(t *testing.T) {
	_, err := gateRequest(t, http.MethodGet, "/tasks", "")
	assertUnauthorized(t, err)
}

func TestAPIKeyGate_WrongKey(t *testing.T) {
	_, err := gateRequest(t, http.MethodGet, "/tasks", "not-the-secret")
	assertUnauthorized(t, err)
}

func TestAPIKeyGate_LoginIsGated(t *testing.T) {
	// The gate runs before authentication; even login needs the key.
	_, err := gateRequest(t, http.MethodPost, "/login", "")
	assertUnauthorized(t, err)
}

func TestAPIKeyGate_ExemptPaths(t *testing.T) {
	for _, path := range []string{"/healthz", "/metrics"} {
		rec, err := gateRequest(t, http.MethodGet, path, "")
		if err != nil {
			t.Errorf("%s: unexpected error: %v", path, err)
			continue
		}
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestAPIKeyGate_PreflightPassesWithoutKey(t *testing.T) {
	rec, err := gateRequest(t, http.MethodOptions, "/tasks", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", appErr.Code)
	}
}
