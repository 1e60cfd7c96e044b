package apperror

import (
	"fmt"
	"testing"
)

func TestIsInvalidCredentials(t *testing.T) {
	if !IsInvalidCredentials(NewInvalidCredentials()) {
		t.Error("expected the constructor's error to match")
	}
	if !IsInvalidCredentials(fmt.Errorf("login: %w", NewInvalidCredentials())) {
		t.Error("expected a wrapped error to match")
	}
	if IsInvalidCredentials(NewBadRequest("invalid request")) {
		t.Error("other 400s must not match")
	}
	if IsInvalidCredentials(nil) {
		t.Error("nil must not match")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(NewNotFound("task not found")) {
		t.Error("expected a 404 to match")
	}
	if IsNotFound(NewForbidden("no")) {
		t.Error("a 403 must not match")
	}
}
