// Package auth implements the authentication core: credential
// verification, server-side sessions, per-session CSRF tokens, and the
// profile attached to every identity. Handlers here own /login, /logout,
// /session-check, and /profile; the session middleware in middleware.go
// guards everything else.
package auth

import (
	"time"
)

// User is an identity. Accounts are created out-of-band (the userctl
// command or an import), never through the API.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"` // Never expose in JSON responses.
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// Profile is the one-to-one public face of a User. ClientID is assigned
// when the user is created and never changes unless explicitly regenerated.
type Profile struct {
	UserID     string  `json:"-"`
	ClientID   string  `json:"client_id"`
	QuizletURL *string `json:"quizlet_url,omitempty"`
}

// Session is the server-side record a session token resolves to. Stored
// JSON-encoded in Redis under the token; the TTL on the key is the only
// expiry mechanism.
type Session struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	IssuedAt time.Time `json:"issued_at"`
}

// --- Request DTOs (bound from HTTP requests) ---

// LoginRequest holds the form-encoded login credentials.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// ProfileUpdateRequest holds the mutable profile fields. Absent fields
// are left untouched.
type ProfileUpdateRequest struct {
	QuizletURL *string `json:"quizlet_url" form:"quizlet_url"`
}

// --- Response DTOs ---

// LoginResponse mirrors the shape the frontend has always consumed.
type LoginResponse struct {
	Success         bool    `json:"success"`
	Message         string  `json:"message"`
	Username        string  `json:"username"`
	IsAuthenticated bool    `json:"is_authenticated"`
	Email           string  `json:"email"`
	QuizletURL      *string `json:"quizlet_url"`
}

// SessionCheckResponse is returned by /session-check for a valid session.
type SessionCheckResponse struct {
	IsAuthenticated bool    `json:"is_authenticated"`
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	CSRFToken       string  `json:"csrf_token"`
	ClientID        string  `json:"client_id"`
	QuizletURL      *string `json:"quizlet_url"`
}
