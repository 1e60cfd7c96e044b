package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ogonek-app/backend/internal/apperror"
)

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository directly.
type AuthService interface {
	// Login verifies credentials and, on success, creates a session and
	// returns its token plus the user it belongs to. Any failure is the
	// same InvalidCredentials outcome.
	Login(ctx context.Context, username, password string) (token string, user *User, err error)

	// Logout invalidates the session immediately. Unknown tokens are a no-op.
	Logout(ctx context.Context, token string) error

	// SessionCheck assembles the authenticated identity snapshot returned
	// by /session-check, including the session's CSRF token.
	SessionCheck(ctx context.Context, sessionToken string, session *Session) (*SessionCheckResponse, error)

	// CreateUser provisions a new identity with its profile. Used by the
	// out-of-band userctl command, not exposed over HTTP.
	CreateUser(ctx context.Context, input CreateUserInput) (*User, error)

	// SetPassword replaces a user's password hash. Like CreateUser, this
	// is reachable only through userctl.
	SetPassword(ctx context.Context, username, password string) error

	// GetUser looks a user up by username for userctl's show command.
	GetUser(ctx context.Context, username string) (*User, error)

	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, quizletURL *string) (*Profile, error)
	RegenerateClientID(ctx context.Context, userID string) (*Profile, error)
}

// CreateUserInput is the validated input for provisioning an identity.
type CreateUserInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// authService implements AuthService with argon2id hashing and a
// pluggable session store.
type authService struct {
	repo     UserRepository
	sessions SessionStore
}

// NewAuthService creates a new auth service with the given dependencies.
func NewAuthService(repo UserRepository, sessions SessionStore) AuthService {
	return &authService{
		repo:     repo,
		sessions: sessions,
	}
}

// Login authenticates a user by username and password. On success it
// creates a new session and returns the token for the cookie.
//
// Unknown usernames and wrong passwords produce the identical error so the
// endpoint cannot be used to probe which accounts exist.
func (s *authService) Login(ctx context.Context, username, password string) (string, *User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperror.IsNotFound(err) {
			return "", nil, apperror.NewInvalidCredentials()
		}
		return "", nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return "", nil, apperror.NewInvalidCredentials()
	}

	token, err := s.sessions.Create(ctx, &Session{
		UserID:   user.ID,
		Username: user.Username,
		IssuedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", nil, apperror.NewInternal(fmt.Errorf("creating session: %w", err))
	}

	// Update the user's last login timestamp (fire-and-forget, non-critical).
	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("failed to update last login",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return token, user, nil
}

// Logout destroys the session. The same token presented afterwards behaves
// exactly like no session at all.
func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessions.Invalidate(ctx, token)
}

// SessionCheck loads the identity and profile behind a resolved session and
// attaches the session's CSRF token for subsequent mutating requests.
func (s *authService) SessionCheck(ctx context.Context, sessionToken string, session *Session) (*SessionCheckResponse, error) {
	user, err := s.repo.FindByID(ctx, session.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			// The account vanished while the session was alive (admin
			// delete). Treat as unauthenticated rather than erroring.
			return nil, apperror.NewUnauthenticated()
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	profile, err := s.repo.FindProfile(ctx, user.ID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("finding profile: %w", err))
	}

	csrfToken, err := s.sessions.IssueCSRF(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	return &SessionCheckResponse{
		IsAuthenticated: true,
		Username:        user.Username,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		CSRFToken:       csrfToken,
		ClientID:        profile.ClientID,
		QuizletURL:      profile.QuizletURL,
	}, nil
}

// CreateUser provisions a user and their profile. The client identifier is
// generated here, once, and never again unless explicitly regenerated.
func (s *authService) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, apperror.NewValidation("username is required")
	}
	if len(input.Password) < 8 {
		return nil, apperror.NewValidation("password must be at least 8 characters")
	}

	exists, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking username: %w", err))
	}
	if exists {
		return nil, apperror.NewValidation("username is already taken")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		CreatedAt:    time.Now().UTC(),
	}
	profile := &Profile{
		UserID:   user.ID,
		ClientID: uuid.NewString(),
	}

	if err := s.repo.Create(ctx, user, profile); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	slog.Info("user created",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

func (s *authService) SetPassword(ctx context.Context, username, password string) error {
	if len(password) < 8 {
		return apperror.NewValidation("password must be at least 8 characters")
	}

	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperror.IsNotFound(err) {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	hash, err := HashPassword(password)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return apperror.NewInternal(fmt.Errorf("updating password: %w", err))
	}

	slog.Info("password changed", slog.String("user_id", user.ID))
	return nil
}

func (s *authService) GetUser(ctx context.Context, username string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}
	return user, nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	profile, err := s.repo.FindProfile(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding profile: %w", err))
	}
	return profile, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, quizletURL *string) (*Profile, error) {
	if err := s.repo.UpdateProfile(ctx, userID, quizletURL); err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("updating profile: %w", err))
	}
	return s.GetProfile(ctx, userID)
}

// RegenerateClientID replaces the public client identifier with a fresh
// one. This is the only path that ever changes it.
func (s *authService) RegenerateClientID(ctx context.Context, userID string) (*Profile, error) {
	if err := s.repo.UpdateClientID(ctx, userID, uuid.NewString()); err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("regenerating client id: %w", err))
	}
	return s.GetProfile(ctx, userID)
}
