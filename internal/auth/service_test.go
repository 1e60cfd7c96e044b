package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ogonek-app/backend/internal/apperror"
)

// --- Mock Repository ---

// mockUserRepo implements UserRepository for testing.
type mockUserRepo struct {
	createFn          func(ctx context.Context, user *User, profile *Profile) error
	findByIDFn        func(ctx context.Context, id string) (*User, error)
	findByUsernameFn  func(ctx context.Context, username string) (*User, error)
	usernameExistsFn  func(ctx context.Context, username string) (bool, error)
	updateLastLoginFn func(ctx context.Context, id string) error
	updatePasswordFn  func(ctx context.Context, userID, passwordHash string) error
	findProfileFn     func(ctx context.Context, userID string) (*Profile, error)
	updateProfileFn   func(ctx context.Context, userID string, quizletURL *string) error
	updateClientIDFn  func(ctx context.Context, userID, clientID string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *User, profile *Profile) error {
	if m.createFn != nil {
		return m.createFn(ctx, user, profile)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	if m.usernameExistsFn != nil {
		return m.usernameExistsFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	if m.updateLastLoginFn != nil {
		return m.updateLastLoginFn(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, userID, passwordHash)
	}
	return nil
}

func (m *mockUserRepo) FindProfile(ctx context.Context, userID string) (*Profile, error) {
	if m.findProfileFn != nil {
		return m.findProfileFn(ctx, userID)
	}
	return nil, apperror.NewNotFound("profile not found")
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, userID string, quizletURL *string) error {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, userID, quizletURL)
	}
	return nil
}

func (m *mockUserRepo) UpdateClientID(ctx context.Context, userID, clientID string) error {
	if m.updateClientIDFn != nil {
		return m.updateClientIDFn(ctx, userID, clientID)
	}
	return nil
}

// --- Fake Session Store ---

// fakeSessionStore implements SessionStore in memory for service tests.
type fakeSessionStore struct {
	sessions map[string]*Session
	csrf     map[string]string
	createFn func(ctx context.Context, session *Session) (string, error)
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: map[string]*Session{},
		csrf:     map[string]string{},
	}
}

func (f *fakeSessionStore) Create(ctx context.Context, session *Session) (string, error) {
	if f.createFn != nil {
		return f.createFn(ctx, session)
	}
	token := "token-" + session.UserID
	f.sessions[token] = session
	return token, nil
}

func (f *fakeSessionStore) Resolve(ctx context.Context, token string) (*Session, error) {
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return nil, apperror.NewUnauthenticated()
}

func (f *fakeSessionStore) Invalidate(ctx context.Context, token string) error {
	delete(f.sessions, token)
	delete(f.csrf, token)
	return nil
}

func (f *fakeSessionStore) IssueCSRF(ctx context.Context, sessionToken string) (string, error) {
	if t, ok := f.csrf[sessionToken]; ok {
		return t, nil
	}
	t := "csrf-" + sessionToken
	f.csrf[sessionToken] = t
	return t, nil
}

func (f *fakeSessionStore) CheckCSRF(ctx context.Context, sessionToken, presented string) error {
	if f.csrf[sessionToken] != presented || presented == "" {
		return apperror.NewForbidden("missing or invalid CSRF token")
	}
	return nil
}

// --- Helpers ---

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// testUser builds a user whose password is "correct-horse-battery".
func testUser(t *testing.T) *User {
	t.Helper()
	hash, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("hashing test password: %v", err)
	}
	return &User{
		ID:           "user-1",
		Username:     "alice",
		PasswordHash: hash,
		Email:        "alice@example.com",
		FirstName:    "Alice",
		LastName:     "Smith",
		CreatedAt:    time.Now().UTC(),
	}
}

// --- Login Tests ---

func TestLogin_Success(t *testing.T) {
	user := testUser(t)
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			if username != "alice" {
				t.Errorf("expected lookup for alice, got %s", username)
			}
			return user, nil
		},
	}
	sessions := newFakeSessionStore()

	svc := NewAuthService(repo, sessions)
	token, got, err := svc.Login(context.Background(), "alice", "correct-horse-battery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("expected a session token")
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}
	if _, ok := sessions.sessions[token]; !ok {
		t.Error("expected session to be stored")
	}
}

func TestLogin_TrimsUsername(t *testing.T) {
	user := testUser(t)
	var looked string
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			looked = username
			return user, nil
		},
	}

	svc := NewAuthService(repo, newFakeSessionStore())
	if _, _, err := svc.Login(context.Background(), "  alice  ", "correct-horse-battery"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if looked != "alice" {
		t.Errorf("expected trimmed username, got %q", looked)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, newFakeSessionStore())
	_, _, err := svc.Login(context.Background(), "nobody", "whatever")
	assertAppError(t, err, 400)
}

func TestLogin_WrongPassword(t *testing.T) {
	user := testUser(t)
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
	}

	svc := NewAuthService(repo, newFakeSessionStore())
	_, _, err := svc.Login(context.Background(), "alice", "wrong-password")
	assertAppError(t, err, 400)
}

// An unknown user and a wrong password must be indistinguishable to the
// caller, otherwise login becomes a username oracle.
func TestLogin_FailureSymmetry(t *testing.T) {
	user := testUser(t)
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			if username == "alice" {
				return user, nil
			}
			return nil, apperror.NewNotFound("user not found")
		},
	}

	svc := NewAuthService(repo, newFakeSessionStore())
	_, _, errUnknown := svc.Login(context.Background(), "nobody", "whatever")
	_, _, errWrong := svc.Login(context.Background(), "alice", "wrong-password")

	var a, b *apperror.AppError
	if !errors.As(errUnknown, &a) || !errors.As(errWrong, &b) {
		t.Fatalf("expected AppErrors, got %v and %v", errUnknown, errWrong)
	}
	if a.Code != b.Code || a.Message != b.Message {
		t.Errorf("failure outcomes differ: (%d %q) vs (%d %q)", a.Code, a.Message, b.Code, b.Message)
	}
}

func TestLogin_SessionCreateError(t *testing.T) {
	user := testUser(t)
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
	}
	sessions := newFakeSessionStore()
	sessions.createFn = func(ctx context.Context, session *Session) (string, error) {
		return "", errors.New("redis down")
	}

	svc := NewAuthService(repo, sessions)
	_, _, err := svc.Login(context.Background(), "alice", "correct-horse-battery")
	assertAppError(t, err, 500)
}

func TestLogin_LastLoginFailureIsNotFatal(t *testing.T) {
	user := testUser(t)
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
		updateLastLoginFn: func(ctx context.Context, id string) error {
			return errors.New("db write error")
		},
	}

	svc := NewAuthService(repo, newFakeSessionStore())
	if _, _, err := svc.Login(context.Background(), "alice", "correct-horse-battery"); err != nil {
		t.Fatalf("login should survive a last_login failure, got %v", err)
	}
}

// --- Logout Tests ---

func TestLogout_InvalidatesSession(t *testing.T) {
	user := testUser(t)
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
	}
	sessions := newFakeSessionStore()

	svc := NewAuthService(repo, sessions)
	token, _, err := svc.Login(context.Background(), "alice", "correct-horse-battery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := sessions.Resolve(context.Background(), token); err == nil {
		t.Error("expected session to be gone after logout")
	}
}

func TestLogout_UnknownTokenIsNoOp(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, newFakeSessionStore())
	if err := svc.Logout(context.Background(), "never-issued"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- SessionCheck Tests ---

func TestSessionCheck_Success(t *testing.T) {
	user := testUser(t)
	quizlet := "https://quizlet.com/alice"
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*User, error) {
			return user, nil
		},
		findProfileFn: func(ctx context.Context, userID string) (*Profile, error) {
			return &Profile{UserID: user.ID, ClientID: "client-1", QuizletURL: &quizlet}, nil
		},
	}
	sessions := newFakeSessionStore()

	svc := NewAuthService(repo, sessions)
	resp, err := svc.SessionCheck(context.Background(), "tok", &Session{UserID: user.ID, Username: user.Username})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsAuthenticated {
		t.Error("expected is_authenticated true")
	}
	if resp.Username != "alice" || resp.Email != "alice@example.com" {
		t.Errorf("unexpected identity: %s / %s", resp.Username, resp.Email)
	}
	if resp.CSRFToken == "" {
		t.Error("expected a CSRF token")
	}
	if resp.ClientID != "client-1" {
		t.Errorf("expected client-1, got %s", resp.ClientID)
	}
	if resp.QuizletURL == nil || *resp.QuizletURL != quizlet {
		t.Errorf("expected quizlet url %q, got %v", quizlet, resp.QuizletURL)
	}
}

func TestSessionCheck_CSRFTokenIsStable(t *testing.T) {
	user := testUser(t)
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*User, error) {
			return user, nil
		},
		findProfileFn: func(ctx context.Context, userID string) (*Profile, error) {
			return &Profile{UserID: user.ID, ClientID: "client-1"}, nil
		},
	}

	svc := NewAuthService(repo, newFakeSessionStore())
	session := &Session{UserID: user.ID, Username: user.Username}

	first, err := svc.SessionCheck(context.Background(), "tok", session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.SessionCheck(context.Background(), "tok", session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.CSRFToken != second.CSRFToken {
		t.Error("expected the same CSRF token across checks of one session")
	}
}

func TestSessionCheck_DeletedUser(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, newFakeSessionStore())
	_, err := svc.SessionCheck(context.Background(), "tok", &Session{UserID: "gone"})
	assertAppError(t, err, 401)
}

// --- CreateUser Tests ---

func TestCreateUser_Success(t *testing.T) {
	var createdUser *User
	var createdProfile *Profile
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *User, profile *Profile) error {
			createdUser = user
			createdProfile = profile
			return nil
		},
	}

	svc := NewAuthService(repo, newFakeSessionStore())
	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username:  "bob",
		Password:  "secure-password-123",
		Email:     "Bob@Example.COM",
		FirstName: "Bob",
		LastName:  "Jones",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Error("expected a generated user id")
	}
	if user.Email != "bob@example.com" {
		t.Errorf("expected normalized email, got %s", user.Email)
	}
	if user.PasswordHash == "secure-password-123" || !strings.HasPrefix(user.PasswordHash, "$argon2id$") {
		t.Errorf("expected an argon2id hash, got %q", user.PasswordHash)
	}
	if createdUser == nil || createdProfile == nil {
		t.Fatal("expected user and profile to be created together")
	}
	if createdProfile.UserID != createdUser.ID {
		t.Error("expected profile bound to the new user")
	}
	if createdProfile.ClientID == "" {
		t.Error("expected a generated client id")
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	repo := &mockUserRepo{
		usernameExistsFn: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}

	svc := NewAuthService(repo, newFakeSessionStore())
	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username: "alice",
		Password: "secure-password-123",
	})
	assertAppError(t, err, 422)
}

func TestCreateUser_ShortPassword(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, newFakeSessionStore())
	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username: "bob",
		Password: "short",
	})
	assertAppError(t, err, 422)
}

func TestCreateUser_MissingUsername(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, newFakeSessionStore())
	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Password: "secure-password-123",
	})
	assertAppError(t, err, 422)
}

// --- SetPassword Tests ---

func TestSetPassword_Success(t *testing.T) {
	user := testUser(t)
	var newHash string
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
		updatePasswordFn: func(ctx context.Context, userID, passwordHash string) error {
			if userID != user.ID {
				t.Errorf("expected update for %s, got %s", user.ID, userID)
			}
			newHash = passwordHash
			return nil
		},
	}

	svc := NewAuthService(repo, newFakeSessionStore())
	if err := svc.SetPassword(context.Background(), "alice", "brand-new-password"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !VerifyPassword("brand-new-password", newHash) {
		t.Error("expected stored hash to verify the new password")
	}
}

func TestSetPassword_UnknownUser(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, newFakeSessionStore())
	err := svc.SetPassword(context.Background(), "nobody", "secure-password-123")
	assertAppError(t, err, 404)
}

// --- Profile Tests ---

func TestRegenerateClientID_ChangesID(t *testing.T) {
	current := "client-old"
	repo := &mockUserRepo{
		updateClientIDFn: func(ctx context.Context, userID, clientID string) error {
			if clientID == current {
				t.Error("expected a fresh client id")
			}
			current = clientID
			return nil
		},
		findProfileFn: func(ctx context.Context, userID string) (*Profile, error) {
			return &Profile{UserID: userID, ClientID: current}, nil
		},
	}

	svc := NewAuthService(repo, newFakeSessionStore())
	profile, err := svc.RegenerateClientID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.ClientID != current {
		t.Errorf("expected %s, got %s", current, profile.ClientID)
	}
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	repo := &mockUserRepo{
		updateProfileFn: func(ctx context.Context, userID string, quizletURL *string) error {
			return apperror.NewNotFound("profile not found")
		},
	}

	svc := NewAuthService(repo, newFakeSessionStore())
	url := "https://quizlet.com/x"
	_, err := svc.UpdateProfile(context.Background(), "gone", &url)
	assertAppError(t, err, 404)
}
