package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ogonek-app/backend/internal/apperror"
)

// UserRepository defines the data access contract for identities and their
// profiles. All SQL lives in the concrete implementation -- no SQL leaks out.
type UserRepository interface {
	// Create inserts a user and their profile in one transaction, so the
	// one-profile-per-user invariant holds from the first write.
	Create(ctx context.Context, user *User, profile *Profile) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateLastLogin(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	FindProfile(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, quizletURL *string) error
	UpdateClientID(ctx context.Context, userID, clientID string) error
}

// userRepository implements UserRepository with hand-written MariaDB queries.
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository backed by the given DB pool.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user row and its profile row atomically.
func (r *userRepository) Create(ctx context.Context, user *User, profile *Profile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, email, first_name, last_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.PasswordHash,
		user.Email, user.FirstName, user.LastName, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (user_id, client_id, quizlet_url) VALUES (?, ?, ?)`,
		profile.UserID, profile.ClientID, profile.QuizletURL,
	)
	if err != nil {
		return fmt.Errorf("inserting profile: %w", err)
	}

	return tx.Commit()
}

// FindByID retrieves a user by their UUID.
// Returns apperror.NotFound if no user exists with this ID.
func (r *userRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT id, username, password_hash, email, first_name, last_name,
	                 created_at, last_login_at
	          FROM users WHERE id = ?`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
		&user.LastLoginAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by id: %w", err)
	}

	return user, nil
}

// FindByUsername retrieves a user by their unique username.
// Returns apperror.NotFound if no user exists with this username.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT id, username, password_hash, email, first_name, last_name,
	                 created_at, last_login_at
	          FROM users WHERE username = ?`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
		&user.LastLoginAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by username: %w", err)
	}

	return user, nil
}

// UsernameExists returns true if a user with the given username exists.
// Used by userctl before hashing a password for a duplicate account.
func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking username existence: %w", err)
	}
	return exists, nil
}

// UpdateLastLogin sets the last_login_at timestamp to now for the given user.
func (r *userRepository) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}
	return nil
}

// UpdatePassword sets a new password hash for a user.
func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("user not found")
	}
	return nil
}

// FindProfile retrieves the profile belonging to a user.
func (r *userRepository) FindProfile(ctx context.Context, userID string) (*Profile, error) {
	profile := &Profile{}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, client_id, quizlet_url FROM profiles WHERE user_id = ?`, userID,
	).Scan(&profile.UserID, &profile.ClientID, &profile.QuizletURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("profile not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile updates the auxiliary profile fields. A nil quizletURL
// leaves the stored value untouched.
func (r *userRepository) UpdateProfile(ctx context.Context, userID string, quizletURL *string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET quizlet_url = COALESCE(?, quizlet_url) WHERE user_id = ?`,
		quizletURL, userID)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		// COALESCE(nil, x) = x makes a no-op update report zero affected
		// rows on some drivers, so verify the profile actually exists
		// before reporting NotFound.
		if _, findErr := r.FindProfile(ctx, userID); findErr != nil {
			return findErr
		}
	}
	return nil
}

// UpdateClientID replaces the public client identifier. Only called when
// regeneration is explicitly requested; the identifier is otherwise
// immutable for the life of the account.
func (r *userRepository) UpdateClientID(ctx context.Context, userID, clientID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET client_id = ? WHERE user_id = ?`, clientID, userID)
	if err != nil {
		return fmt.Errorf("updating client id: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("profile not found")
	}
	return nil
}
