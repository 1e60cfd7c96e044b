package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ogonek-app/backend/internal/apperror"
)

// Key prefixes for session data in Redis. The CSRF token shares the
// session token in its key so invalidating a session orphans its CSRF
// token atomically from the caller's point of view.
const (
	sessionKeyPrefix = "session:"
	csrfKeyPrefix    = "csrf:"
)

// sessionTokenBytes is the number of random bytes in a session or CSRF
// token. 32 bytes = 256 bits of entropy, hex-encoded to 64 characters.
// Collisions are treated as impossible; there is no retry logic.
const sessionTokenBytes = 32

// SessionStore is the capability a session grants: time-bounded and
// revocable. The backing store is swappable without touching the
// authentication flow.
type SessionStore interface {
	// Create stores the session under a fresh random token and returns it.
	Create(ctx context.Context, session *Session) (string, error)

	// Resolve maps a token back to its session. A missing or expired token
	// yields apperror.NewUnauthenticated, never an internal error.
	Resolve(ctx context.Context, token string) (*Session, error)

	// Invalidate destroys the session and its CSRF token immediately.
	// Subsequent Resolve calls with the same token fail.
	Invalidate(ctx context.Context, token string) error

	// IssueCSRF returns the CSRF token bound to the session, creating one
	// if none exists. The token lives exactly as long as the session.
	IssueCSRF(ctx context.Context, sessionToken string) (string, error)

	// CheckCSRF verifies a presented CSRF token against the stored one.
	// A missing or mismatched token fails with a Forbidden outcome.
	CheckCSRF(ctx context.Context, sessionToken, presented string) error
}

// redisSessionStore implements SessionStore on Redis. Expiry rides on the
// key TTL, so expired sessions vanish without a sweeper.
type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a session store with a fixed TTL from
// issuance. There is no sliding refresh.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{client: client, ttl: ttl}
}

func (s *redisSessionStore) Create(ctx context.Context, session *Session) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("marshaling session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+token, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}

	return token, nil
}

func (s *redisSessionStore) Resolve(ctx context.Context, token string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.NewUnauthenticated()
	}
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("reading session: %w", err))
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("unmarshaling session: %w", err))
	}

	return &session, nil
}

func (s *redisSessionStore) Invalidate(ctx context.Context, token string) error {
	// Delete both keys in one round trip. Deleting a missing key is a
	// no-op, which makes logout idempotent.
	if err := s.client.Del(ctx, sessionKeyPrefix+token, csrfKeyPrefix+token).Err(); err != nil {
		return apperror.NewInternal(fmt.Errorf("deleting session: %w", err))
	}
	return nil
}

func (s *redisSessionStore) IssueCSRF(ctx context.Context, sessionToken string) (string, error) {
	key := csrfKeyPrefix + sessionToken

	// Reuse an existing token so parallel tabs don't race each other.
	existing, err := s.client.Get(ctx, key).Result()
	if err == nil && existing != "" {
		return existing, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", apperror.NewInternal(fmt.Errorf("reading csrf token: %w", err))
	}

	token, err := generateToken()
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("generating csrf token: %w", err))
	}

	// Align the CSRF lifetime with the session's remaining lifetime so a
	// CSRF token can never outlive its session.
	ttl, err := s.client.TTL(ctx, sessionKeyPrefix+sessionToken).Result()
	if err != nil || ttl <= 0 {
		ttl = s.ttl
	}

	if err := s.client.Set(ctx, key, token, ttl).Err(); err != nil {
		return "", apperror.NewInternal(fmt.Errorf("storing csrf token: %w", err))
	}

	return token, nil
}

func (s *redisSessionStore) CheckCSRF(ctx context.Context, sessionToken, presented string) error {
	stored, err := s.client.Get(ctx, csrfKeyPrefix+sessionToken).Result()
	if errors.Is(err, redis.Nil) {
		// No token was ever issued for this session, or the session was
		// invalidated. Either way the mutation is rejected.
		return apperror.NewForbidden("missing or invalid CSRF token")
	}
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("reading csrf token: %w", err))
	}

	if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) != 1 {
		return apperror.NewForbidden("missing or invalid CSRF token")
	}

	return nil
}

// generateToken creates a cryptographically random hex-encoded token.
func generateToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
