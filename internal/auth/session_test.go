package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// newTestSessionStore spins up an in-process Redis and a store with a
// one-hour TTL.
func newTestSessionStore(t *testing.T) (SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSessionStore(client, time.Hour), mr
}

func TestSessionStore_CreateAndResolve(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	issued := time.Now().UTC().Truncate(time.Second)
	token, err := store.Create(ctx, &Session{UserID: "user-1", Username: "alice", IssuedAt: issued})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("expected a 64-char hex token, got %d chars", len(token))
	}

	session, err := store.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.UserID != "user-1" || session.Username != "alice" {
		t.Errorf("unexpected session: %+v", session)
	}
	if !session.IssuedAt.Equal(issued) {
		t.Errorf("expected issued_at %v, got %v", issued, session.IssuedAt)
	}
}

func TestSessionStore_ResolveUnknownToken(t *testing.T) {
	store, _ := newTestSessionStore(t)
	_, err := store.Resolve(context.Background(), "never-issued")
	assertAppError(t, err, 401)
}

func TestSessionStore_TokensAreUnique(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	// Concurrent logins for the same user must not share a session.
	a, err := store.Create(ctx, &Session{UserID: "user-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := store.Create(ctx, &Session{UserID: "user-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Error("expected distinct tokens for distinct logins")
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	store, mr := newTestSessionStore(t)
	ctx := context.Background()

	token, err := store.Create(ctx, &Session{UserID: "user-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Just short of the TTL the session is still alive.
	mr.FastForward(59 * time.Minute)
	if _, err := store.Resolve(ctx, token); err != nil {
		t.Fatalf("session expired early: %v", err)
	}

	// Past the TTL it is gone, indistinguishable from never existing.
	mr.FastForward(2 * time.Minute)
	_, err = store.Resolve(ctx, token)
	assertAppError(t, err, 401)
}

func TestSessionStore_Invalidate(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	token, err := store.Create(ctx, &Session{UserID: "user-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Invalidate(ctx, token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = store.Resolve(ctx, token)
	assertAppError(t, err, 401)

	// Invalidating again is a no-op, not an error.
	if err := store.Invalidate(ctx, token); err != nil {
		t.Fatalf("second invalidate should be idempotent: %v", err)
	}
}

func TestSessionStore_CSRFIssueAndCheck(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	token, err := store.Create(ctx, &Session{UserID: "user-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	csrf, err := store.IssueCSRF(ctx, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if csrf == "" {
		t.Fatal("expected a CSRF token")
	}

	// Issuing again returns the same token.
	again, err := store.IssueCSRF(ctx, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != csrf {
		t.Error("expected a stable CSRF token per session")
	}

	if err := store.CheckCSRF(ctx, token, csrf); err != nil {
		t.Errorf("valid token rejected: %v", err)
	}
	assertAppError(t, store.CheckCSRF(ctx, token, "forged"), 403)
	assertAppError(t, store.CheckCSRF(ctx, token, ""), 403)
}

func TestSessionStore_CSRFDiesWithSession(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	token, err := store.Create(ctx, &Session{UserID: "user-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	csrf, err := store.IssueCSRF(ctx, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Invalidate(ctx, token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A captured CSRF token is useless once the session is gone.
	assertAppError(t, store.CheckCSRF(ctx, token, csrf), 403)
}

func TestSessionStore_CSRFIsSessionScoped(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	aliceToken, err := store.Create(ctx, &Session{UserID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bobToken, err := store.Create(ctx, &Session{UserID: "user-2", Username: "bob"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	aliceCSRF, err := store.IssueCSRF(ctx, aliceToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bobCSRF, err := store.IssueCSRF(ctx, bobToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if aliceCSRF == bobCSRF {
		t.Fatal("expected distinct CSRF tokens per session")
	}

	// Each token only validates under the session it was issued for.
	if err := store.CheckCSRF(ctx, aliceToken, aliceCSRF); err != nil {
		t.Errorf("own token rejected: %v", err)
	}
	assertAppError(t, store.CheckCSRF(ctx, bobToken, aliceCSRF), 403)
	assertAppError(t, store.CheckCSRF(ctx, aliceToken, bobCSRF), 403)
}

func TestSessionStore_CSRFWithoutIssueIsRejected(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	token, err := store.Create(ctx, &Session{UserID: "user-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertAppError(t, store.CheckCSRF(ctx, token, "anything"), 403)
}
