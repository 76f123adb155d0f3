package session

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insider/internal/api"
)

func TestGuard_NoTokenRefusesImmediately(t *testing.T) {
	store, _, requests := newSessionTest(t, serveUser(api.User{FirstName: "Ann"}))
	guard := NewGuard(store)

	ran := false
	err := guard.Protect(func(ctx context.Context) error {
		ran = true
		return nil
	})(context.Background())

	require.ErrorIs(t, err, ErrLoginRequired)
	assert.False(t, ran, "protected action must never run without a token")
	assert.Equal(t, int32(0), *requests)
}

func TestGuard_TokenPresentRunsOptimistically(t *testing.T) {
	// The user fetch blocks until released; the guarded action must run
	// without waiting for it.
	release := make(chan struct{})
	store, tokens, _ := newSessionTest(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(api.User{FirstName: "Ann"})
	})
	require.NoError(t, tokens.Save("abc", ""))
	guard := NewGuard(store)

	ch, cancel := store.Subscribe()
	defer cancel()

	ran := false
	err := guard.Protect(func(ctx context.Context) error {
		ran = true
		return nil
	})(context.Background())

	require.NoError(t, err)
	assert.True(t, ran, "action must run before the background fetch settles")

	// Let the background fetch finish so the goroutine exits cleanly.
	close(release)
	select {
	case snap := <-ch:
		assert.True(t, snap.IsLoggedIn)
	case <-time.After(2 * time.Second):
		t.Fatal("background fetch never settled")
	}
}

func TestGuard_BackgroundFetchTearsDownExpiredToken(t *testing.T) {
	store, tokens, _ := newSessionTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Token is invalid or expired"})
	})
	require.NoError(t, tokens.Save("expired", ""))
	guard := NewGuard(store)

	ch, cancel := store.Subscribe()
	defer cancel()

	// First action passes the optimistic gate.
	require.NoError(t, guard.Allow(context.Background()))

	// The background fetch clears the token...
	select {
	case snap := <-ch:
		assert.False(t, snap.IsLoggedIn)
	case <-time.After(2 * time.Second):
		t.Fatal("background fetch never settled")
	}

	// ...so the next guarded action is refused.
	assert.ErrorIs(t, guard.Allow(context.Background()), ErrLoginRequired)
}
