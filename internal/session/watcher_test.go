package session

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insider/internal/api"
)

func TestTokenWatcher_PicksUpExternalLogin(t *testing.T) {
	store, tokens, requests := newSessionTest(t, serveUser(api.User{FirstName: "Ann"}))

	watcher, err := NewTokenWatcher(store)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	defer watcher.Stop()

	// Another process logs in: the token file appears.
	require.NoError(t, tokens.Save("abc", ""))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(requests) >= 1 && store.Snapshot().IsLoggedIn
	}, 5*time.Second, 50*time.Millisecond, "watcher should trigger a session refresh")
}

func TestTokenWatcher_PicksUpExternalLogout(t *testing.T) {
	store, tokens, _ := newSessionTest(t, serveUser(api.User{FirstName: "Ann"}))
	require.NoError(t, tokens.Save("abc", ""))
	require.NoError(t, store.FetchUser(context.Background()))
	require.True(t, store.Snapshot().IsLoggedIn)

	watcher, err := NewTokenWatcher(store)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	defer watcher.Stop()

	// Another process logs out: the token file disappears.
	require.NoError(t, tokens.Clear())

	assert.Eventually(t, func() bool {
		snap := store.Snapshot()
		return !snap.IsLoggedIn && snap.User == nil
	}, 5*time.Second, 50*time.Millisecond, "watcher should tear the session down")
}

func TestTokenWatcher_FailedStartLeavesStopSafe(t *testing.T) {
	// A state dir that cannot exist (a path under a regular file) makes the
	// directory watch fail. Stop must return promptly anyway.
	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	tokens := NewTokenStore(filepath.Join(blocker, "state"))
	client := api.NewClient("http://127.0.0.1:1", tokens, nil)
	store := NewStore(client, tokens)
	t.Cleanup(store.Close)

	watcher, err := NewTokenWatcher(store)
	require.NoError(t, err)

	require.Error(t, watcher.Start(context.Background()))

	done := make(chan struct{})
	go func() {
		defer close(done)
		watcher.Stop()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after a failed Start")
	}

	// The watcher is reusable state-wise: a second failed Start behaves
	// the same way.
	require.Error(t, watcher.Start(context.Background()))
	watcher.Stop()
}

func TestTokenWatcher_StopIsIdempotent(t *testing.T) {
	store, _, _ := newSessionTest(t, serveUser(api.User{}))

	watcher, err := NewTokenWatcher(store)
	require.NoError(t, err)
	require.NoError(t, watcher.Start(context.Background()))

	watcher.Stop()
	watcher.Stop()
}
