package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"insider/internal/api"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newSessionTest wires a Store against an httptest server, counting every
// request that reaches it.
func newSessionTest(t *testing.T, handler http.HandlerFunc) (*Store, *TokenStore, *int32) {
	t.Helper()

	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		handler(w, r)
	}))
	t.Cleanup(func() {
		srv.CloseClientConnections()
		srv.Close()
	})

	tokens := NewTokenStore(t.TempDir())
	client := api.NewClient(srv.URL, tokens, srv.Client())
	store := NewStore(client, tokens)
	t.Cleanup(store.Close)

	return store, tokens, &requests
}

func serveUser(user api.User) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(user)
	}
}

func TestFetchUser_NoTokenMeansAnonymousWithoutNetwork(t *testing.T) {
	store, _, requests := newSessionTest(t, serveUser(api.User{FirstName: "Ann"}))

	require.NoError(t, store.FetchUser(context.Background()))

	snap := store.Snapshot()
	assert.False(t, snap.IsLoggedIn)
	assert.Nil(t, snap.User)
	assert.False(t, snap.Loading)
	assert.Equal(t, int32(0), atomic.LoadInt32(requests), "no network call may be issued without a token")
}

func TestFetchUser_ValidToken(t *testing.T) {
	store, tokens, _ := newSessionTest(t, serveUser(api.User{
		FirstName:    "Ann",
		Email:        "ann@x.edu",
		TransferType: "transfer",
	}))
	require.NoError(t, tokens.Save("abc", ""))

	require.NoError(t, store.FetchUser(context.Background()))

	snap := store.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "Ann", snap.User.FirstName)
	assert.Equal(t, "ann@x.edu", snap.User.Email)
	assert.True(t, snap.IsLoggedIn)
	assert.False(t, snap.Loading)
}

func TestFetchUser_401ClearsEverything(t *testing.T) {
	store, tokens, _ := newSessionTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Token is invalid or expired"})
	})
	require.NoError(t, tokens.Save("expired", ""))

	err := store.FetchUser(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))

	snap := store.Snapshot()
	assert.False(t, snap.IsLoggedIn)
	assert.Nil(t, snap.User)
	assert.Empty(t, tokens.Token(), "token must be cleared on 401")
	if _, statErr := os.Stat(tokens.Path()); !os.IsNotExist(statErr) {
		t.Error("token file must be deleted on 401")
	}

	// A second fetch must not issue another authenticated request.
	store2, _, requests := newSessionTest(t, serveUser(api.User{}))
	require.NoError(t, store2.FetchUser(context.Background()))
	assert.Equal(t, int32(0), atomic.LoadInt32(requests))
}

func TestFetchUser_ServerErrorPreservesToken(t *testing.T) {
	store, tokens, _ := newSessionTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	require.NoError(t, tokens.Save("abc", ""))

	err := store.FetchUser(context.Background())
	require.Error(t, err)
	assert.False(t, api.IsUnauthorized(err))

	snap := store.Snapshot()
	assert.False(t, snap.IsLoggedIn, "a failed fetch drops the logged-in flag")
	assert.Equal(t, "abc", tokens.Token(), "non-401 failures must not clear the token")
}

func TestFetchUser_NetworkErrorLeavesStateAlone(t *testing.T) {
	// Establish a logged-in session first.
	store, tokens, _ := newSessionTest(t, serveUser(api.User{FirstName: "Ann"}))
	require.NoError(t, tokens.Save("abc", ""))
	require.NoError(t, store.FetchUser(context.Background()))
	require.True(t, store.Snapshot().IsLoggedIn)

	// Point a new client at a dead server.
	deadClient := api.NewClient("http://127.0.0.1:1", tokens, &http.Client{Timeout: 200 * time.Millisecond})
	store2 := NewStore(deadClient, tokens)
	defer store2.Close()
	// Seed the second store with the established user.
	require.Error(t, store2.FetchUser(context.Background()))

	assert.Equal(t, "abc", tokens.Token(), "network failure must not clear the token")
}

func TestLogout_IdempotentAndTotal(t *testing.T) {
	store, tokens, _ := newSessionTest(t, serveUser(api.User{FirstName: "Ann"}))
	require.NoError(t, tokens.Save("abc", ""))
	require.NoError(t, store.FetchUser(context.Background()))
	require.True(t, store.Snapshot().IsLoggedIn)

	require.NoError(t, store.Logout(context.Background()))

	snap := store.Snapshot()
	assert.False(t, snap.IsLoggedIn)
	assert.Nil(t, snap.User)
	assert.Empty(t, tokens.Token())

	// Logging out again from the anonymous state must succeed identically.
	require.NoError(t, store.Logout(context.Background()))
	assert.Empty(t, tokens.Token())
}

func TestLogout_BroadcastsReset(t *testing.T) {
	store, tokens, _ := newSessionTest(t, serveUser(api.User{FirstName: "Ann"}))
	require.NoError(t, tokens.Save("abc", ""))
	require.NoError(t, store.FetchUser(context.Background()))

	ch, cancel := store.Subscribe()
	defer cancel()

	require.NoError(t, store.Logout(context.Background()))

	select {
	case snap := <-ch:
		assert.False(t, snap.IsLoggedIn)
		assert.Nil(t, snap.User)
	case <-time.After(time.Second):
		t.Fatal("expected a reset broadcast after logout")
	}
}

func TestUpdateProfilePic_RoundTrip(t *testing.T) {
	picture := "profile_picture1.png"
	var mu sync.Mutex

	store, tokens, _ := newSessionTest(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.Method == http.MethodPatch && r.URL.Path == "/users/update-profile-picture/":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			picture = body["profile_picture"]
			w.WriteHeader(http.StatusOK)
		case r.URL.Path == "/users/user/":
			json.NewEncoder(w).Encode(api.User{FirstName: "Ann", ProfilePicture: picture})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	require.NoError(t, tokens.Save("abc", ""))

	require.NoError(t, store.UpdateProfilePic(context.Background(), "profile_picture2.png"))

	snap := store.Snapshot()
	assert.Contains(t, snap.ProfilePic, "profile_picture2.png")
}

func TestUpdateProfilePic_FailureLeavesStateUnchanged(t *testing.T) {
	store, tokens, requests := newSessionTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "unknown picture"})
	})
	require.NoError(t, tokens.Save("abc", ""))

	before := store.Snapshot()
	err := store.UpdateProfilePic(context.Background(), "nope.png")
	require.Error(t, err)

	assert.Equal(t, before.IsLoggedIn, store.Snapshot().IsLoggedIn)
	assert.Equal(t, "abc", tokens.Token())
	assert.Equal(t, int32(1), atomic.LoadInt32(requests), "failed update must not trigger a re-fetch")
}

func TestFetchUser_ConcurrentCallsAreDeduplicated(t *testing.T) {
	release := make(chan struct{})
	store, tokens, requests := newSessionTest(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(api.User{FirstName: "Ann"})
	})
	require.NoError(t, tokens.Save("abc", ""))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.FetchUser(context.Background())
		}()
	}

	// Give the goroutines time to pile onto the singleflight key.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(requests), "concurrent fetches must collapse into one request")
	assert.True(t, store.Snapshot().IsLoggedIn)
}

func TestLogout_SupersedesInFlightFetch(t *testing.T) {
	release := make(chan struct{})
	store, tokens, _ := newSessionTest(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(api.User{FirstName: "Ann"})
	})
	require.NoError(t, tokens.Save("abc", ""))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = store.FetchUser(context.Background())
	}()

	time.Sleep(50 * time.Millisecond) // let the fetch reach the server
	require.NoError(t, store.Logout(context.Background()))
	close(release)
	<-done

	snap := store.Snapshot()
	assert.False(t, snap.IsLoggedIn, "a response resolving after logout must not repopulate the session")
	assert.Nil(t, snap.User)
}

func TestFetchUser_AfterReloginDoesNotJoinStaleRequest(t *testing.T) {
	// A fetch issued with the old token hangs at the server across a
	// logout and re-login. The fetch made after the new login must issue
	// its own request with the new token; when the old request finally
	// resolves 401, the fresh token must survive.
	release := make(chan struct{})
	store, tokens, _ := newSessionTest(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer old":
			<-release
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Token is invalid or expired"})
		case "Bearer new":
			json.NewEncoder(w).Encode(api.User{FirstName: "Ann"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	})
	require.NoError(t, tokens.Save("old", ""))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = store.FetchUser(context.Background())
	}()

	time.Sleep(50 * time.Millisecond) // let the old fetch reach the server
	require.NoError(t, store.Logout(context.Background()))
	require.NoError(t, tokens.Save("new", ""))

	require.NoError(t, store.FetchUser(context.Background()))
	assert.True(t, store.Snapshot().IsLoggedIn)

	close(release)
	<-done

	assert.Equal(t, "new", tokens.Token(), "the stale 401 must not clear the fresh token")
	snap := store.Snapshot()
	assert.True(t, snap.IsLoggedIn, "the stale 401 must not tear down the new session")
	require.NotNil(t, snap.User)
	assert.Equal(t, "Ann", snap.User.FirstName)
}

func TestClose_DiscardsLateResults(t *testing.T) {
	release := make(chan struct{})
	store, tokens, _ := newSessionTest(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(api.User{FirstName: "Ann"})
	})
	require.NoError(t, tokens.Save("abc", ""))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = store.FetchUser(context.Background())
	}()

	time.Sleep(50 * time.Millisecond)
	store.Close()
	close(release)
	<-done

	assert.False(t, store.Snapshot().IsLoggedIn)
}

func TestSubscribe_CoalescesToLatestSnapshot(t *testing.T) {
	store, tokens, _ := newSessionTest(t, serveUser(api.User{FirstName: "Ann"}))
	require.NoError(t, tokens.Save("abc", ""))

	ch, cancel := store.Subscribe()
	defer cancel()

	// Two transitions without the subscriber draining in between.
	require.NoError(t, store.FetchUser(context.Background()))
	require.NoError(t, store.Logout(context.Background()))

	select {
	case snap := <-ch:
		// Only the latest state may be observed.
		assert.False(t, snap.IsLoggedIn)
	case <-time.After(time.Second):
		t.Fatal("expected a snapshot")
	}
}

func TestSnapshot_ProfilePicFallsBackToDefault(t *testing.T) {
	store, tokens, _ := newSessionTest(t, serveUser(api.User{FirstName: "Ann", ProfilePicture: ""}))
	require.NoError(t, tokens.Save("abc", ""))
	require.NoError(t, store.FetchUser(context.Background()))

	snap := store.Snapshot()
	assert.Contains(t, snap.ProfilePic, DefaultProfilePicture)
	assert.NotEmpty(t, snap.ProfilePic)
}

func TestNewStore_LoadingCoversInitialFetch(t *testing.T) {
	store, tokens, _ := newSessionTest(t, serveUser(api.User{FirstName: "Ann"}))

	// Without a token there is nothing to load.
	assert.False(t, store.Snapshot().Loading)

	require.NoError(t, tokens.Save("abc", ""))
	store2 := NewStore(api.NewClient("http://unused.invalid", tokens, nil), tokens)
	defer store2.Close()
	assert.True(t, store2.Snapshot().Loading, "loading starts true while a token awaits validation")
}
