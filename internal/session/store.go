// Package session holds the client-side authentication state: who is logged
// in, what we know about them, and the persisted bearer token backing it.
// A single Store instance is created at program start and injected into
// every consumer; all session mutation goes through its methods.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"insider/internal/api"
	"insider/internal/logging"
)

// DefaultProfilePicture is used when the account has no picture set or the
// stored filename is empty.
const DefaultProfilePicture = "profile_picture1.png"

// profileAssetPath is where the preset pictures live on the web frontend;
// kept identical so ProfilePic values stay interchangeable with the web app.
const profileAssetPath = "/assets/profile-pictures/"

// Backend is the slice of the API client the session store needs.
// *api.Client satisfies it.
type Backend interface {
	CurrentUser(ctx context.Context) (*api.User, error)
	UpdateProfilePicture(ctx context.Context, filename string) error
}

// Snapshot is an immutable view of session state handed to subscribers.
type Snapshot struct {
	User       *api.User
	IsLoggedIn bool
	Loading    bool
	ProfilePic string
}

// Store is the session state container.
//
// Concurrency notes: concurrent FetchUser calls are collapsed into one
// request (singleflight), and every commit is generation-checked so a
// response resolving after Logout or Close can never resurrect a torn-down
// session. The last authoritative fetch wins.
type Store struct {
	backend Backend
	tokens  *TokenStore

	mu         sync.Mutex
	user       *api.User
	isLoggedIn bool
	loading    bool
	gen        uint64
	closed     bool

	group singleflight.Group

	subs    map[int]chan Snapshot
	nextSub int
}

// NewStore creates a session store. Loading starts true when a token is
// present, covering the window before the initial FetchUser settles.
func NewStore(backend Backend, tokens *TokenStore) *Store {
	return &Store{
		backend: backend,
		tokens:  tokens,
		loading: tokens.Token() != "",
		subs:    make(map[int]chan Snapshot),
	}
}

// Tokens exposes the underlying token store (login flows write through it).
func (s *Store) Tokens() *TokenStore { return s.tokens }

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		User:       s.user,
		IsLoggedIn: s.isLoggedIn,
		Loading:    s.loading,
		ProfilePic: resolveProfilePic(s.user),
	}
}

// resolveProfilePic maps the account's picture filename to a displayable
// asset path, always returning a non-empty path.
func resolveProfilePic(user *api.User) string {
	name := DefaultProfilePicture
	if user != nil && user.ProfilePicture != "" {
		name = user.ProfilePicture
	}
	return profileAssetPath + name
}

// Subscribe registers a state change listener. The returned channel receives
// a coalesced Snapshot after every state transition; slow consumers only miss
// intermediate states, never the latest one. The cancel function must be
// called when done.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
}

// broadcastLocked pushes the current snapshot to all subscribers, replacing
// any undelivered older snapshot.
func (s *Store) broadcastLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Drop the stale snapshot and replace it with the fresh one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// FetchUser refreshes the session from the remote API.
//
// No token: the session becomes anonymous without any network call.
// 2xx: the user is stored and IsLoggedIn becomes true.
// 401: the token is authoritatively invalid - token and user are cleared.
// Other non-2xx: IsLoggedIn becomes false but the token is kept; a broken
// server is not the same as invalid credentials.
// Network error: state is left as-is apart from the loading flag.
//
// The returned error reports what happened; the state transition has
// already been applied in every case, so callers may ignore it.
func (s *Store) FetchUser(ctx context.Context) error {
	token := s.tokens.Token()
	if token == "" {
		s.mu.Lock()
		s.user = nil
		s.isLoggedIn = false
		s.loading = false
		s.broadcastLocked()
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	// The generation is part of the key so a caller arriving after a logout
	// (and possibly a fresh login) never joins an in-flight request that was
	// issued with the old token.
	v, err, _ := s.group.Do(fmt.Sprintf("fetch-user-%d", gen), func() (interface{}, error) {
		return s.backend.CurrentUser(ctx)
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false

	// A logout or Close between dispatch and resolution supersedes this
	// fetch; its result must not overwrite the newer state.
	if s.closed || gen != s.gen {
		logging.SessionDebug("discarding superseded user fetch (gen %d != %d)", gen, s.gen)
		s.broadcastLocked()
		return nil
	}

	switch {
	case err == nil:
		s.user = v.(*api.User)
		s.isLoggedIn = true
		logging.Session("user fetch ok: %s", s.user.Email)

	case api.IsUnauthorized(err):
		// The token is dead. Tear down and do not retry.
		if clearErr := s.tokens.Clear(); clearErr != nil {
			logging.SessionError("clearing invalid token: %v", clearErr)
		}
		s.user = nil
		s.isLoggedIn = false
		logging.Session("token rejected with 401, session cleared")

	default:
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			// Transient server failure: token kept, logged-in flag dropped
			// until the next successful fetch.
			s.isLoggedIn = false
			logging.SessionWarn("user fetch failed with %d, token preserved", apiErr.StatusCode)
		} else {
			logging.SessionWarn("user fetch network error: %v", err)
		}
	}

	s.broadcastLocked()
	return err
}

// Logout clears the token and the in-memory session, then broadcasts the
// reset so every dependent view re-initializes from a clean state. It is
// idempotent and total: the outcome does not depend on prior state.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++ // in-flight fetches are now superseded
	err := s.tokens.Clear()
	s.user = nil
	s.isLoggedIn = false
	s.loading = false
	s.broadcastLocked()

	logging.Session("logged out")
	return err
}

// UpdateProfilePic updates the account's preset picture and refreshes the
// session on success. On failure the session state is left untouched.
func (s *Store) UpdateProfilePic(ctx context.Context, filename string) error {
	if err := s.backend.UpdateProfilePicture(ctx, filename); err != nil {
		logging.SessionWarn("profile picture update failed: %v", err)
		return err
	}
	return s.FetchUser(ctx)
}

// Close tears the store down. In-flight fetches resolve but their results
// are discarded, and all subscriber channels are closed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.gen++

	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
