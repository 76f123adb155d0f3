package session

import (
	"context"
	"errors"

	"insider/internal/logging"
)

// ErrLoginRequired is returned by the guard when no token is stored. Callers
// surface it as a pointer to the login flow rather than an internal failure.
var ErrLoginRequired = errors.New("login required: run 'insider login' first")

// Guard gates protected commands and screens behind the session.
//
// The check is deliberately optimistic: a stored token lets the action run
// immediately while the session refreshes in the background. Blocking on the
// refresh would punish every validly logged-in user with a stall (or, in the
// web client this mirrors, a flash back to the login page) just to catch the
// rare expired token. If the background fetch finds the token invalid it
// tears the session down, and the next guarded action sees the missing token
// and fails fast. The remote API independently rejects the stale token on
// every real request, so nothing privileged leaks through this window.
type Guard struct {
	store *Store
}

// NewGuard creates a guard over the given session store.
func NewGuard(store *Store) *Guard {
	return &Guard{store: store}
}

// Allow decides whether a protected action may run. No token means an
// immediate ErrLoginRequired; a present token triggers a fire-and-forget
// session refresh and lets the action proceed.
func (g *Guard) Allow(ctx context.Context) error {
	if g.store.Tokens().Token() == "" {
		logging.SessionDebug("guard: no token, refusing")
		return ErrLoginRequired
	}

	go func() {
		// Errors are already folded into session state by FetchUser.
		_ = g.store.FetchUser(ctx)
	}()

	return nil
}

// Protect wraps an action with Allow.
func (g *Guard) Protect(run func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := g.Allow(ctx); err != nil {
			return err
		}
		return run(ctx)
	}
}
