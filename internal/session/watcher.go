package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"insider/internal/logging"
)

// TokenWatcher keeps long-running processes in step with the token file.
// Several insider processes can share one state directory (a CLI invocation
// next to a running TUI); when one of them logs in or out, the others see
// the file change and re-validate their session through the normal FetchUser
// path, which broadcasts to subscribers.
type TokenWatcher struct {
	store   *Store
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewTokenWatcher creates a watcher over the store's token file.
func NewTokenWatcher(store *Store) (*TokenWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &TokenWatcher{
		store:   store,
		watcher: watcher,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
func (tw *TokenWatcher) Start(ctx context.Context) error {
	tw.mu.Lock()
	if tw.running {
		tw.mu.Unlock()
		return nil // Already running
	}
	tw.running = true
	tw.mu.Unlock()

	// Watch the directory, not the file: the token file is removed and
	// recreated across logout/login and a file watch would go stale.
	dir := filepath.Dir(tw.store.Tokens().Path())
	if err := os.MkdirAll(dir, 0755); err != nil {
		logging.SessionWarn("token watcher: cannot create state dir %s: %v", dir, err)
	}
	if err := tw.watcher.Add(dir); err != nil {
		// The run loop never started; a later Stop must not wait for it,
		// and the fsnotify goroutine has to be released here.
		tw.mu.Lock()
		tw.running = false
		tw.mu.Unlock()
		_ = tw.watcher.Close()
		return err
	}
	logging.SessionDebug("token watcher: watching %s", dir)

	go tw.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the loop to exit.
func (tw *TokenWatcher) Stop() {
	tw.mu.Lock()
	if !tw.running {
		tw.mu.Unlock()
		return
	}
	tw.running = false
	tw.mu.Unlock()

	close(tw.stopCh)
	<-tw.doneCh
	_ = tw.watcher.Close()
}

func (tw *TokenWatcher) run(ctx context.Context) {
	defer close(tw.doneCh)

	tokenPath := tw.store.Tokens().Path()

	// Coalesce bursts of events (login writes, editors, etc.)
	var pending bool
	debounce := time.NewTicker(200 * time.Millisecond)
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-tw.stopCh:
			return

		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if event.Name == tokenPath {
				pending = true
			}

		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			logging.SessionWarn("token watcher error: %v", err)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			if err := tw.store.Tokens().Load(); err != nil {
				logging.SessionWarn("token watcher: reload failed: %v", err)
				continue
			}
			logging.SessionDebug("token file changed, re-validating session")
			_ = tw.store.FetchUser(ctx)
		}
	}
}
