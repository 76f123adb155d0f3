package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials holds the persisted token pair. The access token is the only
// credential this client presents; the refresh token is stored so a future
// login flow can use it, but no refresh is attempted client-side.
type Credentials struct {
	Access  string    `json:"access"`
	Refresh string    `json:"refresh,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

// TokenStore persists the bearer token in <state>/token.json.
// It is the single writer of the token; the session store and the login and
// logout flows all go through it.
type TokenStore struct {
	path  string
	mu    sync.Mutex
	creds *Credentials
}

// NewTokenStore creates a token store rooted at the given state directory
// and loads any existing credentials.
func NewTokenStore(stateDir string) *TokenStore {
	ts := &TokenStore{path: filepath.Join(stateDir, "token.json")}
	_ = ts.Load()
	return ts
}

// Path returns the credentials file location.
func (ts *TokenStore) Path() string { return ts.path }

// Load reads credentials from disk. A missing file is not an error; it just
// means no one is logged in.
func (ts *TokenStore) Load() error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	data, err := os.ReadFile(ts.path)
	if err != nil {
		if os.IsNotExist(err) {
			ts.creds = nil
			return nil
		}
		return err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return fmt.Errorf("parse credentials: %w", err)
	}
	ts.creds = &creds
	return nil
}

// Save writes the token pair to disk with owner-only permissions.
func (ts *TokenStore) Save(access, refresh string) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	creds := &Credentials{
		Access:  access,
		Refresh: refresh,
		SavedAt: time.Now(),
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(ts.path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(ts.path, data, 0600); err != nil {
		return err
	}

	ts.creds = creds
	return nil
}

// Clear deletes the credentials from memory and disk. Clearing an already
// absent token is not an error.
func (ts *TokenStore) Clear() error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.creds = nil
	if err := os.Remove(ts.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Token returns the access token, or empty when logged out.
// Implements api.TokenSource.
func (ts *TokenStore) Token() string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.creds == nil {
		return ""
	}
	return ts.creds.Access
}

// DecodeClaims extracts the registered claims from a JWT access token without
// verifying the signature. The client has no signing key; verification is the
// server's job. Used only for display (expiry in `insider auth status`).
func DecodeClaims(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
