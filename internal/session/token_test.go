package session

import (
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStore_SaveLoadClear(t *testing.T) {
	dir := t.TempDir()

	ts := NewTokenStore(dir)
	assert.Empty(t, ts.Token(), "fresh store has no token")

	require.NoError(t, ts.Save("access-1", "refresh-1"))
	assert.Equal(t, "access-1", ts.Token())

	// A second store over the same directory sees the persisted token.
	ts2 := NewTokenStore(dir)
	assert.Equal(t, "access-1", ts2.Token())

	require.NoError(t, ts.Clear())
	assert.Empty(t, ts.Token())
	if _, err := os.Stat(ts.Path()); !os.IsNotExist(err) {
		t.Error("token file should be removed on Clear")
	}

	// Clearing again is not an error.
	require.NoError(t, ts.Clear())
}

func TestTokenStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}

	ts := NewTokenStore(t.TempDir())
	require.NoError(t, ts.Save("secret", ""))

	info, err := os.Stat(ts.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "credentials must be owner-only")
}

func TestTokenStore_CorruptFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	ts := NewTokenStore(dir)
	require.NoError(t, os.WriteFile(ts.Path(), []byte("{not json"), 0600))

	err := ts.Load()
	require.Error(t, err)
}

func TestDecodeClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)

	claims, err := DecodeClaims(raw)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.True(t, claims.ExpiresAt.Equal(exp))
}

func TestDecodeClaims_RejectsGarbage(t *testing.T) {
	_, err := DecodeClaims("not-a-jwt")
	require.Error(t, err)
}
