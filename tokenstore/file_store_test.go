package tokenstore_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-survey-gateway/tokenstore"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surveyctl", "token")
	store := tokenstore.NewFileStore(path)

	_, ok := store.Get()
	require.False(t, ok)

	require.NoError(t, store.Set("opaque-1", 0))
	require.NoError(t, store.Set("opaque-2", 0))

	// A second store on the same path sees the persisted value
	token, ok := tokenstore.NewFileStore(path).Get()
	require.True(t, ok)
	require.Equal(t, "opaque-2", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, store.Clear())
	_, ok = store.Get()
	require.False(t, ok)
	require.NoError(t, store.Clear())
}

func TestFileStoreExpiredJWTIsAbsent(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "token")
	store := tokenstore.NewFileStore(path, tokenstore.WithClock(func() time.Time { return now }))

	live := signedToken(t, now.Add(time.Hour))
	require.NoError(t, store.Set(live, 0))
	token, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, live, token)

	require.NoError(t, store.Set(signedToken(t, now.Add(-time.Minute)), 0))
	_, ok = store.Get()
	require.False(t, ok)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, ok := tokenstore.NewFileStore(path).Get()
	require.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	_, ok := store.Get()
	require.False(t, ok)

	require.ErrorIs(t, store.Set("", 0), tokenstore.ErrEmptyToken)
	require.NoError(t, store.Set("a", 0))
	require.NoError(t, store.Set("b", 0))
	token, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, "b", token)

	require.NoError(t, store.Set(signedToken(t, time.Now().Add(-time.Hour)), 0))
	_, ok = store.Get()
	require.False(t, ok)

	require.NoError(t, store.Clear())
	_, ok = store.Get()
	require.False(t, ok)
}

func TestExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := tokenstore.Expiry(signedToken(t, exp))
	require.True(t, ok)
	require.True(t, exp.Equal(got))

	_, ok = tokenstore.Expiry("opaque-value")
	require.False(t, ok)
	require.False(t, tokenstore.Expired("opaque-value", time.Now()))
}
