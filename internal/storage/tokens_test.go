package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenStore_RoundTrip(t *testing.T) {
	s := NewTokenStore(filepath.Join(t.TempDir(), "nested", "token.json"))

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoToken)

	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(&oauth2.Token{AccessToken: "at", RefreshToken: "rt", TokenType: "Bearer", Expiry: expiry}))

	tok, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "at", tok.AccessToken)
	assert.Equal(t, "rt", tok.RefreshToken)
	assert.True(t, tok.Expiry.Equal(expiry))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestTokenStore_SaveNil(t *testing.T) {
	assert.Error(t, NewTokenStore(filepath.Join(t.TempDir(), "token.json")).Save(nil))
}
