package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GROQ_API_KEY", "OPENROUTER_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
		"GOOGLE_API_KEY", "GEMINI_API_KEY", "AI_PROVIDER", "AI_MODEL", "NEXTAUTH_URL", "SPOTII_REFERER",
		"SPOTIFY_CLIENT_ID", "SPOTIFY_ID", "SPOTIFY_CLIENT_SECRET", "SPOTIFY_SECRET",
		"SPOTIFY_REDIRECT_URL", "SPOTIFY_ACCESS_TOKEN", "REDIS_ADDR", "PORT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, DefaultRedirectURL, cfg.Spotify.RedirectURL)
	assert.Equal(t, 0.6, cfg.Match.TitleWeight)
	assert.Equal(t, 5, cfg.Match.CandidateLimit)
	assert.Equal(t, 4, cfg.Match.Workers)
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[ai]
provider = "claude"
anthropic_api_key = "from-file"

[spotify]
client_id = "file-id"
search_rate = 5.0

[match]
accept_above = 0.5
workers = 8

[cache]
ttl_seconds = 60
`), 0o600))
	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	t.Setenv("PORT", "8081")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "claude", cfg.AI.Provider)
	assert.Equal(t, "from-env", cfg.AI.Keys().Anthropic)
	assert.Equal(t, "file-id", cfg.Spotify.ClientID)
	assert.Equal(t, 5.0, cfg.Spotify.SearchRate)
	assert.Equal(t, 1, cfg.Spotify.SearchBurst, "unset keys keep defaults")
	assert.Equal(t, 0.5, cfg.Match.AcceptAbove)
	assert.Equal(t, 0.6, cfg.Match.TitleOnlyBelow)
	assert.Equal(t, 8, cfg.Match.Workers)
	assert.Equal(t, int64(60), int64(cfg.Cache.TTL().Seconds()))
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, ":8081", cfg.Server.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[ai\nprovider="), 0o600))
	_, err := Load(bad)
	assert.Error(t, err)

	weights := filepath.Join(dir, "weights.toml")
	require.NoError(t, os.WriteFile(weights, []byte("[match]\ntitle_weight = 0.9\n"), 0o600))
	_, err = Load(weights)
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	t.Setenv("SPOTII_CONFIG", "/tmp/x.toml")
	assert.Equal(t, "/tmp/x.toml", Path())
}
