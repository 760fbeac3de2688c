package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"spotii/internal/ai"
	"spotii/internal/match"
	"spotii/internal/storage"
)

const DefaultRedirectURL = "http://localhost:8080/callback"

type Config struct {
	AI      AIConfig      `toml:"ai"`
	Spotify SpotifyConfig `toml:"spotify"`
	Match   match.Config  `toml:"match"`
	Server  ServerConfig  `toml:"server"`
	Cache   CacheConfig   `toml:"cache"`
}

type AIConfig struct {
	Provider         string `toml:"provider"`
	Model            string `toml:"model"`
	Referer          string `toml:"referer"`
	GroqAPIKey       string `toml:"groq_api_key"`
	OpenRouterAPIKey string `toml:"openrouter_api_key"`
	OpenAIAPIKey     string `toml:"openai_api_key"`
	AnthropicAPIKey  string `toml:"anthropic_api_key"`
	GoogleAPIKey     string `toml:"google_api_key"`
}

func (c AIConfig) Keys() ai.APIKeys {
	return ai.APIKeys{
		Groq:       c.GroqAPIKey,
		OpenRouter: c.OpenRouterAPIKey,
		OpenAI:     c.OpenAIAPIKey,
		Anthropic:  c.AnthropicAPIKey,
		Google:     c.GoogleAPIKey,
	}
}

type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURL  string `toml:"redirect_url"`
	// AccessToken skips the stored login when set.
	AccessToken           string  `toml:"access_token"`
	TokenPath             string  `toml:"token_path"`
	SearchRate            float64 `toml:"search_rate"`
	SearchBurst           int     `toml:"search_burst"`
	ResolveTimeoutSeconds int     `toml:"resolve_timeout_seconds"`
}

func (c SpotifyConfig) ResolveTimeout() time.Duration {
	return time.Duration(c.ResolveTimeoutSeconds) * time.Second
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type CacheConfig struct {
	TTLSeconds int    `toml:"ttl_seconds"`
	RedisAddr  string `toml:"redis_addr"`
	Disabled   bool   `toml:"disabled"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func Default() Config {
	return Config{
		Spotify: SpotifyConfig{
			RedirectURL:           DefaultRedirectURL,
			SearchRate:            10,
			SearchBurst:           1,
			ResolveTimeoutSeconds: 120,
		},
		Match:  match.DefaultConfig(),
		Server: ServerConfig{Addr: ":3000"},
		Cache:  CacheConfig{TTLSeconds: 600},
	}
}

// Path is the config file location: $SPOTII_CONFIG, else config.toml in
// the spotii state directory.
func Path() string {
	if p := os.Getenv("SPOTII_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(storage.Dir(), "config.toml")
}

// Load reads .env, then the TOML file at path (missing is fine), then
// applies environment overrides.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = Path()
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, err
	}

	applyEnv(&cfg)
	if err := cfg.Match.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	set(&cfg.AI.GroqAPIKey, "GROQ_API_KEY")
	set(&cfg.AI.OpenRouterAPIKey, "OPENROUTER_API_KEY")
	set(&cfg.AI.OpenAIAPIKey, "OPENAI_API_KEY")
	set(&cfg.AI.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	set(&cfg.AI.GoogleAPIKey, "GOOGLE_API_KEY", "GEMINI_API_KEY")
	set(&cfg.AI.Provider, "AI_PROVIDER")
	set(&cfg.AI.Model, "AI_MODEL")
	set(&cfg.AI.Referer, "NEXTAUTH_URL", "SPOTII_REFERER")

	set(&cfg.Spotify.ClientID, "SPOTIFY_CLIENT_ID", "SPOTIFY_ID")
	set(&cfg.Spotify.ClientSecret, "SPOTIFY_CLIENT_SECRET", "SPOTIFY_SECRET")
	set(&cfg.Spotify.RedirectURL, "SPOTIFY_REDIRECT_URL")
	set(&cfg.Spotify.AccessToken, "SPOTIFY_ACCESS_TOKEN")

	set(&cfg.Cache.RedisAddr, "REDIS_ADDR")
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
}
