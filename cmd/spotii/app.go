package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-redis/redis/v8"
	"golang.org/x/term"

	"spotii/internal/ai"
	"spotii/internal/catalog"
	"spotii/internal/config"
	"spotii/internal/match"
	"spotii/internal/output"
	"spotii/internal/playlist"
	"spotii/internal/server"
	"spotii/internal/setup"
	"spotii/internal/storage"
)

// spotifyClient is everything the CLI needs from the user's account.
type spotifyClient interface {
	match.Searcher
	playlist.Catalog
	server.Library
}

type globalOptions struct {
	ConfigPath string
	JSON       bool
	Plain      bool
	Quiet      bool
	Verbose    bool
	NoColor    bool
	NoInput    bool
}

type app struct {
	opts globalOptions
	cfg  config.Config
	out  *output.Output

	stdin      io.Reader
	stdinIsTTY func() bool

	loadConfig   func(path string) (config.Config, error)
	newGenerator func(opts ai.Options) (ai.Generator, error)
	newSpotify   func(ctx context.Context, cfg config.SpotifyConfig) (spotifyClient, error)
	history      *storage.History
	tokens       *storage.TokenStore
}

func newApp() *app {
	a := &app{
		stdin:        os.Stdin,
		stdinIsTTY:   func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		loadConfig:   config.Load,
		newGenerator: ai.NewGenerator,
	}
	a.newSpotify = a.connectSpotify
	return a
}

// init loads configuration and sets up output. It runs before every
// command.
func (a *app) init() error {
	cfg, err := a.loadConfig(a.opts.ConfigPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.out = output.New(output.Options{
		JSON:    a.opts.JSON,
		Plain:   a.opts.Plain,
		Quiet:   a.opts.Quiet,
		Verbose: a.opts.Verbose,
		NoColor: a.opts.NoColor || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb",
	})
	if a.opts.Verbose {
		output.EnableDebugLogging(os.Stderr)
	}
	if a.tokens == nil {
		a.tokens = storage.NewTokenStore(cfg.Spotify.TokenPath)
	}
	if a.history == nil {
		a.history = storage.NewHistory("")
	}
	return nil
}

func (a *app) generator(provider string) (ai.Generator, error) {
	if provider == "" {
		provider = a.cfg.AI.Provider
	}
	gen, err := a.newGenerator(ai.Options{
		Keys:     a.cfg.AI.Keys(),
		Provider: provider,
		Model:    a.cfg.AI.Model,
		Referer:  a.cfg.AI.Referer,
	})
	if errors.Is(err, ai.ErrNoProvider) {
		a.out.Error("No AI provider available.")
		a.out.Error("Set at least one of: GROQ_API_KEY, OPENROUTER_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY")
	}
	return gen, err
}

func (a *app) connectSpotify(ctx context.Context, cfg config.SpotifyConfig) (spotifyClient, error) {
	httpClient, err := setup.HTTPClient(ctx, cfg, a.tokens)
	if err != nil {
		return nil, err
	}
	return catalog.NewSpotify(httpClient), nil
}

func (a *app) spotify(ctx context.Context) (spotifyClient, error) {
	sp, err := a.newSpotify(ctx, a.cfg.Spotify)
	if errors.Is(err, setup.ErrNotLoggedIn) {
		setup.PrintInstructions(a.out)
	}
	return sp, err
}

// searcher wraps the catalog search with the configured rate limit and
// cache.
func (a *app) searcher(sp match.Searcher) match.Searcher {
	var s match.Searcher = catalog.NewThrottled(sp, a.cfg.Spotify.SearchRate, a.cfg.Spotify.SearchBurst)
	if a.cfg.Cache.Disabled {
		return s
	}
	var cache catalog.Cache
	if addr := a.cfg.Cache.RedisAddr; addr != "" {
		cache = catalog.NewRedisCache(redis.NewClient(&redis.Options{Addr: addr}), a.cfg.Cache.TTL())
	} else {
		cache = catalog.NewMemoryCache(a.cfg.Cache.TTL())
	}
	return catalog.NewCached(s, cache)
}

func (a *app) assembler(gen ai.Generator, sp spotifyClient) *playlist.Assembler {
	engine := match.NewEngine(a.searcher(sp), a.cfg.Match)
	asm := playlist.New(gen, sp, engine)
	if t := a.cfg.Spotify.ResolveTimeout(); t > 0 {
		asm.ResolveTimeout = t
	}
	return asm
}

// readPrompt reads a prompt piped on stdin. It returns "" when stdin is a
// terminal or input is disabled.
func (a *app) readPrompt() string {
	if a.opts.NoInput || a.stdinIsTTY() {
		return ""
	}
	scanner := bufio.NewScanner(a.stdin)
	lines := []string{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}

func (a *app) printSongs(songs []ai.Song) {
	a.out.Print(a.out.Bold(fmt.Sprintf("Playlist (%d songs):", len(songs))))
	for i, s := range songs {
		line := fmt.Sprintf("  %d. %s - %s", i+1, s.Artist, s.Title)
		if s.Album != "" {
			line += a.out.Gray(" (" + s.Album + ")")
		}
		a.out.Print(line)
	}
	a.out.Print("")
}
