package playlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"spotii/internal/ai"
	"spotii/internal/catalog"
	"spotii/internal/match"
)

const (
	DefaultDescription    = "Created with Spotii - AI Playlist Generator"
	DefaultResolveTimeout = 2 * time.Minute
)

var (
	ErrNoSongs        = errors.New("no songs to save")
	ErrCreatePlaylist = errors.New("failed to create playlist")
	ErrAddTracks      = errors.New("failed to add tracks to playlist")
)

// Catalog is where the playlist ends up.
type Catalog interface {
	CreatePlaylist(ctx context.Context, name, description string) (catalog.PlaylistRef, error)
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error
}

type SaveRequest struct {
	Name        string    `json:"playlistName"`
	Description string    `json:"description,omitempty"`
	Songs       []ai.Song `json:"songs"`
}

type Outcome struct {
	PlaylistID     string         `json:"playlistId"`
	PlaylistURL    string         `json:"playlistUrl"`
	Name           string         `json:"name"`
	TracksAdded    int            `json:"tracksAdded"`
	TracksNotFound int            `json:"tracksNotFound"`
	NotFound       []ai.Song      `json:"notFound"`
	Results        []match.Result `json:"results"`
}

// Assembler turns proposed songs into a playlist: it resolves every song
// against the catalog, creates the playlist and adds what was found in the
// original order.
type Assembler struct {
	Generator      ai.Generator
	Catalog        Catalog
	Engine         *match.Engine
	ResolveTimeout time.Duration
	Now            func() time.Time
}

func New(gen ai.Generator, cat Catalog, engine *match.Engine) *Assembler {
	return &Assembler{
		Generator:      gen,
		Catalog:        cat,
		Engine:         engine,
		ResolveTimeout: DefaultResolveTimeout,
		Now:            time.Now,
	}
}

// Generate asks the generator for songs. Its errors are returned as is.
func (a *Assembler) Generate(ctx context.Context, c ai.Criteria) ([]ai.Song, error) {
	if a.Generator == nil {
		return nil, ai.ErrNoProvider
	}
	return a.Generator.Generate(ctx, c)
}

func (a *Assembler) DefaultName() string {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	return "AI Playlist " + now().Format("1/2/2006")
}

func (a *Assembler) Save(ctx context.Context, req SaveRequest) (Outcome, error) {
	songs := make([]ai.Song, 0, len(req.Songs))
	for _, s := range req.Songs {
		if s.Valid() {
			songs = append(songs, s)
		}
	}
	if len(songs) == 0 {
		return Outcome{}, ErrNoSongs
	}
	name := req.Name
	if name == "" {
		name = a.DefaultName()
	}
	description := req.Description
	if description == "" {
		description = DefaultDescription
	}

	results := a.resolve(ctx, songs)

	trackIDs := []string{}
	notFound := []ai.Song{}
	for _, r := range results {
		if r.Resolved() {
			trackIDs = append(trackIDs, r.Match.ID)
		} else {
			notFound = append(notFound, r.Song)
		}
	}
	slog.Debug("songs resolved", "found", len(trackIDs), "missing", len(notFound))

	ref, err := a.Catalog.CreatePlaylist(ctx, name, description)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrCreatePlaylist, err)
	}
	if len(trackIDs) > 0 {
		if err := a.Catalog.AddTracks(ctx, ref.ID, trackIDs); err != nil {
			return Outcome{}, fmt.Errorf("%w: %w", ErrAddTracks, err)
		}
	}

	return Outcome{
		PlaylistID:     ref.ID,
		PlaylistURL:    ref.URL,
		Name:           name,
		TracksAdded:    len(trackIDs),
		TracksNotFound: len(notFound),
		NotFound:       notFound,
		Results:        results,
	}, nil
}

func (a *Assembler) resolve(ctx context.Context, songs []ai.Song) []match.Result {
	timeout := a.ResolveTimeout
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return a.Engine.ResolveAll(rctx, songs)
}
