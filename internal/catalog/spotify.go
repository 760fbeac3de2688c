package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zmb3/spotify/v2"

	"spotii/internal/match"
)

// MaxTracksPerRequest is how many tracks Spotify accepts in a single add
// call.
const MaxTracksPerRequest = 100

// Spotify is the catalog backed by the Spotify Web API. The http client
// must already carry the user's credentials.
type Spotify struct {
	client *spotify.Client
}

func NewSpotify(httpClient *http.Client, opts ...spotify.ClientOption) *Spotify {
	return &Spotify{client: spotify.New(httpClient, opts...)}
}

// Search runs a track search and returns the first limit results.
func (s *Spotify) Search(ctx context.Context, query string, limit int) ([]match.Candidate, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	results, err := s.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("search tracks: %w", err)
	}
	if results.Tracks == nil {
		return []match.Candidate{}, nil
	}
	out := make([]match.Candidate, 0, len(results.Tracks.Tracks))
	for _, t := range results.Tracks.Tracks {
		c := match.Candidate{
			ID:    string(t.ID),
			URI:   string(t.URI),
			Title: t.Name,
			Album: t.Album.Name,
		}
		if len(t.Artists) > 0 {
			c.PrimaryArtist = t.Artists[0].Name
		}
		out = append(out, c)
	}
	return out, nil
}

// CreatePlaylist creates a private, non-collaborative playlist owned by the
// current user.
func (s *Spotify) CreatePlaylist(ctx context.Context, name, description string) (PlaylistRef, error) {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return PlaylistRef{}, fmt.Errorf("get current user: %w", err)
	}
	p, err := s.client.CreatePlaylistForUser(ctx, user.ID, name, description, false, false)
	if err != nil {
		return PlaylistRef{}, fmt.Errorf("create playlist: %w", err)
	}
	url := p.ExternalURLs["spotify"]
	if url == "" {
		url = "https://open.spotify.com/playlist/" + string(p.ID)
	}
	return PlaylistRef{ID: string(p.ID), URL: url}, nil
}

// AddTracks appends tracks in order, MaxTracksPerRequest at a time.
func (s *Spotify) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	for start := 0; start < len(trackIDs); start += MaxTracksPerRequest {
		end := min(start+MaxTracksPerRequest, len(trackIDs))
		ids := make([]spotify.ID, 0, end-start)
		for _, id := range trackIDs[start:end] {
			ids = append(ids, spotify.ID(id))
		}
		if _, err := s.client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), ids...); err != nil {
			return fmt.Errorf("add tracks to playlist: %w", err)
		}
	}
	return nil
}

// Playlists lists the first page (up to 50) of the user's playlists.
func (s *Spotify) Playlists(ctx context.Context) (PlaylistPage, error) {
	page, err := s.client.CurrentUsersPlaylists(ctx, spotify.Limit(50))
	if err != nil {
		return PlaylistPage{}, fmt.Errorf("get playlists: %w", err)
	}
	out := PlaylistPage{Playlists: []PlaylistSummary{}, Total: int(page.Total)}
	for _, p := range page.Playlists {
		summary := PlaylistSummary{
			ID:          string(p.ID),
			Name:        p.Name,
			Description: p.Description,
			TrackCount:  int(p.Tracks.Total),
			Owner:       p.Owner.DisplayName,
			IsPublic:    p.IsPublic,
			URL:         p.ExternalURLs["spotify"],
		}
		if len(p.Images) > 0 {
			img := p.Images[0].URL
			summary.Image = &img
		}
		out.Playlists = append(out.Playlists, summary)
	}
	return out, nil
}

func (s *Spotify) Control(ctx context.Context, action Action) error {
	var err error
	switch action {
	case ActionPlay:
		err = s.client.Play(ctx)
	case ActionPause:
		err = s.client.Pause(ctx)
	case ActionNext:
		err = s.client.Next(ctx)
	case ActionPrevious:
		err = s.client.Previous(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}
	if err != nil {
		return fmt.Errorf("failed to %s playback: %w", action, err)
	}
	return nil
}

func (s *Spotify) CurrentlyPlaying(ctx context.Context) (NowPlaying, error) {
	cp, err := s.client.PlayerCurrentlyPlaying(ctx)
	if err != nil {
		return NowPlaying{}, fmt.Errorf("get currently playing: %w", err)
	}
	if cp == nil {
		return NowPlaying{}, nil
	}
	out := NowPlaying{IsPlaying: cp.Playing}
	if cp.Item == nil {
		return out, nil
	}
	item := cp.Item
	track := &Track{
		ID:         string(item.ID),
		Name:       item.Name,
		Artists:    []string{},
		ArtistIDs:  []string{},
		Duration:   int(item.Duration),
		ProgressMs: int(cp.Progress),
		Markets:    item.AvailableMarkets,
	}
	if track.Markets == nil {
		track.Markets = []string{}
	}
	for _, a := range item.Artists {
		track.Artists = append(track.Artists, a.Name)
		track.ArtistIDs = append(track.ArtistIDs, string(a.ID))
	}
	if len(item.Album.Images) > 0 {
		track.AlbumCover = item.Album.Images[0].URL
	}
	out.Track = track
	return out, nil
}
