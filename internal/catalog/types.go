package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// PlaylistRef identifies a playlist created in the catalog.
type PlaylistRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type PlaylistSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       *string `json:"image"`
	TrackCount  int     `json:"trackCount"`
	Owner       string  `json:"owner"`
	IsPublic    bool    `json:"isPublic"`
	URL         string  `json:"url"`
}

type PlaylistPage struct {
	Playlists []PlaylistSummary `json:"playlists"`
	Total     int               `json:"total"`
}

type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	ArtistIDs  []string `json:"artistIds"`
	AlbumCover string   `json:"albumCover,omitempty"`
	Duration   int      `json:"duration"`
	ProgressMs int      `json:"progressMs"`
	Markets    []string `json:"availableMarkets"`
}

// NowPlaying is the playback state of the user. Track is nil when nothing
// is playing.
type NowPlaying struct {
	IsPlaying bool   `json:"isPlaying"`
	Track     *Track `json:"track"`
}

type Action string

const (
	ActionPlay     Action = "play"
	ActionPause    Action = "pause"
	ActionNext     Action = "next"
	ActionPrevious Action = "previous"
)

var ErrInvalidAction = errors.New("invalid action. Must be: play, pause, next, or previous")

func ParseAction(v string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(v))); a {
	case ActionPlay, ActionPause, ActionNext, ActionPrevious:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, v)
	}
}
