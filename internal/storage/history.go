package storage

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"spotii/internal/ai"
)

const MaxHistory = 5

// SavedPlaylist is a playlist the user generated recently.
type SavedPlaylist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Mood        string    `json:"mood"`
	Genre       string    `json:"genre"`
	Era         string    `json:"era"`
	Songs       []ai.Song `json:"songs"`
	PlaylistURL string    `json:"playlistUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	TrackCount  int       `json:"trackCount"`
}

type Stats struct {
	TotalPlaylists int    `json:"totalPlaylists"`
	TotalSongs     int    `json:"totalSongs"`
	TopGenre       string `json:"topGenre"`
}

type History struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewHistory(path string) *History {
	if path == "" {
		path = filepath.Join(Dir(), "history.json")
	}
	return &History{path: path, now: time.Now}
}

type historyFile struct {
	Playlists []SavedPlaylist `json:"playlists"`
}

// Recent returns saved playlists, newest first.
func (h *History) Recent() ([]SavedPlaylist, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load()
}

// Add records p as the newest entry and drops the oldest beyond
// MaxHistory. ID, CreatedAt and TrackCount are filled in.
func (h *History) Add(p SavedPlaylist) (SavedPlaylist, error) {
	if strings.TrimSpace(p.Name) == "" {
		return SavedPlaylist{}, errors.New("playlist name is required")
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	list, err := h.load()
	if err != nil {
		return SavedPlaylist{}, err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = h.now().UTC()
	p.TrackCount = len(p.Songs)
	if p.Songs == nil {
		p.Songs = []ai.Song{}
	}

	list = append([]SavedPlaylist{p}, list...)
	if len(list) > MaxHistory {
		list = list[:MaxHistory]
	}
	if err := writeJSON(h.path, historyFile{Playlists: list}); err != nil {
		return SavedPlaylist{}, err
	}
	return p, nil
}

// Delete removes the entry with id. Unknown ids are not an error.
func (h *History) Delete(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	list, err := h.load()
	if err != nil {
		return err
	}
	kept := make([]SavedPlaylist, 0, len(list))
	for _, p := range list {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(list) {
		return nil
	}
	return writeJSON(h.path, historyFile{Playlists: kept})
}

// Stats summarizes the saved playlists. TopGenre is the most frequent
// non-empty genre, the earliest listed on a tie, or "None".
func (h *History) Stats() (Stats, error) {
	list, err := h.Recent()
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{TotalPlaylists: len(list), TopGenre: "None"}
	counts := map[string]int{}
	order := []string{}
	for _, p := range list {
		stats.TotalSongs += p.TrackCount
		if p.Genre == "" {
			continue
		}
		if _, ok := counts[p.Genre]; !ok {
			order = append(order, p.Genre)
		}
		counts[p.Genre]++
	}
	best := 0
	for _, g := range order {
		if counts[g] > best {
			best = counts[g]
			stats.TopGenre = g
		}
	}
	return stats, nil
}

func (h *History) load() ([]SavedPlaylist, error) {
	var f historyFile
	if _, err := readJSON(h.path, &f); err != nil {
		return nil, err
	}
	if f.Playlists == nil {
		return []SavedPlaylist{}, nil
	}
	if len(f.Playlists) > MaxHistory {
		f.Playlists = f.Playlists[:MaxHistory]
	}
	return f.Playlists, nil
}
