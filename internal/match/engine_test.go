package match

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotii/internal/ai"
)

type stubSearcher struct {
	mu      sync.Mutex
	results map[string][]Candidate
	errs    map[string]error
	queries []string
	limits  []int
}

func (s *stubSearcher) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	s.limits = append(s.limits, limit)
	if err := s.errs[query]; err != nil {
		return nil, err
	}
	return s.results[query], nil
}

func strictQuery(title, artist string) string { return "track:" + title + " artist:" + artist }
func titleQuery(title string) string          { return "track:" + title }
func freeQuery(title, artist string) string   { return title + " " + artist }

func newTestEngine(s Searcher) *Engine {
	return NewEngine(s, DefaultConfig())
}

func TestResolve_ExactMatch(t *testing.T) {
	song := ai.Song{Title: "Shape of You", Artist: "Ed Sheeran"}
	s := &stubSearcher{results: map[string][]Candidate{
		strictQuery(song.Title, song.Artist): {{ID: "1", URI: "spotify:track:1", Title: "Shape of You", PrimaryArtist: "Ed Sheeran"}},
	}}

	res := newTestEngine(s).Resolve(context.Background(), song)

	require.True(t, res.Resolved())
	assert.Equal(t, "spotify:track:1", res.Match.URI)
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, []string{strictQuery(song.Title, song.Artist)}, s.queries, "later stages skipped")
	assert.Equal(t, []int{5}, s.limits)
}

func TestResolve_CaseInsensitive(t *testing.T) {
	song := ai.Song{Title: "SHAPE OF YOU", Artist: "ed sheeran"}
	s := &stubSearcher{results: map[string][]Candidate{
		strictQuery(song.Title, song.Artist): {{ID: "1", Title: "Shape of You", PrimaryArtist: "Ed Sheeran"}},
	}}

	res := newTestEngine(s).Resolve(context.Background(), song)
	assert.Equal(t, 1.0, res.Score)
}

func TestResolve_NothingFound(t *testing.T) {
	song := ai.Song{Title: "Totally Made Up Song Xyz123", Artist: "Nonexistent Artist Abc"}
	s := &stubSearcher{}

	res := newTestEngine(s).Resolve(context.Background(), song)

	assert.False(t, res.Resolved())
	assert.Equal(t, song, res.Song)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, []string{
		strictQuery(song.Title, song.Artist),
		titleQuery(song.Title),
		freeQuery(song.Title, song.Artist),
	}, s.queries)
}

func TestResolve_NoSharedCharacters(t *testing.T) {
	song := ai.Song{Title: "abc", Artist: "def"}
	far := []Candidate{{ID: "x", Title: "xyz", PrimaryArtist: "uvw"}}
	s := &stubSearcher{results: map[string][]Candidate{
		strictQuery("abc", "def"): far,
		titleQuery("abc"):         far,
		freeQuery("abc", "def"):   far,
	}}

	res := newTestEngine(s).Resolve(context.Background(), song)

	assert.False(t, res.Resolved())
	assert.Len(t, s.queries, 3)
}

func TestResolve_StageFailureIsNotFatal(t *testing.T) {
	song := ai.Song{Title: "Shape of You", Artist: "Ed Sheeran"}
	s := &stubSearcher{
		errs: map[string]error{strictQuery(song.Title, song.Artist): errors.New("503")},
		results: map[string][]Candidate{
			titleQuery(song.Title): {{ID: "2", URI: "spotify:track:2", Title: "Shape of You", PrimaryArtist: "Ed Sheeran"}},
		},
	}

	res := newTestEngine(s).Resolve(context.Background(), song)

	require.True(t, res.Resolved())
	assert.Equal(t, "2", res.Match.ID)
	assert.Len(t, s.queries, 2)
}

func TestResolve_StageGates(t *testing.T) {
	tests := []struct {
		name      string
		candidate Candidate
		queries   int
		score     float64
		resolved  bool
	}{
		// title 1.0, artist 0 => 0.6, not below either gate
		{name: "score at title gate", candidate: Candidate{Title: "abcd", PrimaryArtist: "xyz"}, queries: 1, score: 0.6, resolved: true},
		// title 0.75, artist 0.25 => 0.55
		{name: "between gates", candidate: Candidate{Title: "abcx", PrimaryArtist: "wbcd"}, queries: 2, score: 0.55, resolved: true},
		// title 0.75, artist 0 => 0.45
		{name: "below both gates", candidate: Candidate{Title: "abcx", PrimaryArtist: "xyz"}, queries: 3, score: 0.45, resolved: true},
		// title 0, artist 1.0 => 0.4, not above accept
		{name: "at accept threshold", candidate: Candidate{Title: "wxyz", PrimaryArtist: "abc"}, queries: 3, score: 0.4, resolved: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			song := ai.Song{Title: "abcd", Artist: "abc"}
			if tt.name == "between gates" {
				song.Artist = "wxyz"
			}
			s := &stubSearcher{results: map[string][]Candidate{
				strictQuery(song.Title, song.Artist): {tt.candidate},
			}}

			res := newTestEngine(s).Resolve(context.Background(), song)

			assert.Len(t, s.queries, tt.queries)
			assert.InDelta(t, tt.score, res.Score, 1e-9)
			assert.Equal(t, tt.resolved, res.Resolved())
		})
	}
}

func TestResolve_CandidateCap(t *testing.T) {
	song := ai.Song{Title: "abc", Artist: "def"}
	var cands []Candidate
	for i := 0; i < 6; i++ {
		cands = append(cands, Candidate{ID: fmt.Sprint(i), Title: "xyz", PrimaryArtist: "uvw"})
	}
	cands = append(cands, Candidate{ID: "perfect", Title: "abc", PrimaryArtist: "def"})
	s := &stubSearcher{results: map[string][]Candidate{strictQuery("abc", "def"): cands}}

	res := newTestEngine(s).Resolve(context.Background(), song)

	assert.False(t, res.Resolved(), "candidates after the limit are ignored")
}

func TestResolve_TieKeepsFirst(t *testing.T) {
	song := ai.Song{Title: "Hello", Artist: "Adele"}
	s := &stubSearcher{results: map[string][]Candidate{
		strictQuery(song.Title, song.Artist): {
			{ID: "first", Title: "Hello", PrimaryArtist: "Adele"},
			{ID: "second", Title: "Hello", PrimaryArtist: "Adele"},
		},
	}}

	res := newTestEngine(s).Resolve(context.Background(), song)

	require.True(t, res.Resolved())
	assert.Equal(t, "first", res.Match.ID)
}

func TestResolve_LaterStageImproves(t *testing.T) {
	song := ai.Song{Title: "abcd", Artist: "abc"}
	s := &stubSearcher{results: map[string][]Candidate{
		strictQuery("abcd", "abc"): {{ID: "weak", Title: "abcx", PrimaryArtist: "xyz"}},
		freeQuery("abcd", "abc"):   {{ID: "strong", Title: "abcd", PrimaryArtist: "abc"}},
	}}

	res := newTestEngine(s).Resolve(context.Background(), song)

	require.True(t, res.Resolved())
	assert.Equal(t, "strong", res.Match.ID)
	assert.Equal(t, 1.0, res.Score)
}

func TestResolve_CustomConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AcceptAbove = 0.9
	song := ai.Song{Title: "abcd", Artist: "abc"}
	s := &stubSearcher{results: map[string][]Candidate{
		strictQuery("abcd", "abc"): {{ID: "weak", Title: "abcx", PrimaryArtist: "xyz"}},
	}}

	res := NewEngine(s, cfg).Resolve(context.Background(), song)
	assert.False(t, res.Resolved())
}

type slowSearcher struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
}

func (s *slowSearcher) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	s.calls.Add(1)
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		peak := s.peak.Load()
		if n <= peak || s.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)
	// Every song has a perfect candidate under its strict query.
	title, artist, ok := strings.Cut(strings.TrimPrefix(query, "track:"), " artist:")
	if !ok {
		return nil, errors.New("unexpected query " + query)
	}
	return []Candidate{{ID: title, Title: title, PrimaryArtist: artist}}, nil
}

func TestResolveAll_PreservesOrder(t *testing.T) {
	var songs []ai.Song
	for i := 0; i < 20; i++ {
		songs = append(songs, ai.Song{Title: fmt.Sprintf("song%02d", i), Artist: "band"})
	}
	s := &slowSearcher{}
	cfg := DefaultConfig()
	cfg.Workers = 3

	results := NewEngine(s, cfg).ResolveAll(context.Background(), songs)

	require.Len(t, results, len(songs))
	for i, r := range results {
		assert.Equal(t, songs[i], r.Song)
		require.True(t, r.Resolved())
		assert.Equal(t, songs[i].Title, r.Match.ID)
	}
	assert.LessOrEqual(t, s.peak.Load(), int32(3))
}

func TestResolveAll_Empty(t *testing.T) {
	results := newTestEngine(&stubSearcher{}).ResolveAll(context.Background(), nil)
	assert.Empty(t, results)
}

func TestResolveAll_CancelledContext(t *testing.T) {
	songs := []ai.Song{{Title: "a", Artist: "b"}, {Title: "c", Artist: "d"}}
	s := &slowSearcher{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := newTestEngine(s).ResolveAll(ctx, songs)

	require.Len(t, results, 2)
	for i, r := range results {
		assert.Equal(t, songs[i], r.Song)
		assert.False(t, r.Resolved())
	}
	assert.Zero(t, s.calls.Load())
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.TitleWeight = 0.9
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.AcceptAbove = 1.5
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.CandidateLimit = 0
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Workers = 0
	assert.Error(t, bad.Validate())
}
