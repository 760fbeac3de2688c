package match

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"spotii/internal/ai"
)

// Candidate is a catalog track returned by a search.
type Candidate struct {
	ID            string `json:"id"`
	URI           string `json:"uri"`
	Title         string `json:"title"`
	PrimaryArtist string `json:"artist"`
	Album         string `json:"album,omitempty"`
}

type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)
}

// Result is the outcome of reconciling one song. Match is nil when the song
// is unresolved; Score is then the best score seen, possibly 0.
type Result struct {
	Song  ai.Song    `json:"song"`
	Match *Candidate `json:"match,omitempty"`
	Score float64    `json:"score"`
}

func (r Result) Resolved() bool { return r.Match != nil }

type Engine struct {
	Searcher Searcher
	Config   Config
	Logger   *slog.Logger
	stages   []Stage
}

func NewEngine(searcher Searcher, cfg Config) *Engine {
	return &Engine{
		Searcher: searcher,
		Config:   cfg,
		Logger:   slog.Default(),
		stages:   cfg.Stages(),
	}
}

// Score is the weighted similarity of a candidate to the requested song,
// compared case-insensitively.
func (e *Engine) Score(song ai.Song, c Candidate) float64 {
	title := Similarity(strings.ToLower(song.Title), strings.ToLower(c.Title))
	artist := Similarity(strings.ToLower(song.Artist), strings.ToLower(c.PrimaryArtist))
	return e.Config.TitleWeight*title + e.Config.ArtistWeight*artist
}

// Resolve runs the search cascade for one song and keeps the best scoring
// candidate across all stages that ran. Search failures are logged and
// treated as empty results.
func (e *Engine) Resolve(ctx context.Context, song ai.Song) Result {
	log := e.logger()
	var best *Candidate
	bestScore := 0.0

	for _, stage := range e.stageList() {
		if !stage.Attempt(bestScore) {
			continue
		}
		query := stage.Query(song)
		candidates, err := e.Searcher.Search(ctx, query, e.Config.CandidateLimit)
		if err != nil {
			log.Debug("search stage failed", "stage", stage.Name, "query", query, "err", err)
			continue
		}
		if len(candidates) > e.Config.CandidateLimit {
			candidates = candidates[:e.Config.CandidateLimit]
		}
		for i := range candidates {
			score := e.Score(song, candidates[i])
			if score > bestScore {
				c := candidates[i]
				best = &c
				bestScore = score
			}
		}
		log.Debug("search stage done", "stage", stage.Name, "query", query, "candidates", len(candidates), "best", bestScore)
	}

	if best == nil || bestScore <= e.Config.AcceptAbove {
		log.Debug("song unresolved", "song", song.String(), "best", bestScore)
		return Result{Song: song, Score: bestScore}
	}
	log.Debug("song resolved", "song", song.String(), "uri", best.URI, "score", bestScore)
	return Result{Song: song, Match: best, Score: bestScore}
}

// ResolveAll resolves songs with at most Config.Workers in flight. Results
// are in input order. Once ctx is done, songs that have not started are
// returned unresolved.
func (e *Engine) ResolveAll(ctx context.Context, songs []ai.Song) []Result {
	results := make([]Result, len(songs))
	workers := e.Config.Workers
	if workers <= 0 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, song := range songs {
		if ctx.Err() != nil {
			results[i] = Result{Song: song}
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = Result{Song: song}
				return nil
			}
			results[i] = e.Resolve(ctx, song)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (e *Engine) stageList() []Stage {
	if e.stages == nil {
		return e.Config.Stages()
	}
	return e.stages
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}
