package ai

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

func songKey(song Song) string {
	return strings.ToLower(strings.TrimSpace(song.Artist)) + ":::" + strings.ToLower(strings.TrimSpace(song.Title))
}

// Ensemble asks every member in parallel and merges the answers. A song
// proposed by several members collects one vote per member.
type Ensemble struct {
	Members []*ModelGenerator
}

func (e *Ensemble) Rank(ctx context.Context, c Criteria) ([]RankedSong, error) {
	if len(e.Members) == 0 {
		return nil, &GenerationError{Provider: ProviderAll, Err: ErrNoProvider}
	}

	results := make([][]Song, len(e.Members))
	errs := make([]error, len(e.Members))
	var wg sync.WaitGroup
	for i, m := range e.Members {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = m.Generate(ctx, c)
			if errs[i] != nil {
				slog.Debug("provider failed", "provider", m.Provider, "err", errs[i])
			}
		}()
	}
	wg.Wait()

	order := []string{}
	counts := map[string]RankedSong{}
	anyOK := false
	for i, songs := range results {
		if errs[i] != nil {
			continue
		}
		anyOK = true
		seen := map[string]struct{}{}
		for _, song := range songs {
			key := songKey(song)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			existing, ok := counts[key]
			if ok {
				existing.Votes++
				counts[key] = existing
				continue
			}
			counts[key] = RankedSong{Song: song, Votes: 1}
			order = append(order, key)
		}
	}
	if !anyOK {
		return nil, &GenerationError{Provider: ProviderAll, Err: errors.Join(errs...)}
	}

	ranked := make([]RankedSong, 0, len(order))
	for _, key := range order {
		ranked = append(ranked, counts[key])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})
	return ranked, nil
}

// Generate returns the ranked songs, trimmed to the requested count.
func (e *Ensemble) Generate(ctx context.Context, c Criteria) ([]Song, error) {
	ranked, err := e.Rank(ctx, c)
	if err != nil {
		return nil, err
	}
	n := min(len(ranked), c.Count())
	out := make([]Song, 0, n)
	for _, r := range ranked[:n] {
		out = append(out, r.Song)
	}
	return out, nil
}
