package catalog

import (
	"context"

	"golang.org/x/time/rate"

	"spotii/internal/match"
)

// Throttled spaces out searches so a large playlist does not trip the
// catalog's rate limit. It is safe for concurrent use.
type Throttled struct {
	next    match.Searcher
	limiter *rate.Limiter
}

func NewThrottled(next match.Searcher, perSecond float64, burst int) *Throttled {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &Throttled{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (t *Throttled) Search(ctx context.Context, query string, limit int) ([]match.Candidate, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.next.Search(ctx, query, limit)
}
