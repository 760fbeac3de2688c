package match

import (
	"fmt"

	"spotii/internal/ai"
)

// Stage is one search attempt in the cascade. Attempt is given the best
// score seen so far and reports whether the stage should run.
type Stage struct {
	Name    string
	Query   func(ai.Song) string
	Attempt func(best float64) bool
}

// Config holds the tunables of the engine. The zero value is not useful;
// start from DefaultConfig.
type Config struct {
	TitleWeight  float64 `toml:"title_weight"`
	ArtistWeight float64 `toml:"artist_weight"`

	// TitleOnlyBelow and FreeTextBelow gate the second and third stages.
	TitleOnlyBelow float64 `toml:"title_only_below"`
	FreeTextBelow  float64 `toml:"free_text_below"`
	// AcceptAbove is the score a best candidate must exceed to be kept.
	AcceptAbove float64 `toml:"accept_above"`

	CandidateLimit int `toml:"candidate_limit"`
	Workers        int `toml:"workers"`
}

func DefaultConfig() Config {
	return Config{
		TitleWeight:    0.6,
		ArtistWeight:   0.4,
		TitleOnlyBelow: 0.6,
		FreeTextBelow:  0.5,
		AcceptAbove:    0.4,
		CandidateLimit: 5,
		Workers:        4,
	}
}

func (c Config) Validate() error {
	if c.TitleWeight < 0 || c.ArtistWeight < 0 {
		return fmt.Errorf("match weights must not be negative")
	}
	if sum := c.TitleWeight + c.ArtistWeight; sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("match weights must sum to 1, got %.3f", sum)
	}
	for name, v := range map[string]float64{
		"title_only_below": c.TitleOnlyBelow,
		"free_text_below":  c.FreeTextBelow,
		"accept_above":     c.AcceptAbove,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("match %s must be within [0, 1], got %v", name, v)
		}
	}
	if c.CandidateLimit <= 0 {
		return fmt.Errorf("match candidate_limit must be positive")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("match workers must be positive")
	}
	return nil
}

// Stages is the search cascade: strict field query first, then title only,
// then free text.
func (c Config) Stages() []Stage {
	return []Stage{
		{
			Name:    "strict",
			Query:   func(s ai.Song) string { return "track:" + s.Title + " artist:" + s.Artist },
			Attempt: func(float64) bool { return true },
		},
		{
			Name:    "title",
			Query:   func(s ai.Song) string { return "track:" + s.Title },
			Attempt: func(best float64) bool { return best < c.TitleOnlyBelow },
		},
		{
			Name:    "freetext",
			Query:   func(s ai.Song) string { return s.Title + " " + s.Artist },
			Attempt: func(best float64) bool { return best < c.FreeTextBelow },
		},
	}
}
