package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Song is a track proposed by a language model. Nothing about it has been
// checked against a catalog yet.
type Song struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album,omitempty"`
}

// Valid reports whether title and artist are non-blank.
func (s Song) Valid() bool {
	return strings.TrimSpace(s.Title) != "" && strings.TrimSpace(s.Artist) != ""
}

func (s Song) String() string {
	return s.Artist + " - " + s.Title
}

type APIKeys struct {
	Groq       string
	OpenRouter string
	OpenAI     string
	Anthropic  string
	Google     string
}

type RankedSong struct {
	Song
	Votes int `json:"votes"`
}

var ErrNoProvider = errors.New("no ai provider configured")

// GenerationError is returned when the model call fails or its response
// does not match the expected songs schema.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("generate playlist: %v", e.Err)
	}
	return fmt.Sprintf("generate playlist (%s): %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
