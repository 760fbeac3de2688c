package ai

import (
	"fmt"
	"math"
	"strings"
)

const (
	defaultDurationMinutes = 30
	minutesPerSong         = 3.5
)

const systemPrompt = "You are a music expert who creates perfect playlists. " +
	"Always respond with valid JSON matching the requested schema. " +
	"When a specific language is requested, you MUST return songs in ONLY that language."

// Criteria describes the playlist to generate. Prompt wins over the
// structured fields when it is non-blank.
type Criteria struct {
	Prompt          string   `json:"prompt,omitempty"`
	Mood            string   `json:"mood,omitempty"`
	Genre           string   `json:"genre,omitempty"`
	Languages       []string `json:"languages,omitempty"`
	Activity        string   `json:"activity,omitempty"`
	Energy          int      `json:"energy,omitempty"`
	Tempo           string   `json:"tempo,omitempty"`
	Popularity      int      `json:"popularity,omitempty"`
	VocalPreference string   `json:"vocalPreference,omitempty"`
	Era             string   `json:"era,omitempty"`
	ExplicitContent string   `json:"explicitContent,omitempty"`
	Duration        int      `json:"duration,omitempty"`
	TrackCount      int      `json:"trackCount,omitempty"`
}

// Count is the number of songs to ask for: TrackCount when set, otherwise
// derived from the playlist duration in minutes.
func (c Criteria) Count() int {
	if c.TrackCount > 0 {
		return c.TrackCount
	}
	duration := c.Duration
	if duration <= 0 {
		duration = defaultDurationMinutes
	}
	return int(math.Ceil(float64(duration) / minutesPerSong))
}

func (c Criteria) UserPrompt() string {
	count := c.Count()
	if p := strings.TrimSpace(c.Prompt); p != "" {
		return fmt.Sprintf(`Create a music playlist based on this request: %q

Return EXACTLY %d songs that match this request.

IMPORTANT: Pay close attention to:
- The language requested (e.g., Telugu, Hindi, Tamil, etc.)
- The mood/vibe/occasion described
- Return songs that EXACTLY match the requested language

Return a JSON object with a "songs" array. Each song should have:
- title (string) - in the original language
- artist (string)
- album (string, optional)

Only return real, existing songs that perfectly match this request.`, p, count)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "- Mood/Vibe: %s\n", c.Mood)
	if c.Genre != "" {
		fmt.Fprintf(&b, "- Genre: %s\n", c.Genre)
	}
	if len(c.Languages) > 0 {
		fmt.Fprintf(&b, "- Languages: %s\n", strings.Join(c.Languages, ", "))
	}
	if c.Activity != "" {
		fmt.Fprintf(&b, "- Activity/Occasion: %s\n", c.Activity)
	}
	if c.Energy > 0 {
		fmt.Fprintf(&b, "- Energy Level: %d/100 (0=Calm, 100=Energetic)\n", c.Energy)
	}
	if c.Tempo != "" {
		fmt.Fprintf(&b, "- Tempo: %s\n", c.Tempo)
	}
	if c.Popularity > 0 {
		fmt.Fprintf(&b, "- Popularity: %d/100 (0=Hidden Gems, 100=Mainstream Hits)\n", c.Popularity)
	}
	if c.VocalPreference != "" {
		fmt.Fprintf(&b, "- Vocal Type: %s\n", c.VocalPreference)
	}
	if c.Era != "" {
		fmt.Fprintf(&b, "- Era: %s\n", c.Era)
	}
	if c.ExplicitContent != "" {
		fmt.Fprintf(&b, "- Explicit Content: %s\n", c.ExplicitContent)
	}
	fmt.Fprintf(&b, "- Length: Approximately %d songs\n", count)

	return fmt.Sprintf(`Create a music playlist with the following criteria:
%s
Return a JSON object with a "songs" array. Each song should have:
- title (string)
- artist (string)
- album (string, optional)

Only return real, existing songs that fit this vibe perfectly. Ensure the songs match the requested languages and genres.`, b.String())
}

// Empty reports whether neither a prompt nor a mood was given.
func (c Criteria) Empty() bool {
	return strings.TrimSpace(c.Prompt) == "" && strings.TrimSpace(c.Mood) == "" && strings.TrimSpace(c.Genre) == ""
}
