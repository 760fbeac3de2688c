package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCriteriaCount(t *testing.T) {
	assert.Equal(t, 12, Criteria{TrackCount: 12}.Count())
	assert.Equal(t, 9, Criteria{}.Count(), "30 minutes at 3.5 minutes per song")
	assert.Equal(t, 18, Criteria{Duration: 60}.Count())
	assert.Equal(t, 5, Criteria{Duration: 60, TrackCount: 5}.Count())
}

func TestCriteriaUserPrompt_FreeText(t *testing.T) {
	p := Criteria{Prompt: "  telugu monsoon songs  ", TrackCount: 7, Mood: "ignored"}.UserPrompt()

	assert.Contains(t, p, `"telugu monsoon songs"`)
	assert.Contains(t, p, "Return EXACTLY 7 songs")
	assert.NotContains(t, p, "Mood/Vibe")
}

func TestCriteriaUserPrompt_Structured(t *testing.T) {
	p := Criteria{
		Mood:       "chill",
		Genre:      "lofi",
		Languages:  []string{"English", "Hindi"},
		Energy:     30,
		Era:        "2010s",
		TrackCount: 10,
	}.UserPrompt()

	assert.Contains(t, p, "- Mood/Vibe: chill")
	assert.Contains(t, p, "- Genre: lofi")
	assert.Contains(t, p, "- Languages: English, Hindi")
	assert.Contains(t, p, "- Energy Level: 30/100")
	assert.Contains(t, p, "- Era: 2010s")
	assert.Contains(t, p, "- Length: Approximately 10 songs")
	assert.NotContains(t, p, "Tempo")
	assert.NotContains(t, p, "Popularity")
}

func TestCriteriaEmpty(t *testing.T) {
	assert.True(t, Criteria{}.Empty())
	assert.True(t, Criteria{Prompt: "   "}.Empty())
	assert.False(t, Criteria{Mood: "happy"}.Empty())
	assert.False(t, Criteria{Prompt: "rainy day"}.Empty())
}
