package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b     string
		expected float64
	}{
		{"", "", 1.0},
		{"", "x", 0.0},
		{"x", "", 0.0},
		{"shape of you", "shape of you", 1.0},
		{"kitten", "sitting", 4.0 / 7.0},
		{"abc", "xyz", 0.0},
		{"abcd", "abcx", 0.75},
		{"café", "cafe", 0.75},
		{"Ed", "ed", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"Shape of You", "Shape Of You (Acoustic)"},
		{"", "abc"},
		{"ノルウェイの森", "ノルウェー"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestSimilarity_Range(t *testing.T) {
	words := []string{"", "a", "bohemian rhapsody", "queen", "Bohemian Rhapsody - Remastered 2011"}
	for _, a := range words {
		for _, b := range words {
			s := Similarity(a, b)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
			if a == b {
				assert.Equal(t, 1.0, s)
			}
		}
	}
}
