package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errNotJSON = errors.New("response is not valid json")

// ParseSongs validates a model response against the songs schema: a JSON
// object with a "songs" array (a bare array is accepted too) whose entries
// carry string title, artist and optional album. Prose or code fences
// around the JSON are ignored. Entries with a blank title or artist are
// dropped; any other schema violation is an error.
func ParseSongs(text string) ([]Song, error) {
	text = strings.TrimSpace(text)
	for _, raw := range jsonCandidates(text) {
		if json.Valid([]byte(raw)) {
			return decodeSongs(raw)
		}
	}
	return nil, errNotJSON
}

func jsonCandidates(text string) []string {
	out := []string{text}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		out = append(out, text[start:end+1])
	}
	if start, end := strings.Index(text, "["), strings.LastIndex(text, "]"); start >= 0 && end > start {
		out = append(out, text[start:end+1])
	}
	return out
}

func decodeSongs(raw string) ([]Song, error) {
	var top any
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return nil, err
	}

	var items []any
	switch v := top.(type) {
	case map[string]any:
		songs, ok := v["songs"]
		if !ok {
			return nil, errors.New(`response has no "songs" array`)
		}
		arr, ok := songs.([]any)
		if !ok {
			return nil, errors.New(`"songs" is not an array`)
		}
		items = arr
	case []any:
		items = v
	default:
		return nil, errors.New("response is neither an object nor an array")
	}

	out := make([]Song, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("songs[%d] is not an object", i)
		}
		title, err := stringField(obj, "title", i)
		if err != nil {
			return nil, err
		}
		artist, err := stringField(obj, "artist", i)
		if err != nil {
			return nil, err
		}
		album, err := stringField(obj, "album", i)
		if err != nil {
			return nil, err
		}
		song := Song{Title: title, Artist: artist, Album: album}
		if !song.Valid() {
			continue
		}
		out = append(out, song)
	}
	return out, nil
}

func stringField(obj map[string]any, key string, index int) (string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("songs[%d].%s must be a string", index, key)
	}
	return strings.TrimSpace(s), nil
}
