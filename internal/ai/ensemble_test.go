package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsemble_RankByVotes(t *testing.T) {
	e := &Ensemble{Members: []*ModelGenerator{
		{Provider: "a", Completer: &fakeCompleter{reply: `{"songs":[
			{"title":"One","artist":"X"},
			{"title":"Two","artist":"Y"}]}`}},
		{Provider: "b", Completer: &fakeCompleter{reply: `{"songs":[
			{"title":"two","artist":"y"},
			{"title":"Three","artist":"Z"}]}`}},
		{Provider: "c", Completer: &fakeCompleter{err: errors.New("rate limited")}},
	}}

	ranked, err := e.Rank(context.Background(), Criteria{Mood: "any"})
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "Two", ranked[0].Title)
	assert.Equal(t, 2, ranked[0].Votes)
	assert.Equal(t, "One", ranked[1].Title)
	assert.Equal(t, "Three", ranked[2].Title)
}

func TestEnsemble_GenerateTrimsToCount(t *testing.T) {
	e := &Ensemble{Members: []*ModelGenerator{
		{Provider: "a", Completer: &fakeCompleter{reply: `[{"title":"One","artist":"X"},{"title":"Two","artist":"Y"}]`}},
	}}

	songs, err := e.Generate(context.Background(), Criteria{Mood: "any", TrackCount: 1})
	require.NoError(t, err)
	assert.Equal(t, []Song{{Title: "One", Artist: "X"}}, songs)
}

func TestEnsemble_AllFail(t *testing.T) {
	boom := errors.New("boom")
	e := &Ensemble{Members: []*ModelGenerator{
		{Provider: "a", Completer: &fakeCompleter{err: boom}},
	}}

	_, err := e.Generate(context.Background(), Criteria{Mood: "any"})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.ErrorIs(t, err, boom)
}
