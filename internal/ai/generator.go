package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const (
	ProviderGroq       = "groq"
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderClaude     = "claude"
	ProviderGemini     = "gemini"
	ProviderAll        = "all"
)

// Completer sends one system + user prompt pair to a model and returns the
// raw text of its reply.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Generator interface {
	Generate(ctx context.Context, c Criteria) ([]Song, error)
}

// ModelGenerator turns criteria into a prompt, asks a single model and
// validates the reply.
type ModelGenerator struct {
	Provider  string
	Completer Completer
}

func (g *ModelGenerator) Generate(ctx context.Context, c Criteria) ([]Song, error) {
	text, err := g.Completer.Complete(ctx, systemPrompt, c.UserPrompt())
	if err != nil {
		return nil, &GenerationError{Provider: g.Provider, Err: err}
	}
	songs, err := ParseSongs(text)
	if err != nil {
		return nil, &GenerationError{Provider: g.Provider, Err: err}
	}
	slog.Debug("generated songs", "provider", g.Provider, "count", len(songs))
	return songs, nil
}

type Options struct {
	Keys     APIKeys
	Provider string
	Model    string
	// Referer is sent to OpenRouter as HTTP-Referer.
	Referer string
}

// SelectProvider picks the provider to use. An explicit choice is kept as
// long as its key is configured; otherwise Groq is preferred, then
// OpenRouter, then whichever remaining key is set.
func SelectProvider(keys APIKeys, requested string) (string, error) {
	requested = strings.ToLower(strings.TrimSpace(requested))
	if requested != "" {
		if requested == ProviderAll {
			if len(configuredProviders(keys)) == 0 {
				return "", ErrNoProvider
			}
			return ProviderAll, nil
		}
		if keyFor(keys, requested) == "" {
			return "", fmt.Errorf("%w: no api key for %s", ErrNoProvider, requested)
		}
		return requested, nil
	}
	configured := configuredProviders(keys)
	if len(configured) == 0 {
		return "", ErrNoProvider
	}
	return configured[0], nil
}

func configuredProviders(keys APIKeys) []string {
	out := []string{}
	for _, p := range []string{ProviderGroq, ProviderOpenRouter, ProviderOpenAI, ProviderClaude, ProviderGemini} {
		if keyFor(keys, p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func keyFor(keys APIKeys, provider string) string {
	switch provider {
	case ProviderGroq:
		return keys.Groq
	case ProviderOpenRouter:
		return keys.OpenRouter
	case ProviderOpenAI:
		return keys.OpenAI
	case ProviderClaude:
		return keys.Anthropic
	case ProviderGemini:
		return keys.Google
	default:
		return ""
	}
}

// NewGenerator builds the generator for opts.Provider (see SelectProvider).
func NewGenerator(opts Options) (Generator, error) {
	provider, err := SelectProvider(opts.Keys, opts.Provider)
	if err != nil {
		return nil, err
	}
	if provider != ProviderAll {
		return newModelGenerator(provider, opts.Model, opts)
	}
	members := []*ModelGenerator{}
	for _, p := range configuredProviders(opts.Keys) {
		g, err := newModelGenerator(p, "", opts)
		if err != nil {
			return nil, err
		}
		members = append(members, g)
	}
	return &Ensemble{Members: members}, nil
}

func newModelGenerator(provider, model string, opts Options) (*ModelGenerator, error) {
	key := keyFor(opts.Keys, provider)
	var c Completer
	switch provider {
	case ProviderGroq:
		c = NewOpenAICompleter(key, groqBaseURL, firstNonEmpty(model, defaultGroqModel), nil)
	case ProviderOpenRouter:
		headers := map[string]string{"X-Title": "Spotii - AI Playlist Generator"}
		if opts.Referer != "" {
			headers["HTTP-Referer"] = opts.Referer
		}
		c = NewOpenAICompleter(key, openRouterBaseURL, firstNonEmpty(model, defaultOpenRouterModel), headers)
	case ProviderOpenAI:
		c = NewOpenAICompleter(key, "", firstNonEmpty(model, defaultOpenAIModel), nil)
	case ProviderClaude:
		c = NewClaudeCompleter(key, firstNonEmpty(model, defaultClaudeModel), "")
	case ProviderGemini:
		c = NewGeminiCompleter(key, firstNonEmpty(model, defaultGeminiModel))
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", provider)
	}
	return &ModelGenerator{Provider: provider, Completer: c}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
