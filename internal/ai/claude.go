package ai

import (
	"context"
	"errors"

	"github.com/liushuangls/go-anthropic/v2"
)

const defaultClaudeModel = "claude-sonnet-4-5"

type ClaudeCompleter struct {
	client *anthropic.Client
	model  string
}

func NewClaudeCompleter(apiKey, model, baseURL string) *ClaudeCompleter {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &ClaudeCompleter{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (c *ClaudeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:  anthropic.Model(c.model),
		System: system,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(user),
				},
			},
		},
		MaxTokens: 4096,
	})
	if err != nil {
		return "", err
	}
	for _, part := range resp.Content {
		if part.Text != nil && *part.Text != "" {
			return *part.Text, nil
		}
	}
	return "", errors.New("no content in response")
}
