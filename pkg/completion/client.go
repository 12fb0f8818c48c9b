// Package completion adapts free-text prompts into single-turn chat
// completion calls against the OpenAI backend.
package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/tgbridge/tgbridge/pkg/config"
)

// ErrMalformedResponse marks a backend reply that parsed as JSON but did not
// contain the expected first-choice message content.
var ErrMalformedResponse = errors.New("malformed completion response")

type Client struct {
	client openai.Client
	model  string
}

func NewClient(cfg config.OpenAIConfig, timeout time.Duration) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if cfg.APIBase != "" {
		opts = append(opts, option.WithBaseURL(cfg.APIBase))
	}

	return &Client{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

// Ask sends prompt as the sole user message of a single-turn chat completion
// and returns the first choice's content. There is no retry and no partial
// result: a transport failure or non-success status fails the call.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrMalformedResponse)
	}
	text := result.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty message content", ErrMalformedResponse)
	}
	return text, nil
}
