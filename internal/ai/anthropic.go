package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-3-5-haiku-latest"

// anthropicClient is the Completer backed by the Anthropic Messages API.
type anthropicClient struct {
	model  string
	client anthropic.Client
}

// NewAnthropicClient returns a Completer that calls the Anthropic API.
//   - apiKey: your ANTHROPIC_API_KEY
//   - model:  e.g. "claude-3-5-haiku-latest"
func NewAnthropicClient(apiKey, model string, opts ...option.RequestOption) Completer {
	if strings.TrimSpace(model) == "" {
		model = DefaultAnthropicModel
	}
	base := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(apiKey)),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(requestTimeout),
	}
	return &anthropicClient{
		model:  strings.TrimSpace(model),
		client: anthropic.NewClient(append(base, opts...)...),
	}
}

// Complete sends one message and returns the text of the first text block.
func (c *anthropicClient) Complete(ctx context.Context, req Completion) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = planMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if strings.TrimSpace(req.System) != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("anthropic: API error %d: %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("anthropic: messages: %w", err)
	}

	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			return text.Text, nil
		}
	}
	return "", errors.New("anthropic: no text content in response")
}
