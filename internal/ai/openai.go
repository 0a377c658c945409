package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-3.5-turbo"

const requestTimeout = 90 * time.Second

// openAIClient is the Completer backed by the chat completions API. It also
// serves OpenAI-compatible providers reached through a different base URL.
type openAIClient struct {
	name   string
	model  string
	client openai.Client
}

// NewOpenAIClient returns a Completer that calls the OpenAI API.
//   - apiKey: your OPENAI_API_KEY
//   - model:  e.g. "gpt-3.5-turbo"; empty uses DefaultOpenAIModel
//
// Extra request options (a base URL for tests, an HTTP client) are appended
// after the defaults.
func NewOpenAIClient(apiKey, model string, opts ...option.RequestOption) Completer {
	if strings.TrimSpace(model) == "" {
		model = DefaultOpenAIModel
	}
	return newOpenAICompatible("openai", apiKey, model, opts...)
}

func newOpenAICompatible(name, apiKey, model string, opts ...option.RequestOption) *openAIClient {
	base := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(apiKey)),
		// Generation is not retried; a failure goes to the fallback chain.
		option.WithMaxRetries(0),
		option.WithRequestTimeout(requestTimeout),
	}
	return &openAIClient{
		name:   name,
		model:  strings.TrimSpace(model),
		client: openai.NewClient(append(base, opts...)...),
	}
}

// Complete sends one chat completion and returns the first choice's content.
func (c *openAIClient) Complete(ctx context.Context, req Completion) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%s: API error %d: %w", c.name, apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("%s: chat completion: %w", c.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices in response", c.name)
	}
	return resp.Choices[0].Message.Content, nil
}
