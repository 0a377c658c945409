package ai

import (
	"strings"

	"github.com/openai/openai-go/option"
)

const (
	// DeepSeekBaseURL is DeepSeek's OpenAI-compatible endpoint.
	DeepSeekBaseURL = "https://api.deepseek.com/v1"

	// DefaultDeepSeekModel is used when no model is configured.
	DefaultDeepSeekModel = "deepseek-chat"
)

// NewDeepSeekClient returns a Completer that calls the DeepSeek API.
// DeepSeek exposes an OpenAI-compatible /chat/completions endpoint, so the
// request and response shapes are the OpenAI ones.
//   - apiKey: your DEEPSEEK_API_KEY
//   - model:  e.g. "deepseek-chat" or "deepseek-reasoner"
func NewDeepSeekClient(apiKey, model string, opts ...option.RequestOption) Completer {
	if strings.TrimSpace(model) == "" {
		model = DefaultDeepSeekModel
	}
	opts = append([]option.RequestOption{option.WithBaseURL(DeepSeekBaseURL)}, opts...)
	return newOpenAICompatible("deepseek", apiKey, model, opts...)
}
