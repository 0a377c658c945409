// Package ai wraps the language-model calls behind two interfaces: Completer,
// one chat completion against one provider, and Generator, the two narrative
// steps of an audit plan built on top of a Completer.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrGenerationFailed wraps every Generator failure.
var ErrGenerationFailed = errors.New("generation failed")

// Completion is one system + user prompt exchange.
type Completion struct {
	System      string
	Prompt      string
	MaxTokens   int64
	Temperature float64
}

// Completer sends a single completion request to a model provider and returns
// the text of the reply. Implementations must be safe for concurrent use.
type Completer interface {
	Complete(ctx context.Context, c Completion) (string, error)
}

// Generator produces the two narratives of an audit plan.
//
// A non-nil error always wraps ErrGenerationFailed. The planner treats an
// AnalyzeRisk failure as non-fatal and a GeneratePlan failure as fatal.
type Generator interface {
	AnalyzeRisk(ctx context.Context, prompt string) (string, error)
	GeneratePlan(ctx context.Context, prompt string) (string, error)
}

const (
	analysisMaxTokens = 1000
	planMaxTokens     = 2000
	temperature       = 0.7

	analystSystemPrompt = "You are a professional risk analyst with expertise in financial auditing."
	auditorSystemPrompt = "You are a professional financial auditor with expertise in various sectors and accounting standards."
)

// NarrativeGenerator is the Generator backed by a Completer.
type NarrativeGenerator struct {
	completer Completer
	logger    *slog.Logger
}

// NewGenerator returns a Generator that sends both steps to c.
func NewGenerator(c Completer, logger *slog.Logger) *NarrativeGenerator {
	return &NarrativeGenerator{completer: c, logger: logger}
}

// AnalyzeRisk asks the model to assess the collected risk signals.
func (g *NarrativeGenerator) AnalyzeRisk(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, "risk analysis", Completion{
		System:      analystSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   analysisMaxTokens,
		Temperature: temperature,
	})
}

// GeneratePlan asks the model for the audit plan narrative.
func (g *NarrativeGenerator) GeneratePlan(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, "audit plan", Completion{
		System:      auditorSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   planMaxTokens,
		Temperature: temperature,
	})
}

func (g *NarrativeGenerator) complete(ctx context.Context, step string, c Completion) (string, error) {
	start := time.Now()
	text, err := g.completer.Complete(ctx, c)
	if err != nil {
		return "", fmt.Errorf("ai: %s: %w: %w", step, ErrGenerationFailed, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("ai: %s: %w: empty response", step, ErrGenerationFailed)
	}

	g.logger.Debug("ai: completion finished",
		"step", step,
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
