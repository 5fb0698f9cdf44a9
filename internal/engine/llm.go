package engine

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// LLM wraps the OpenAI-compatible completion client with metrics and fence stripping.
type LLM struct {
	client *llm.Client
}

// NewLLM builds the completion client from configuration.
func NewLLM(c Config) *LLM {
	return &LLM{
		client: llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
			llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
			llm.WithMaxTokens(c.LLMMaxTokens),
			llm.WithTemperature(c.LLMTemperature),
			llm.WithHTTPClient(&http.Client{Timeout: 120 * time.Second}),
		),
	}
}

// Complete sends a system instruction and a user prompt and returns the generated text.
func (l *LLM) Complete(ctx context.Context, system, prompt string) (string, error) {
	metrics.LLMCalls.Add(1)
	resp, err := l.client.Complete(ctx, system, prompt)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", err
	}
	return stripFences(resp), nil
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```markdown")
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
