package llm

import (
	"context"
	"fmt"

	"github.com/learnanything/server/internal/config"
)

// New creates the Generator selected by configuration.
func New(ctx context.Context, cfg config.Config) (Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.LLMModel)
	case config.ProviderGemini:
		return NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.LLMProvider)
	}
}
