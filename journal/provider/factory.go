package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/theimaginaryfoundation/psych-extract/insight"
)

// Analyzer scores emotions and extracts themes from entry text.
type Analyzer interface {
	Classify(ctx context.Context, text string) (insight.EmotionDistribution, error)
	ExtractThemes(ctx context.Context, text string) ([]string, error)
}

// AnalyzerConfig selects and configures an Analyzer backend.
type AnalyzerConfig struct {
	Provider  string
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Flex      bool
	Retrier   Retrier
}

// DefaultModel returns the model used when none is configured for a provider.
func DefaultModel(provider string) string {
	switch NormalizeProvider(provider) {
	case "anthropic":
		return "claude-3-5-haiku-latest"
	case "cohere":
		return "command"
	default:
		return "gpt-5-mini"
	}
}

// APIKeyEnv names the environment variable holding a provider's API key.
func APIKeyEnv(provider string) string {
	switch NormalizeProvider(provider) {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "cohere":
		return "CO_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// NewAnalyzer returns the backend named by cfg.Provider.
func NewAnalyzer(cfg AnalyzerConfig) (Analyzer, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	switch NormalizeProvider(cfg.Provider) {
	case "openai":
		return NewOpenAI(OpenAIConfig{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Model: cfg.Model, Flex: cfg.Flex, Retrier: cfg.Retrier}), nil
	case "anthropic":
		return NewAnthropic(cfg), nil
	case "cohere":
		return NewCohere(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider %q (want openai, anthropic or cohere)", cfg.Provider)
	}
}

// ValidProvider reports whether name selects a known backend.
func ValidProvider(name string) bool {
	switch NormalizeProvider(name) {
	case "openai", "anthropic", "cohere":
		return true
	}
	return false
}

// NormalizeProvider maps a provider name to its canonical form: empty selects
// openai and claude is an alias of anthropic. Unknown names are lowercased.
func NormalizeProvider(name string) string {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "", "openai":
		return "openai"
	case "claude", "anthropic":
		return "anthropic"
	default:
		return n
	}
}
