package scoring

import (
	"context"
	"fmt"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderHeuristic = "heuristic"
)

// Engine scores a resume text, optionally against a job description. Analyze
// never returns an error: provider failures and unparseable model output are
// absorbed into the returned report.
type Engine interface {
	Analyze(ctx context.Context, resumeText string, jobDescription string) Report
	Provider() string
}

// Config carries the provider credentials resolved once at process start.
// Engines never read the environment themselves.
type Config struct {
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string
}

// KnownProvider reports whether a selector names a supported engine.
func KnownProvider(provider string) bool {
	switch provider {
	case ProviderOpenAI, ProviderGemini, ProviderHeuristic:
		return true
	}
	return false
}

// New constructs the engine for the given provider selector. Unknown
// selectors and missing credentials are rejected here, at construction, so a
// misconfigured worker fails fast instead of producing error reports.
func New(ctx context.Context, cfg Config, provider string) (Engine, error) {
	switch provider {
	case ProviderOpenAI:
		return newOpenAIEngine(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case ProviderGemini:
		return newGeminiEngine(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case ProviderHeuristic:
		return HeuristicEngine{}, nil
	default:
		return nil, fmt.Errorf("unsupported analysis provider: %q", provider)
	}
}
