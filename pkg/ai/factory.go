package ai

import (
	"fmt"

	"mailboard-backend/pkg/gemini"
)

// Config holds the settings needed to construct a summarizer.
type Config struct {
	Provider     ProviderType
	GeminiAPIKey string
}

// NewSummarizerService builds a SummarizerService for the configured provider.
func NewSummarizerService(cfg Config) (SummarizerService, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider requires GEMINI_API_KEY")
		}
		return gemini.NewGeminiService(cfg.GeminiAPIKey), nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", cfg.Provider)
	}
}
