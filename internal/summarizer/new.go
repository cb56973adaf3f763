package summarizer

import (
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nguyentantai21042004/newsreel/internal/logger"
	"github.com/nguyentantai21042004/newsreel/internal/retry"
)

const (
	defaultOpenAIModel = "deepseek-chat"
	defaultGeminiModel = "gemini-2.5-flash"
)

// Config selects and configures a backend.
type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKeys  []string
	// Retry bounds Gemini retries. The OpenAI client retries on its own.
	Retry retry.Policy
}

// New creates the Summarizer for cfg.Provider ("openai" or "gemini").
func New(cfg Config, log logger.Logger) (Summarizer, error) {
	if log == nil {
		log = logger.Nop()
	}
	if len(cfg.APIKeys) == 0 {
		return nil, fmt.Errorf("summarizer %s: no api key", cfg.Provider)
	}

	switch cfg.Provider {
	case "gemini":
		if cfg.Model == "" {
			cfg.Model = defaultGeminiModel
		}
		return newGemini(cfg.APIKeys, cfg.Model, cfg.Retry, log), nil
	case "openai", "":
		if cfg.Model == "" {
			cfg.Model = defaultOpenAIModel
		}
		opts := []option.RequestOption{option.WithAPIKey(cfg.APIKeys[0])}
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
		return newOpenAI(openai.NewClient(opts...), cfg.Model, log), nil
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", cfg.Provider)
	}
}
