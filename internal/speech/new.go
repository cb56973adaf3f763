package speech

import (
	"net/http"
	"time"

	"github.com/nguyentantai21042004/newsreel/internal/logger"
	"github.com/nguyentantai21042004/newsreel/internal/retry"
)

const (
	defaultModel   = "qwen-tts"
	defaultVoice   = "Serena"
	defaultTimeout = 60 * time.Second
)

// Config describes the DashScope text-to-speech endpoint.
type Config struct {
	URL    string
	APIKey string
	Model  string
	Voice  string
}

// Synthesizer turns sentences into WAV segments through DashScope qwen-tts.
type Synthesizer struct {
	cfg    Config
	http   *http.Client
	policy retry.Policy
	logger logger.Logger
}

// Option customizes the synthesizer.
type Option func(*Synthesizer)

func WithHTTPClient(client *http.Client) Option {
	return func(s *Synthesizer) {
		if client != nil {
			s.http = client
		}
	}
}

func WithRetryPolicy(p retry.Policy) Option {
	return func(s *Synthesizer) {
		s.policy = p
	}
}

func WithLogger(log logger.Logger) Option {
	return func(s *Synthesizer) {
		if log != nil {
			s.logger = log
		}
	}
}

// New creates a Synthesizer. Missing model and voice fall back to qwen-tts / Serena.
func New(cfg Config, opts ...Option) *Synthesizer {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Voice == "" {
		cfg.Voice = defaultVoice
	}
	s := &Synthesizer{
		cfg:    cfg,
		http:   &http.Client{Timeout: defaultTimeout},
		policy: retry.Default(),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
