package visual

import (
	"net/http"
	"time"

	"github.com/nguyentantai21042004/newsreel/internal/logger"
	"github.com/nguyentantai21042004/newsreel/internal/retry"
)

const defaultDownloadTimeout = 30 * time.Second

// Composer turns material pictures into a silent slideshow video.
type Composer struct {
	tool   SequenceTool
	http   *http.Client
	policy retry.Policy
	logger logger.Logger
}

// Option customizes the composer.
type Option func(*Composer)

// WithHTTPClient overrides the client used to download pictures.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Composer) {
		if client != nil {
			c.http = client
		}
	}
}

// WithRetryPolicy overrides the download retry policy.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Composer) {
		c.policy = p
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Composer) {
		if log != nil {
			c.logger = log
		}
	}
}

// NewComposer creates a Composer that renders through tool.
func NewComposer(tool SequenceTool, opts ...Option) *Composer {
	c := &Composer{
		tool:   tool,
		http:   &http.Client{Timeout: defaultDownloadTimeout},
		policy: retry.Default(),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
