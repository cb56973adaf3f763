package source

import (
	"net/http"
	"time"

	"github.com/nguyentantai21042004/newsreel/internal/logger"
	"github.com/nguyentantai21042004/newsreel/internal/retry"
)

const defaultTimeout = 30 * time.Second

// client bundles what every network-facing source component needs.
type client struct {
	http     *http.Client
	policy   retry.Policy
	logger   logger.Logger
	endpoint string
}

// Option customizes a crawler or extractor.
type Option func(*client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *client) {
		if c != nil {
			cl.http = c
		}
	}
}

func WithRetryPolicy(p retry.Policy) Option {
	return func(cl *client) {
		cl.policy = p
	}
}

func WithLogger(log logger.Logger) Option {
	return func(cl *client) {
		if log != nil {
			cl.logger = log
		}
	}
}

// WithEndpoint overrides the listing URL of a crawler.
func WithEndpoint(url string) Option {
	return func(cl *client) {
		if url != "" {
			cl.endpoint = url
		}
	}
}

func newClient(endpoint string, opts []Option) client {
	cl := client{
		http:     &http.Client{Timeout: defaultTimeout},
		policy:   retry.Default(),
		logger:   logger.Nop(),
		endpoint: endpoint,
	}
	for _, opt := range opts {
		opt(&cl)
	}
	return cl
}
