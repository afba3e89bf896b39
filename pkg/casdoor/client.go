package casdoor

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// Client is a Casdoor API client bound to one organization and application.
// It holds no mutable state after New returns and is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. The SDK sets no timeout
// of its own; use this or a context deadline to bound requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger pins the logger used for request logs. Without it the logger is
// taken from the request context (see slogx.FromContext).
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRateLimiter makes every request wait on l before it is sent.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// New creates a Client. The config is copied; later changes to cfg do not
// affect the client.
func New(cfg Config, opts ...Option) *Client {
	cfg.Endpoint = strings.TrimSuffix(cfg.Endpoint, "/")

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns a copy of the client's configuration.
func (c *Client) Config() Config { return c.cfg }

// ID returns the "{org}/{name}" identifier Casdoor uses for objects owned by
// the configured organization.
func (c *Client) ID(name string) string {
	return c.cfg.OrgName + "/" + name
}
