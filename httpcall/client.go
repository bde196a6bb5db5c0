package httpcall

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/jonwraymond/netrepo/auth"
	"github.com/jonwraymond/netrepo/observe"
)

// DefaultMaxErrorBody bounds how much of a non-2xx body is kept.
const DefaultMaxErrorBody = 64 << 10

// Client sends calls to a single base URL.
type Client struct {
	base         *url.URL
	http         *http.Client
	decorator    auth.Decorator
	sem          *semaphore.Weighted
	limiter      *rate.Limiter
	logger       observe.Logger
	maxErrorBody int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets a per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d, Transport: c.http.Transport}
		}
	}
}

// WithDecorators appends request decorators.
func WithDecorators(ds ...auth.Decorator) Option {
	return func(c *Client) {
		c.decorator = auth.Chain(append([]auth.Decorator{c.decorator}, ds...)...)
	}
}

// WithMaxInFlight limits concurrent requests. n <= 0 means unlimited.
func WithMaxInFlight(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithRateLimit limits requests to r per second with the given burst.
// r <= 0 disables limiting.
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) {
		if r <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l observe.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxErrorBody bounds the bytes kept from non-2xx bodies.
func WithMaxErrorBody(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxErrorBody = n
		}
	}
}

// NewClient creates a client for baseURL, which must be absolute.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBaseURL, baseURL)
	}

	c := &Client{
		base:         u,
		http:         &http.Client{Timeout: 30 * time.Second},
		logger:       observe.NopLogger(),
		maxErrorBody: DefaultMaxErrorBody,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the client's base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Resolve joins ref onto the base URL. Absolute references are returned
// unchanged.
func (c *Client) Resolve(ref string) (string, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if r.IsAbs() {
		return r.String(), nil
	}
	joined := c.base.JoinPath(r.Path)
	joined.RawQuery = r.RawQuery
	return joined.String(), nil
}

// acquire blocks for an in-flight slot and a rate token. The returned release
// must be called once the request completes.
func (c *Client) acquire(ctx context.Context) (func(), error) {
	release := func() {}
	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		release = func() { c.sem.Release(1) }
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			release()
			return nil, err
		}
	}
	return release, nil
}
