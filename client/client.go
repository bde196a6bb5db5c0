package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/jonwraymond/netrepo/auth"
	"github.com/jonwraymond/netrepo/cache"
	"github.com/jonwraymond/netrepo/collapse"
	"github.com/jonwraymond/netrepo/httpcall"
	"github.com/jonwraymond/netrepo/observe"
	"github.com/jonwraymond/netrepo/repository"
	"github.com/jonwraymond/netrepo/secret"
)

// Client owns the shared pieces every repository of one API uses.
type Client struct {
	cfg       Config
	observer  observe.Observer
	inst      *observe.Instrumentation
	http      *httpcall.Client
	collapser *collapse.Collapser
	store     cache.Store
	resolver  *secret.Resolver

	ownsObserver bool
}

// Option customizes New.
type Option func(*options)

type options struct {
	httpClient *http.Client
	store      cache.Store
	resolver   *secret.Resolver
	decorators []auth.Decorator
	observer   observe.Observer
}

// WithHTTPClient sets the HTTP client used for API and token requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithStore replaces the default in-memory store.
func WithStore(s cache.Store) Option {
	return func(o *options) { o.store = s }
}

// WithResolver replaces the default secret resolver.
func WithResolver(r *secret.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithDecorators appends request decorators after the configured ones.
func WithDecorators(ds ...auth.Decorator) Option {
	return func(o *options) { o.decorators = append(o.decorators, ds...) }
}

// WithObserver uses obs instead of building one from Config.Observe. The
// Client does not shut down an observer it did not create.
func WithObserver(obs observe.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// New validates cfg and wires a Client.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{cfg: cfg, resolver: o.resolver}
	if c.resolver == nil {
		c.resolver = defaultResolver(cfg.Auth)
	}

	owned := o.observer == nil
	c.observer = o.observer
	c.ownsObserver = owned
	if owned {
		obs, err := observe.NewObserver(ctx, cfg.Observe)
		if err != nil {
			return nil, err
		}
		c.observer = obs
	}
	inst, err := observe.NewInstrumentation(c.observer)
	if err != nil {
		return nil, c.cleanup(ctx, owned, err)
	}
	c.inst = inst

	tokenCtx := context.WithoutCancel(ctx)
	if o.httpClient != nil {
		tokenCtx = context.WithValue(tokenCtx, oauth2.HTTPClient, o.httpClient)
	}
	decorators, err := buildDecorators(tokenCtx, cfg.Auth, c.resolver)
	if err != nil {
		return nil, c.cleanup(ctx, owned, err)
	}
	decorators = append(decorators, o.decorators...)

	httpOpts := []httpcall.Option{
		httpcall.WithTimeout(cfg.Timeout),
		httpcall.WithMaxInFlight(cfg.MaxInFlight),
		httpcall.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		httpcall.WithDecorators(decorators...),
		httpcall.WithLogger(inst.Logger),
	}
	if o.httpClient != nil {
		httpOpts = append(httpOpts, httpcall.WithHTTPClient(o.httpClient))
	}
	c.http, err = httpcall.NewClient(cfg.BaseURL, httpOpts...)
	if err != nil {
		return nil, c.cleanup(ctx, owned, err)
	}

	c.collapser = collapse.New(
		collapse.WithReadMethod(cfg.ReadMethod),
		collapse.WithInstrumentation(inst),
	)

	c.store = o.store
	if c.store == nil {
		c.store = cache.NewMemoryStore(cache.Policy{
			DefaultTTL: cfg.Cache.DefaultTTL,
			MaxTTL:     cfg.Cache.MaxTTL,
		})
	}
	return c, nil
}

func (c *Client) cleanup(ctx context.Context, owned bool, cause error) error {
	if !owned {
		return cause
	}
	return errors.Join(cause, c.observer.Shutdown(ctx))
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config { return c.cfg }

// HTTP returns the underlying httpcall client.
func (c *Client) HTTP() *httpcall.Client { return c.http }

// Collapser returns the shared call collapser.
func (c *Client) Collapser() *collapse.Collapser { return c.collapser }

// Store returns the shared cache store.
func (c *Client) Store() cache.Store { return c.store }

// Instrumentation returns the client's telemetry handles.
func (c *Client) Instrumentation() *observe.Instrumentation { return c.inst }

// Resolver returns the secret resolver used for credentials.
func (c *Client) Resolver() *secret.Resolver { return c.resolver }

// Shutdown flushes telemetry owned by the client.
func (c *Client) Shutdown(ctx context.Context) error {
	if !c.ownsObserver {
		return nil
	}
	return c.observer.Shutdown(ctx)
}

// NewCall creates an HTTP call against the client's API.
func NewCall[T any](ctx context.Context, c *Client, method, path string, body any) (*httpcall.Call[T], error) {
	return httpcall.NewCall[T](ctx, c.http, method, path, body)
}

// NewRepository creates a repository over the client's store whose calls go
// through the shared collapser. resource names the repository in telemetry.
func NewRepository[T any](c *Client, resource string, opts ...repository.Option) *repository.Repository[T, cache.Store] {
	base := []repository.Option{
		repository.WithDefaultPolicy(c.cfg.DefaultPolicy),
		repository.WithResource(resource),
		repository.WithInstrumentation(c.inst),
	}
	return repository.New[T, cache.Store](c.store, collapse.For[T](c.collapser), append(base, opts...)...)
}

func defaultResolver(cfg AuthConfig) *secret.Resolver {
	providers := []secret.Provider{secret.EnvProvider{}}
	if cfg.SecretDir != "" {
		providers = append(providers, secret.FileProvider{Dir: cfg.SecretDir})
	}
	return secret.NewResolver(true, providers...)
}

func buildDecorators(ctx context.Context, cfg AuthConfig, resolver *secret.Resolver) ([]auth.Decorator, error) {
	ds := []auth.Decorator{auth.JSONHeaders()}
	if len(cfg.Headers) > 0 {
		ds = append(ds, &auth.Headers{Values: cfg.Headers, Resolver: resolver, Override: true})
	}
	if cfg.APIKey != "" {
		ds = append(ds, auth.NewAPIKey(cfg.APIKeyHeader, cfg.APIKey, resolver))
	}
	if cfg.JWT.Key != "" {
		ds = append(ds, auth.NewJWTSigner(auth.JWTConfig{
			Key:      cfg.JWT.Key,
			Issuer:   cfg.JWT.Issuer,
			Subject:  cfg.JWT.Subject,
			Audience: cfg.JWT.Audience,
			TTL:      cfg.JWT.TTL,
		}, resolver))
	}
	if cfg.OAuth.TokenURL != "" {
		ts, err := auth.NewClientCredentials(ctx, auth.ClientCredentialsConfig{
			TokenURL:     cfg.OAuth.TokenURL,
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			Scopes:       cfg.OAuth.Scopes,
		}, resolver)
		if err != nil {
			return nil, fmt.Errorf("client: oauth2: %w", err)
		}
		ds = append(ds, ts)
	}
	return ds, nil
}
