package client

import (
	"fmt"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/jonwraymond/netrepo/observe"
	"github.com/jonwraymond/netrepo/repository"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "NETREPO_"

// Config holds the settings for a Client.
type Config struct {
	// BaseURL is the API root every call path is resolved against.
	BaseURL string `env:"BASE_URL"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`

	// MaxInFlight caps concurrent requests; 0 means unlimited.
	MaxInFlight int `env:"MAX_IN_FLIGHT" envDefault:"16"`

	// RateLimit is requests per second; 0 disables limiting.
	RateLimit float64 `env:"RATE_LIMIT"`
	RateBurst int     `env:"RATE_BURST" envDefault:"1"`

	// ReadMethod is the HTTP method whose calls are collapsed.
	ReadMethod string `env:"READ_METHOD" envDefault:"GET"`

	// DefaultPolicy is used by repositories when no policy is given.
	DefaultPolicy repository.Policy `env:"DEFAULT_POLICY" envDefault:"FIRST"`

	Cache   CacheConfig    `envPrefix:"CACHE_"`
	Auth    AuthConfig     `envPrefix:"AUTH_"`
	Observe observe.Config `envPrefix:"OBSERVE_"`
}

// CacheConfig configures the in-memory store.
type CacheConfig struct {
	DefaultTTL time.Duration `env:"DEFAULT_TTL"`
	MaxTTL     time.Duration `env:"MAX_TTL"`
}

// AuthConfig selects request decorators. Every credential value may be a
// literal, a ${VAR} reference or a secretref.
type AuthConfig struct {
	// Headers are extra headers sent with every request, as name:value pairs.
	Headers map[string]string `env:"HEADERS"`

	APIKey       string `env:"API_KEY"`
	APIKeyHeader string `env:"API_KEY_HEADER"`

	JWT   JWTConfig   `envPrefix:"JWT_"`
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// SecretDir enables the "file" secret provider rooted at this directory.
	SecretDir string `env:"SECRET_DIR"`
}

// JWTConfig configures self-signed bearer tokens.
type JWTConfig struct {
	Key      string        `env:"KEY"`
	Issuer   string        `env:"ISSUER"`
	Subject  string        `env:"SUBJECT"`
	Audience []string      `env:"AUDIENCE"`
	TTL      time.Duration `env:"TTL"`
}

// OAuthConfig configures the client credentials grant.
type OAuthConfig struct {
	TokenURL     string   `env:"TOKEN_URL"`
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	Scopes       []string `env:"SCOPES"`
}

// DefaultConfig returns a Config with defaults applied and no base URL.
func DefaultConfig() Config {
	return Config{
		Timeout:       30 * time.Second,
		MaxInFlight:   16,
		RateBurst:     1,
		ReadMethod:    http.MethodGet,
		DefaultPolicy: repository.DefaultPolicy,
		Observe: observe.Config{
			ServiceName: "netrepo",
			Logging:     observe.LoggingConfig{Level: "info"},
		},
	}
}

// LoadConfig reads a Config from NETREPO_* environment variables.
func LoadConfig() (Config, error) {
	return loadConfig(env.Options{Prefix: EnvPrefix})
}

func loadConfig(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("client: load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.Timeout < 0 || c.MaxInFlight < 0 || c.RateLimit < 0 || c.RateBurst < 0 {
		return ErrInvalidLimit
	}
	if !c.DefaultPolicy.Valid() {
		return fmt.Errorf("%w: %d", repository.ErrUnknownPolicy, c.DefaultPolicy)
	}
	if c.Cache.MaxTTL > 0 && c.Cache.DefaultTTL > c.Cache.MaxTTL {
		return ErrInvalidCacheTTLs
	}
	if c.Auth.JWT.Key != "" && c.Auth.OAuth.TokenURL != "" {
		return ErrAuthConflict
	}
	return c.Observe.Validate()
}
