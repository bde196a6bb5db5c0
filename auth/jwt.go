package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/netrepo/secret"
)

// JWTConfig configures a JWTSigner.
type JWTConfig struct {
	// Key is the HMAC signing key. It may be a secret reference.
	Key string

	// Issuer is the iss claim.
	Issuer string

	// Subject is the sub claim.
	Subject string

	// Audience is the aud claim.
	Audience []string

	// TTL is the token lifetime.
	// Default: 15 minutes
	TTL time.Duration

	// Leeway is how long before expiry a token is replaced.
	// Default: 30 seconds
	Leeway time.Duration

	// Claims are extra claims added to every token.
	Claims map[string]any
}

// JWTSigner mints HS256 bearer tokens and sets the Authorization header.
// A minted token is reused until it is within Leeway of expiry.
type JWTSigner struct {
	config   JWTConfig
	resolver *secret.Resolver
	now      func() time.Time

	mu      sync.RWMutex
	token   string
	expires time.Time
	group   singleflight.Group
}

// NewJWTSigner creates a signer. The key is resolved on first use.
func NewJWTSigner(config JWTConfig, resolver *secret.Resolver) *JWTSigner {
	if config.TTL <= 0 {
		config.TTL = 15 * time.Minute
	}
	if config.Leeway <= 0 {
		config.Leeway = 30 * time.Second
	}
	if config.Leeway >= config.TTL {
		config.Leeway = config.TTL / 2
	}
	return &JWTSigner{config: config, resolver: resolver, now: time.Now}
}

// Decorate sets "Authorization: Bearer <token>".
func (s *JWTSigner) Decorate(ctx context.Context, req *http.Request) error {
	token, err := s.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// Token returns a valid token, minting a new one when needed. Concurrent
// callers share a single mint.
func (s *JWTSigner) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	token, expires := s.token, s.expires
	s.mu.RUnlock()
	if token != "" && s.now().Add(s.config.Leeway).Before(expires) {
		return token, nil
	}

	v, err, _ := s.group.Do("mint", func() (any, error) {
		return s.mint(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *JWTSigner) mint(ctx context.Context) (string, error) {
	key, err := s.resolver.ResolveValue(ctx, s.config.Key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigningKey, err)
	}
	if key == "" {
		return "", ErrSigningKey
	}

	now := s.now()
	expires := now.Add(s.config.TTL)
	claims := jwt.MapClaims{}
	for k, v := range s.config.Claims {
		claims[k] = v
	}
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(expires)
	if s.config.Issuer != "" {
		claims["iss"] = s.config.Issuer
	}
	if s.config.Subject != "" {
		claims["sub"] = s.config.Subject
	}
	if len(s.config.Audience) > 0 {
		claims["aud"] = jwt.ClaimStrings(s.config.Audience)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}

	s.mu.Lock()
	s.token, s.expires = signed, expires
	s.mu.Unlock()
	return signed, nil
}
