package auth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/jonwraymond/netrepo/secret"
)

// TokenSource sets the Authorization header from an oauth2.TokenSource.
type TokenSource struct {
	src oauth2.TokenSource
}

// NewTokenSource wraps src. Tokens are reused until they expire.
func NewTokenSource(src oauth2.TokenSource) *TokenSource {
	return &TokenSource{src: oauth2.ReuseTokenSource(nil, src)}
}

// ClientCredentialsConfig configures the OAuth2 client credentials grant.
type ClientCredentialsConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string // may be a secret reference
	Scopes       []string
}

// NewClientCredentials resolves the client secret and returns a decorator
// that fetches tokens with the client credentials grant. ctx controls the
// token requests; its HTTP client may be set with oauth2.HTTPClient.
func NewClientCredentials(ctx context.Context, config ClientCredentialsConfig, resolver *secret.Resolver) (*TokenSource, error) {
	if config.TokenURL == "" || config.ClientID == "" {
		return nil, ErrMissingCredentials
	}
	clientSecret, err := resolver.ResolveValue(ctx, config.ClientSecret)
	if err != nil {
		return nil, fmt.Errorf("auth: client secret: %w", err)
	}
	cc := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: clientSecret,
		TokenURL:     config.TokenURL,
		Scopes:       config.Scopes,
	}
	return NewTokenSource(cc.TokenSource(ctx)), nil
}

// Decorate sets the header for the current token.
func (t *TokenSource) Decorate(_ context.Context, req *http.Request) error {
	token, err := t.src.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTokenUnavailable, err)
	}
	token.SetAuthHeader(req)
	return nil
}
