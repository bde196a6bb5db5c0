package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestClientCredentials(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		if got := r.Form.Get("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q, want client_credentials", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	d, err := NewClientCredentials(ctx, ClientCredentialsConfig{
		TokenURL:     srv.URL,
		ClientID:     "client",
		ClientSecret: "secretref:vault:api",
		Scopes:       []string{"read"},
	}, testResolver())
	if err != nil {
		t.Fatalf("NewClientCredentials() error = %v", err)
	}

	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if err := d.Decorate(ctx, req); err != nil {
			t.Fatalf("Decorate() error = %v", err)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q, want Bearer tok-1", got)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("token endpoint hits = %d, want 1", got)
	}
}

func TestClientCredentials_TokenError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	d, err := NewClientCredentials(context.Background(), ClientCredentialsConfig{
		TokenURL: srv.URL,
		ClientID: "client",
	}, nil)
	if err != nil {
		t.Fatalf("NewClientCredentials() error = %v", err)
	}
	err = d.Decorate(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !errors.Is(err, ErrTokenUnavailable) {
		t.Errorf("Decorate() error = %v, want %v", err, ErrTokenUnavailable)
	}
}

func TestClientCredentials_MissingConfig(t *testing.T) {
	_, err := NewClientCredentials(context.Background(), ClientCredentialsConfig{}, nil)
	if !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("NewClientCredentials() error = %v, want %v", err, ErrMissingCredentials)
	}
}
