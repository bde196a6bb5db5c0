package httpcall

import (
	"errors"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "absolute", baseURL: "https://api.example.com/v1"},
		{name: "trimmed", baseURL: "  http://localhost:8080 "},
		{name: "relative", baseURL: "/v1", wantErr: true},
		{name: "empty", baseURL: "", wantErr: true},
		{name: "malformed", baseURL: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.baseURL)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrBaseURL) {
				t.Errorf("NewClient() error = %v, want %v", err, ErrBaseURL)
			}
		})
	}
}

func TestClient_Resolve(t *testing.T) {
	c, err := NewClient("https://api.example.com/v1/")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	tests := []struct {
		ref  string
		want string
	}{
		{ref: "/users/42", want: "https://api.example.com/v1/users/42"},
		{ref: "users", want: "https://api.example.com/v1/users"},
		{ref: "users?page=2", want: "https://api.example.com/v1/users?page=2"},
		{ref: "https://other.example.com/x", want: "https://other.example.com/x"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := c.Resolve(tt.ref)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestClient_Options(t *testing.T) {
	c, err := NewClient("http://localhost",
		WithTimeout(5*time.Second),
		WithMaxInFlight(2),
		WithRateLimit(10, 0),
		WithMaxErrorBody(16),
	)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c.http.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", c.http.Timeout)
	}
	if c.sem == nil {
		t.Error("in-flight limit not set")
	}
	if c.limiter == nil || c.limiter.Burst() != 1 {
		t.Error("rate limit not set with burst 1")
	}
	if c.maxErrorBody != 16 {
		t.Errorf("maxErrorBody = %d, want 16", c.maxErrorBody)
	}
	if c.BaseURL() != "http://localhost" {
		t.Errorf("BaseURL() = %q, want http://localhost", c.BaseURL())
	}

	d, _ := NewClient("http://localhost", WithRateLimit(0, 5), WithMaxInFlight(0))
	if d.limiter != nil || d.sem != nil {
		t.Error("zero limits should disable limiting")
	}
}
