package secret

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var vault = MapProvider{ProviderName: "vault", Values: map[string]string{
	"api/token": "s3cr3t",
	"api/empty": "",
}}

func TestParseRef(t *testing.T) {
	tests := []struct {
		in       string
		provider string
		ref      string
		ok       bool
	}{
		{in: "secretref:env:TOKEN", provider: "env", ref: "TOKEN", ok: true},
		{in: "secretref:vault:a/b:c", provider: "vault", ref: "a/b:c", ok: true},
		{in: "secretref:env:", ok: false},
		{in: "secretref::TOKEN", ok: false},
		{in: "Bearer secretref:env:TOKEN", ok: false},
		{in: "plain", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			provider, ref, ok := ParseRef(tt.in)
			if ok != tt.ok || provider != tt.provider || ref != tt.ref {
				t.Errorf("ParseRef(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.in, provider, ref, ok, tt.provider, tt.ref, tt.ok)
			}
		})
	}
}

func TestResolver_ResolveValue(t *testing.T) {
	t.Setenv("NETREPO_TEST_TOKEN", "from-env")
	t.Setenv("NETREPO_TEST_REF", "secretref:vault:api/token")

	r := NewResolver(true, vault, EnvProvider{Prefix: "NETREPO_TEST_"})
	ctx := context.Background()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "plain", in: "application/json", want: "application/json"},
		{name: "full ref", in: "secretref:vault:api/token", want: "s3cr3t"},
		{name: "inline ref", in: "Bearer secretref:vault:api/token", want: "Bearer s3cr3t"},
		{name: "two inline refs", in: "secretref:vault:api/token secretref:env:TOKEN", want: "s3cr3t from-env"},
		{name: "env provider", in: "secretref:env:TOKEN", want: "from-env"},
		{name: "env expansion", in: "Bearer ${NETREPO_TEST_TOKEN}", want: "Bearer from-env"},
		{name: "ref from env", in: "${NETREPO_TEST_REF}", want: "s3cr3t"},
		{name: "escaped dollar", in: "$$5", want: "$5"},
		{name: "missing env", in: "${NETREPO_TEST_MISSING}", wantErr: ErrMissingEnv},
		{name: "unknown provider", in: "secretref:aws:key", wantErr: ErrUnknownProvider},
		{name: "missing secret", in: "secretref:vault:nope", wantErr: ErrNotFound},
		{name: "strict empty", in: "secretref:vault:api/empty", wantErr: ErrEmptySecret},
		{name: "malformed", in: "secretref:broken", wantErr: ErrInvalidRef},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveValue(ctx, tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ResolveValue(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveValue(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ResolveValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolver_NonStrictAllowsEmpty(t *testing.T) {
	r := NewResolver(false, vault)
	got, err := r.ResolveValue(context.Background(), "secretref:vault:api/empty")
	if err != nil || got != "" {
		t.Errorf("ResolveValue() = (%q, %v), want empty", got, err)
	}
}

func TestResolver_Nil(t *testing.T) {
	t.Setenv("NETREPO_TEST_TOKEN", "x")
	var r *Resolver
	got, err := r.ResolveValue(context.Background(), "${NETREPO_TEST_TOKEN}")
	if err != nil || got != "x" {
		t.Errorf("nil ResolveValue() = (%q, %v), want x", got, err)
	}
}

func TestResolver_ResolveMap(t *testing.T) {
	r := NewResolver(true, vault)
	ctx := context.Background()

	out, err := r.ResolveMap(ctx, map[string]string{
		"Authorization": "Bearer secretref:vault:api/token",
		"X-Client":      "netrepo",
	})
	if err != nil {
		t.Fatalf("ResolveMap() error = %v", err)
	}
	if out["Authorization"] != "Bearer s3cr3t" || out["X-Client"] != "netrepo" {
		t.Errorf("ResolveMap() = %v", out)
	}

	if _, err := r.ResolveMap(ctx, map[string]string{"X": "secretref:vault:nope"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("ResolveMap() error = %v, want %v", err, ErrNotFound)
	}
	if out, err := r.ResolveMap(ctx, nil); out != nil || err != nil {
		t.Errorf("ResolveMap(nil) = (%v, %v)", out, err)
	}
}

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "token"), []byte("abc\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(true, FileProvider{Dir: dir})
	got, err := r.ResolveValue(context.Background(), "secretref:file:token")
	if err != nil || got != "abc" {
		t.Errorf("ResolveValue() = (%q, %v), want abc", got, err)
	}

	if _, err := r.ResolveValue(context.Background(), "secretref:file:missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file error = %v, want %v", err, ErrNotFound)
	}
}
