package secret

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider resolves secrets by reference string.
//
// Implementations must be safe for concurrent use and must not log secret values.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
}

// EnvProvider resolves references as environment variable names, with an
// optional prefix. Its name is "env".
type EnvProvider struct {
	Prefix string
}

// Name returns "env".
func (EnvProvider) Name() string { return "env" }

// Resolve returns the value of the variable Prefix+ref.
func (p EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := os.LookupEnv(p.Prefix + ref)
	if !ok {
		return "", fmt.Errorf("%w: env %s", ErrNotFound, p.Prefix+ref)
	}
	return v, nil
}

// FileProvider resolves references as file paths, relative to Dir when set.
// Trailing newlines are trimmed. Its name is "file".
type FileProvider struct {
	Dir string
}

// Name returns "file".
func (FileProvider) Name() string { return "file" }

// Resolve reads the file named by ref.
func (p FileProvider) Resolve(_ context.Context, ref string) (string, error) {
	path := ref
	if p.Dir != "" && !filepath.IsAbs(ref) {
		path = filepath.Join(p.Dir, ref)
	}
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: file %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("secret: read %s: %w", path, err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

// MapProvider resolves references from a fixed map.
type MapProvider struct {
	ProviderName string
	Values       map[string]string
}

// Name returns p.ProviderName.
func (p MapProvider) Name() string { return p.ProviderName }

// Resolve returns Values[ref].
func (p MapProvider) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := p.Values[ref]
	if !ok {
		return "", fmt.Errorf("%w: %s:%s", ErrNotFound, p.ProviderName, ref)
	}
	return v, nil
}

var (
	_ Provider = EnvProvider{}
	_ Provider = FileProvider{}
	_ Provider = MapProvider{}
)
