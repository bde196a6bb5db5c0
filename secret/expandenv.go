package secret

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// ExpandEnvStrict expands environment variables in s.
//
// Semantics:
//   - `$VAR` and `${VAR}` are expanded from the process environment.
//   - A referenced variable that is not set is an error.
//   - `$$` emits a literal `$`.
func ExpandEnvStrict(s string) (string, error) {
	return Expand(s, os.LookupEnv)
}

// Expand is ExpandEnvStrict with a custom lookup.
func Expand(s string, lookup func(string) (string, bool)) (string, error) {
	missing := make(map[string]struct{})

	out := os.Expand(s, func(key string) string {
		if key == "$" {
			return "$"
		}
		v, ok := lookup(key)
		if !ok {
			missing[key] = struct{}{}
		}
		return v
	})

	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(keys, ", "))
	}
	return out, nil
}
