package repository

import (
	"fmt"
	"strings"
)

// Policy selects the data path of one query.
type Policy int

const (
	// PolicyNone never touches the cache.
	PolicyNone Policy = iota + 1
	// PolicyFirst reads the cache and falls back to the network.
	PolicyFirst
	// PolicyOnly reads the cache and never touches the network.
	PolicyOnly
	// PolicyTimeResolve reads the cache while fresh and refreshes it from the
	// network once stale.
	PolicyTimeResolve
)

// DefaultPolicy is the policy a Repository uses unless configured otherwise.
const DefaultPolicy = PolicyFirst

var policyNames = map[Policy]string{
	PolicyNone:        "none",
	PolicyFirst:       "first",
	PolicyOnly:        "only",
	PolicyTimeResolve: "time_resolve",
}

// String returns the policy name.
func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Valid reports whether p is one of the defined policies.
func (p Policy) Valid() bool {
	_, ok := policyNames[p]
	return ok
}

// readsCache reports whether p consults the cache before the network.
func (p Policy) readsCache() bool {
	return p != PolicyNone
}

// ParsePolicy parses a policy name as returned by String. Matching is
// case-insensitive and accepts '-' for '_'.
func ParsePolicy(s string) (Policy, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for p, n := range policyNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(p))
	}
	return []byte(p.String()), nil
}
