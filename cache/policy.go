package cache

import "time"

// Policy configures entry expiry.
type Policy struct {
	// DefaultTTL is the lifetime of a saved entry.
	// If zero, entries never expire.
	DefaultTTL time.Duration

	// MaxTTL is the maximum allowed TTL. Override TTLs are clamped to this.
	// If zero, no maximum is enforced.
	MaxTTL time.Duration
}

// DefaultPolicy returns the default policy: entries never expire.
func DefaultPolicy() Policy {
	return Policy{}
}

// ExpiringPolicy returns a policy expiring entries after ttl.
func ExpiringPolicy(ttl time.Duration) Policy {
	return Policy{DefaultTTL: ttl, MaxTTL: ttl}
}

// Expires reports whether entries saved under this policy expire by default.
func (p Policy) Expires() bool {
	return p.DefaultTTL > 0
}

// EffectiveTTL returns the TTL to use, applying defaults and clamping.
// Zero means no expiry.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}

	if p.MaxTTL > 0 && (ttl <= 0 || ttl > p.MaxTTL) {
		ttl = p.MaxTTL
	}

	return ttl
}
