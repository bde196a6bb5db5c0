package poll

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff defines how delays grow between attempts.
type Backoff int

const (
	// BackoffConstant uses the same delay between every attempt.
	BackoffConstant Backoff = iota
	// BackoffLinear increases the delay linearly.
	BackoffLinear
	// BackoffExponential multiplies the delay each attempt.
	BackoffExponential
)

// Config configures a poll.
type Config struct {
	// Tries is the maximum number of attempts, including the first.
	// Default: 3
	Tries int

	// Delay is the wait between the first and second attempt.
	// Default: 1s
	Delay time.Duration

	// Backoff is the delay growth strategy.
	// Default: BackoffConstant
	Backoff Backoff

	// MaxDelay caps the delay between attempts.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier is the factor for exponential backoff.
	// Default: 2.0
	Multiplier float64

	// Jitter adds up to 25% random delay.
	Jitter bool

	// OnAttempt is called before each retry with the attempt number about
	// to run and the delay preceding it.
	OnAttempt func(attempt int, delay time.Duration)
}

func (c Config) withDefaults() Config {
	if c.Tries <= 0 {
		c.Tries = 3
	}
	if c.Delay <= 0 {
		c.Delay = time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2.0
	}
	return c
}

// delay returns the wait after attempt (1-based). The backoff is capped at
// MaxDelay before jitter is added.
func (c Config) delay(attempt int) time.Duration {
	var raw float64

	switch c.Backoff {
	case BackoffLinear:
		raw = float64(c.Delay) * float64(attempt)
	case BackoffExponential:
		raw = float64(c.Delay) * math.Pow(c.Multiplier, float64(attempt-1))
	default:
		raw = float64(c.Delay)
	}

	delay := c.MaxDelay
	if raw < float64(c.MaxDelay) {
		delay = time.Duration(raw)
	}
	if delay < 0 {
		delay = c.MaxDelay
	}

	if c.Jitter && delay >= 4 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Int64N(int64(delay / 4)))
	}

	return delay
}
