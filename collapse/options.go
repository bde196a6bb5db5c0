package collapse

import (
	"net/http"
	"strings"

	"github.com/jonwraymond/netrepo/observe"
)

// Option configures a Collapser created by New.
type Option func(*Collapser)

// WithReadMethod sets the HTTP method whose calls are collapsed.
// The comparison is case-insensitive. Default: GET.
func WithReadMethod(method string) Option {
	return func(c *Collapser) {
		if method = strings.TrimSpace(method); method != "" {
			c.readMethod = method
		}
	}
}

// WithInstrumentation attaches tracing, metrics and logging.
func WithInstrumentation(inst *observe.Instrumentation) Option {
	return func(c *Collapser) {
		c.inst = inst
	}
}

const defaultReadMethod = http.MethodGet
