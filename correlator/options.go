package correlator

import (
	"log/slog"

	"github.com/lixenwraith/termsense/keypattern"
	"github.com/lixenwraith/termsense/resolver"
)

// DefaultEventBuffer matches the reader channel depth of the raw backend
const DefaultEventBuffer = 256

// Option configures a Correlator
type Option func(*Correlator)

// WithLibrary replaces the key pattern library
func WithLibrary(lib keypattern.Library) Option {
	return func(c *Correlator) {
		c.lib = lib
	}
}

// WithResolver replaces the ambiguity resolver
func WithResolver(r *resolver.Resolver) Option {
	return func(c *Correlator) {
		c.res = r
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Correlator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithEventBuffer sets the event channel capacity
func WithEventBuffer(n int) Option {
	return func(c *Correlator) {
		if n > 0 {
			c.eventBuffer = n
		}
	}
}

// WithMalformedToOldest delivers abandoned unterminated replies to the oldest
// outstanding request as malformed replies
func WithMalformedToOldest(on bool) Option {
	return func(c *Correlator) {
		c.malformedToOldest = on
	}
}
