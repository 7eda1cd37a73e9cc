package runtime

import (
	"io"
	"log/slog"

	"github.com/aretw0/propbind/pkg/domain"
	"github.com/aretw0/propbind/pkg/substitute"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the structured logger used for bind and access debug lines.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Dispatcher) {
		d.hooks = hooks
	}
}

// WithResolver replaces the default substitution resolver.
func WithResolver(r *substitute.Resolver) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.resolver = r
		}
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
