package observability

import (
	"log/slog"

	"github.com/aretw0/propbind/pkg/domain"
)

// DebugHooks logs every bind and access at debug level.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBind: func(e *domain.BindEvent) {
			if e.Err != nil {
				logger.Debug("Bind (Error)", "contract", e.Contract, "source", e.Source, "err", e.Err)
				return
			}
			logger.Debug("Bind", "contract", e.Contract, "source", e.Source, "duration", e.Duration)
		},
		OnAccess: func(e *domain.AccessEvent) {
			if e.Err != nil {
				logger.Debug("Access (Error)", "key", e.Key, "accessor", e.Accessor, "err", e.Err)
				return
			}
			logger.Debug("Access", "key", e.Key, "origin", e.Origin, "duration", e.Duration)
		},
	}
}

// Combine returns hooks that call every non-nil callback of each set, in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var binds []func(*domain.BindEvent)
	var accesses []func(*domain.AccessEvent)
	for _, s := range sets {
		if s.OnBind != nil {
			binds = append(binds, s.OnBind)
		}
		if s.OnAccess != nil {
			accesses = append(accesses, s.OnAccess)
		}
	}

	var hooks domain.LifecycleHooks
	if len(binds) > 0 {
		hooks.OnBind = func(e *domain.BindEvent) {
			for _, fn := range binds {
				fn(e)
			}
		}
	}
	if len(accesses) > 0 {
		hooks.OnAccess = func(e *domain.AccessEvent) {
			for _, fn := range accesses {
				fn(e)
			}
		}
	}
	return hooks
}
