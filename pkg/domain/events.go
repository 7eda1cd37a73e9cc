package domain

import "time"

// Origin tells where an accessor result came from.
type Origin string

const (
	OriginSource  Origin = "source"
	OriginDefault Origin = "default"
	OriginNil     Origin = "nil"
)

// AccessEvent describes one accessor invocation.
type AccessEvent struct {
	Contract string
	Accessor string
	Key      string
	Origin   Origin
	Duration time.Duration
	Err      error
}

// BindEvent describes one bind call.
type BindEvent struct {
	Contract string
	Source   string
	Duration time.Duration
	Err      error
}

// LifecycleHooks defines callbacks for engine observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnBind   func(*BindEvent)
	OnAccess func(*AccessEvent)
}
