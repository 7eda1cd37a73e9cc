/*
Package observability turns binder lifecycle events into metrics and logs.

Metrics exposes Prometheus counters and a latency histogram through
domain.LifecycleHooks. DebugHooks logs the same events through slog, and
Combine fans one event out to several hook sets.
*/
package observability
