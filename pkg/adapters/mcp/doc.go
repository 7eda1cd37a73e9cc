// Package mcp exposes a source over the Model Context Protocol.
//
// The server offers two tools, get and check, and one resource,
// propbind://keys, all backed by an inspect.Inspector so lifecycle hooks
// see every key served to an agent. It speaks stdio or SSE.
package mcp
