// Package inspect reads a source without a contract: raw and expanded values
// per key, and reference problems across the whole source. It backs the CLI,
// the HTTP inspection API and the MCP server.
package inspect
