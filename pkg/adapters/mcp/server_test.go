package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	propmcp "github.com/aretw0/propbind/pkg/adapters/mcp"
	"github.com/aretw0/propbind/pkg/adapters/memory"
	"github.com/aretw0/propbind/pkg/inspect"
	"github.com/aretw0/propbind/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type toolResult struct {
	IsError           bool            `json:"isError"`
	StructuredContent json.RawMessage `json:"structuredContent"`
	Content           []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func call(t *testing.T, s *propmcp.Server, method string, params any) json.RawMessage {
	t.Helper()
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	reply := s.MCPServer().HandleMessage(context.Background(), msg)
	require.NotNil(t, reply)
	raw, err := json.Marshal(reply)
	require.NoError(t, err)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.Nil(t, resp.Error)
	return resp.Result
}

func newServer(t *testing.T, opts ...inspect.Option) *propmcp.Server {
	t.Helper()
	src := memory.FromStrings(map[string]string{
		"host": "db",
		"url":  "postgres://[host]/app",
		"bad":  "[nowhere]",
	})
	s := propmcp.NewServer(inspect.New(src, opts...))
	call(t, s, "initialize", map[string]any{
		"protocolVersion": "2025-03-26",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test", "version": "0"},
	})
	return s
}

func callTool(t *testing.T, s *propmcp.Server, name string, args map[string]any) toolResult {
	t.Helper()
	raw := call(t, s, "tools/call", map[string]any{"name": name, "arguments": args})
	var res toolResult
	require.NoError(t, json.Unmarshal(raw, &res))
	return res
}

func TestGetTool(t *testing.T) {
	s := newServer(t)

	res := callTool(t, s, "get", map[string]any{"key": "url"})
	require.False(t, res.IsError)
	var entry propmcp.EntryResult
	require.NoError(t, json.Unmarshal(res.StructuredContent, &entry))
	assert.Equal(t, "postgres://db/app", entry.Value)
	assert.Equal(t, "postgres://[host]/app", entry.Raw)

	res = callTool(t, s, "get", map[string]any{"key": "url", "verbatim": true})
	entry = propmcp.EntryResult{}
	require.NoError(t, json.Unmarshal(res.StructuredContent, &entry))
	assert.Equal(t, "postgres://[host]/app", entry.Value)

	res = callTool(t, s, "get", map[string]any{"key": "missing"})
	assert.True(t, res.IsError)
	require.NotEmpty(t, res.Content)
	assert.Contains(t, res.Content[0].Text, `key "missing" not found`)
}

func TestCheckTool(t *testing.T) {
	res := callTool(t, newServer(t), "check", map[string]any{})
	require.False(t, res.IsError)

	var out propmcp.CheckResult
	require.NoError(t, json.Unmarshal(res.StructuredContent, &out))
	assert.Equal(t, []propmcp.ProblemResult{
		{Key: "bad", Kind: inspect.ProblemMissingReference, Detail: "nowhere"},
	}, out.Problems)
}

func TestKeysResource(t *testing.T) {
	raw := call(t, newServer(t), "resources/read", map[string]any{"uri": propmcp.KeysURI})

	var res struct {
		Contents []struct {
			URI      string `json:"uri"`
			MIMEType string `json:"mimeType"`
			Text     string `json:"text"`
		} `json:"contents"`
	}
	require.NoError(t, json.Unmarshal(raw, &res))
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "application/json", res.Contents[0].MIMEType)

	var entries []propmcp.EntryResult
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &entries))
	byKey := map[string]propmcp.EntryResult{}
	for _, e := range entries {
		byKey[e.Key] = e
	}
	assert.Len(t, byKey, 3)
	assert.Equal(t, "postgres://db/app", byKey["url"].Value)
	assert.Equal(t, "[nowhere]", byKey["bad"].Raw)
	assert.Empty(t, byKey["bad"].Value)
}

func TestToolsFeedMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	s := newServer(t, inspect.WithLifecycleHooks(metrics.Hooks()))
	callTool(t, s, "get", map[string]any{"key": "host"})
	callTool(t, s, "get", map[string]any{"key": "missing"})

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Accesses.WithLabelValues(inspect.Contract, "host", "source", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Accesses.WithLabelValues(inspect.Contract, "missing", "nil", "ok")))
}
