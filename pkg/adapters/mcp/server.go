package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/propbind"
	"github.com/aretw0/propbind/pkg/inspect"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// KeysURI is the resource listing every key of an enumerable source.
const KeysURI = "propbind://keys"

// EntryResult aligns with the Entry schema of the HTTP inspection API.
type EntryResult struct {
	Key   string `json:"key" jsonschema_description:"The looked up key"`
	Raw   any    `json:"raw" jsonschema_description:"The value as held by the source"`
	Value string `json:"value,omitempty" jsonschema_description:"The value after reference expansion"`
	Error string `json:"error,omitempty" jsonschema_description:"Why the value could not be expanded"`
}

// ProblemResult is one reference problem.
type ProblemResult struct {
	Key    string `json:"key"`
	Kind   string `json:"kind" jsonschema_description:"missing reference or cycle"`
	Detail string `json:"detail"`
}

// CheckResult wraps the problems found by the check tool.
type CheckResult struct {
	Problems []ProblemResult `json:"problems" jsonschema_description:"Reference problems sorted by key"`
}

// Server exposes an inspector as an MCP server.
type Server struct {
	inspector *inspect.Inspector
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the logger for transport events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(in *inspect.Inspector, opts ...Option) *Server {
	s := &Server{
		inspector: in,
		logger:    slog.Default(),
		mcpServer: server.NewMCPServer("propbind-mcp", strings.TrimSpace(propbind.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the protocol on in and out until ctx is cancelled or in is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
}

// ServeSSE serves the protocol over SSE on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://localhost" + addr
	if !strings.HasPrefix(addr, ":") {
		baseURL = "http://" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "addr", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		s.logger.Info("MCP server stopped")
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	getTool := mcp.NewTool("get",
		mcp.WithDescription("Look a key up and expand its [key] references."),
		mcp.WithString("key", mcp.Required(), mcp.Description("The key to look up")),
		mcp.WithBoolean("verbatim", mcp.Description("Return the raw text without expanding references")),
		mcp.WithOutputSchema[EntryResult](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGet))

	checkTool := mcp.NewTool("check",
		mcp.WithDescription("Report references to absent keys and cyclic references."),
		mcp.WithOutputSchema[CheckResult](),
	)
	s.mcpServer.AddTool(checkTool, mcp.NewStructuredToolHandler(s.handleCheck))
}

func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EntryResult, error) {
	key, _ := args["key"].(string)
	verbatim, _ := args["verbatim"].(bool)

	e, ok := s.inspector.Get(key, verbatim)
	if !ok {
		return EntryResult{}, fmt.Errorf("key %q not found", key)
	}
	return toResult(e), nil
}

func (s *Server) handleCheck(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CheckResult, error) {
	problems, err := s.inspector.Check()
	if err != nil {
		return CheckResult{}, err
	}
	out := CheckResult{Problems: make([]ProblemResult, len(problems))}
	for i, p := range problems {
		out.Problems[i] = ProblemResult{Key: p.Key, Kind: p.Kind, Detail: p.Detail}
	}
	return out, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(KeysURI, "Source keys",
		mcp.WithResourceDescription("Every key of the source with its expanded value"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		entries, err := s.inspector.List()
		if err != nil {
			return nil, fmt.Errorf("failed to list keys: %w", err)
		}
		out := make([]EntryResult, len(entries))
		for i, e := range entries {
			out[i] = toResult(e)
		}
		jsonBytes, err := json.Marshal(out)
		if err != nil {
			return nil, err
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      KeysURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func toResult(e inspect.Entry) EntryResult {
	out := EntryResult{Key: e.Key, Raw: e.Raw, Value: e.Value}
	if e.Err != nil {
		out.Error = e.Err.Error()
	}
	return out
}
