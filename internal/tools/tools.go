// ABOUTME: Tool set exposed over MCP: definitions, argument validation, and dispatch.
// ABOUTME: Every handler is wrapped with schema validation and per-call logging.

package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Prahants/mcp-startup-generator/internal/auth"
	"github.com/Prahants/mcp-startup-generator/internal/jobs"
)

// Tool is one registered tool: its MCP definition and wrapped handler.
type Tool struct {
	Definition mcp.Tool
	Handler    server.ToolHandlerFunc
}

// Name returns the tool's registered name.
func (t Tool) Name() string {
	return t.Definition.Name
}

// JobFinder resolves job_finder requests.
type JobFinder interface {
	Find(ctx context.Context, req jobs.Request) (string, error)
}

// Deps are the collaborators the tool handlers need.
type Deps struct {
	Phone  string
	Jobs   JobFinder
	Logger *slog.Logger
}

// Set is an immutable collection of tools keyed by name.
type Set struct {
	tools  []Tool
	byName map[string]Tool
	logger *slog.Logger
}

// NewSet builds the full tool set. It fails only if a tool's input schema
// does not compile.
func NewSet(deps Deps) (*Set, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Jobs == nil {
		return nil, fmt.Errorf("job finder is required")
	}

	s := &Set{
		byName: make(map[string]Tool),
		logger: deps.Logger.With("component", "tools"),
	}

	for _, def := range definitions(deps) {
		schema, err := compileSchema(def.tool)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", def.tool.Name, err)
		}
		t := Tool{
			Definition: def.tool,
			Handler:    s.wrap(def.tool.Name, schema, def.handler),
		}
		s.tools = append(s.tools, t)
		s.byName[t.Name()] = t
	}
	return s, nil
}

// Tools returns the tools in registration order.
func (s *Set) Tools() []Tool {
	out := make([]Tool, len(s.tools))
	copy(out, s.tools)
	return out
}

// Names returns the sorted tool names.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named tool.
func (s *Set) Get(name string) (Tool, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// Register adds every tool to an mcp-go server.
func (s *Set) Register(srv *server.MCPServer) {
	for _, t := range s.tools {
		srv.AddTool(t.Definition, t.Handler)
	}
}

// Call invokes a tool in-process through the same wrapped handler the MCP
// server uses.
func (s *Set) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("tool %q not found", name)
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return t.Handler(ctx, req)
}

// wrap applies argument validation and logging around a handler.
func (s *Set) wrap(name string, schema *jsonschema.Schema, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		requestID := uuid.New().String()
		start := time.Now()
		logger := s.logger.With("tool_name", name, "request_id", requestID)
		if a := auth.FromContext(ctx); a != nil {
			logger = logger.With("principal", a.PrincipalID)
		}

		if msg := validateArgs(schema, req.GetArguments()); msg != "" {
			logger.Warn("tool arguments rejected", "error", msg)
			return mcp.NewToolResultError(msg), nil
		}

		res, err := next(ctx, req)
		duration := time.Since(start)
		switch {
		case err != nil:
			logger.Warn("tool call failed", "duration", duration, "error", err)
		case res != nil && res.IsError:
			logger.Info("tool returned error result", "duration", duration, "is_error", true)
		default:
			logger.Debug("tool call", "duration", duration, "is_error", false)
		}
		return res, err
	}
}
