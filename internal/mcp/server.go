// ABOUTME: MCP Streamable HTTP endpoint built on mcp-go for AI agent runtimes.
// ABOUTME: Registers the tool set, enforces bearer auth, and tracks initialized clients.

package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Prahants/mcp-startup-generator/internal/auth"
	"github.com/Prahants/mcp-startup-generator/internal/tools"
)

// Defaults applied when Config fields are empty.
const (
	DefaultName         = "Dynamic Startup Idea Generator MCP Server"
	DefaultVersion      = "dev"
	DefaultEndpointPath = "/mcp"
)

// maxClientHistory bounds the number of initialize records kept for /info.
const maxClientHistory = 64

// ClientInfo records one completed initialize handshake.
type ClientInfo struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Version         string    `json:"version"`
	ProtocolVersion string    `json:"protocol_version"`
	Principal       string    `json:"principal,omitempty"`
	ConnectedAt     time.Time `json:"connected_at"`
}

// clientLog keeps the most recent initialize handshakes (in-memory).
type clientLog struct {
	mu      sync.RWMutex
	total   int
	clients []ClientInfo
}

func (l *clientLog) add(c ClientInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.total++
	l.clients = append(l.clients, c)
	if len(l.clients) > maxClientHistory {
		l.clients = l.clients[len(l.clients)-maxClientHistory:]
	}
}

func (l *clientLog) snapshot() (int, []ClientInfo) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]ClientInfo, len(l.clients))
	copy(out, l.clients)
	return l.total, out
}

// Config holds configuration for the MCP server.
type Config struct {
	Name          string
	Version       string
	EndpointPath  string
	Tools         *tools.Set
	Logger        *slog.Logger
	TokenVerifier auth.TokenVerifier
	RequireAuth   bool // If true, reject requests without a valid bearer token
}

// Server exposes the tool set over MCP Streamable HTTP.
type Server struct {
	mcp         *server.MCPServer
	http        *server.StreamableHTTPServer
	tools       *tools.Set
	logger      *slog.Logger
	verifier    auth.TokenVerifier
	requireAuth bool
	endpoint    string
	name        string
	version     string
	clients     *clientLog
}

// NewServer creates a new MCP server with the given configuration.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Tools == nil {
		return nil, errors.New("tool set is required")
	}
	if cfg.RequireAuth && cfg.TokenVerifier == nil {
		return nil, errors.New("token verifier required when auth is required")
	}

	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = DefaultEndpointPath
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		tools:       cfg.Tools,
		logger:      logger.With("component", "mcp"),
		verifier:    cfg.TokenVerifier,
		requireAuth: cfg.RequireAuth,
		endpoint:    cfg.EndpointPath,
		name:        cfg.Name,
		version:     cfg.Version,
		clients:     &clientLog{},
	}

	hooks := &server.Hooks{}
	hooks.AddAfterInitialize(s.afterInitialize)
	hooks.AddOnError(func(_ context.Context, id any, method mcp.MCPMethod, _ any, err error) {
		s.logger.Warn("MCP request failed", "method", method, "id", id, "error", err)
	})

	s.mcp = server.NewMCPServer(cfg.Name, cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithHooks(hooks),
		server.WithInstructions("Tools for generating startup ideas, finding jobs, and converting images to black and white."),
	)
	cfg.Tools.Register(s.mcp)

	s.http = server.NewStreamableHTTPServer(s.mcp,
		server.WithEndpointPath(cfg.EndpointPath),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			if a := auth.FromContext(r.Context()); a != nil {
				return auth.WithAuth(ctx, a)
			}
			return ctx
		}),
	)

	return s, nil
}

func (s *Server) afterInitialize(ctx context.Context, _ any, req *mcp.InitializeRequest, res *mcp.InitializeResult) {
	info := ClientInfo{
		ID:              uuid.New().String(),
		Name:            req.Params.ClientInfo.Name,
		Version:         req.Params.ClientInfo.Version,
		ProtocolVersion: res.ProtocolVersion,
		ConnectedAt:     time.Now().UTC(),
	}
	if a := auth.FromContext(ctx); a != nil {
		info.Principal = a.PrincipalID
	}
	s.clients.add(info)

	s.logger.Info("MCP client initialized",
		"client", info.Name,
		"client_version", info.Version,
		"protocol_version", info.ProtocolVersion,
		"principal", info.Principal,
	)
}

// RegisterRoutes registers the MCP endpoint on the given ServeMux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle(s.endpoint, s.Handler())
}

// Handler returns the MCP endpoint, wrapped in bearer auth when required.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.http
	if s.requireAuth {
		h = auth.HTTPAuthMiddleware(s.verifier, s.logger)(h)
	} else if s.verifier != nil {
		h = auth.OptionalAuthMiddleware(s.verifier)(h)
	}
	return h
}

// EndpointPath returns the path the MCP endpoint is served on.
func (s *Server) EndpointPath() string {
	return s.endpoint
}

// ToolNames returns the registered tool names, sorted.
func (s *Server) ToolNames() []string {
	return s.tools.Names()
}

// Clients returns the total initialize count and the most recent handshakes.
func (s *Server) Clients() (int, []ClientInfo) {
	return s.clients.snapshot()
}

// Name returns the advertised server name.
func (s *Server) Name() string {
	return s.name
}

// Version returns the advertised server version.
func (s *Server) Version() string {
	return s.version
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Shutdown closes open streams.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
