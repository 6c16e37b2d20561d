// ABOUTME: Gateway orchestrator that owns the HTTP server and wires every component
// ABOUTME: Serves the MCP endpoint, health and info endpoints, and the optional demo

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Prahants/mcp-startup-generator/internal/auth"
	"github.com/Prahants/mcp-startup-generator/internal/config"
	"github.com/Prahants/mcp-startup-generator/internal/fetch"
	"github.com/Prahants/mcp-startup-generator/internal/jobs"
	"github.com/Prahants/mcp-startup-generator/internal/mcp"
	"github.com/Prahants/mcp-startup-generator/internal/search"
	"github.com/Prahants/mcp-startup-generator/internal/tools"
	"github.com/Prahants/mcp-startup-generator/internal/webdemo"
)

// Version is reported by /info and the MCP initialize result.
// Set by the binary at startup.
var Version = mcp.DefaultVersion

const shutdownTimeout = 5 * time.Second

// Gateway orchestrates the startup-mcp server components.
type Gateway struct {
	config     *config.Config
	httpServer *http.Server
	mcpServer  *mcp.Server
	tools      *tools.Set
	demo       *webdemo.Demo
	jwtEnabled bool
	logger     *slog.Logger

	// serverID identifies this gateway instance
	serverID  string
	startedAt time.Time

	// listening receives the bound address once Run has a listener.
	listening chan string
}

// New creates a new Gateway instance with the given configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	fetcher := fetch.NewClient(fetch.Config{
		Timeout:   cfg.Fetch.Timeout,
		UserAgent: cfg.Fetch.UserAgent,
		Logger:    logger,
	})
	provider := search.NewDuckDuckGo(search.Config{
		Endpoint:  cfg.Search.Endpoint,
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.Fetch.Timeout,
		Logger:    logger,
	})
	finder := jobs.NewFinder(jobs.Config{
		Fetcher:    fetcher,
		Search:     provider,
		UserAgent:  cfg.Fetch.UserAgent,
		MaxResults: cfg.Search.MaxResults,
		Logger:     logger,
	})

	set, err := tools.NewSet(tools.Deps{
		Phone:  cfg.Owner.Phone,
		Jobs:   finder,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("building tool set: %w", err)
	}

	verifier, jwtEnabled, err := buildVerifier(cfg)
	if err != nil {
		return nil, err
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Name:          mcp.DefaultName,
		Version:       Version,
		EndpointPath:  cfg.Server.EndpointPath,
		Tools:         set,
		Logger:        logger,
		TokenVerifier: verifier,
		RequireAuth:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}

	gw := &Gateway{
		config:     cfg,
		mcpServer:  mcpServer,
		tools:      set,
		jwtEnabled: jwtEnabled,
		logger:     logger.With("component", "gateway"),
		serverID:   generateServerID(),
		startedAt:  time.Now(),
		listening:  make(chan string, 1),
	}

	mux := http.NewServeMux()

	// Health endpoints - no auth required
	mux.HandleFunc("GET /health", gw.handleHealth)
	mux.HandleFunc("GET /health/ready", gw.handleReady)

	// Server info - recent clients only shown to authenticated callers
	mux.Handle("GET /info", auth.OptionalAuthMiddleware(verifier)(http.HandlerFunc(gw.handleInfo)))

	mcpServer.RegisterRoutes(mux)

	if cfg.Demo.Enabled {
		demo, err := webdemo.New(webdemo.Config{
			Tools:    set,
			Verifier: verifier,
			Title:    mcp.DefaultName,
			Version:  Version,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating demo: %w", err)
		}
		gw.demo = demo
		gw.demo.RegisterRoutes(mux)
		logger.Info("demo UI enabled at /")
	}

	gw.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return gw, nil
}

// buildVerifier accepts the static token and, when a secret is configured,
// HS256 JWTs signed with it.
func buildVerifier(cfg *config.Config) (auth.TokenVerifier, bool, error) {
	chain := auth.ChainVerifier{auth.NewStaticVerifier(cfg.Auth.Token)}
	if cfg.Auth.JWTSecret == "" {
		return chain, false, nil
	}
	jwtVerifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return nil, false, fmt.Errorf("creating JWT verifier: %w", err)
	}
	return append(chain, jwtVerifier), true, nil
}

// Handler returns the root HTTP handler.
func (g *Gateway) Handler() http.Handler {
	return g.httpServer.Handler
}

// Tools returns the registered tool set.
func (g *Gateway) Tools() *tools.Set {
	return g.tools
}

// Listening yields the bound address once Run is accepting connections.
func (g *Gateway) Listening() <-chan string {
	return g.listening
}

// Run starts the HTTP server and blocks until the context is canceled.
// Returns nil on graceful shutdown (context canceled), or an error if the server fails.
func (g *Gateway) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", g.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		g.logger.Info("HTTP server listening",
			"addr", ln.Addr().String(),
			"mcp_endpoint", g.mcpServer.EndpointPath(),
			"server_id", g.serverID,
		)
		if err := g.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()
	g.listening <- ln.Addr().String()

	var serverErr error
	select {
	case <-ctx.Done():
		g.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		g.logger.Error("server error", "error", serverErr)
	}

	shutdownErr := g.gracefulShutdown()
	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown uses a fresh context since the Run context is already canceled.
func (g *Gateway) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return g.Shutdown(ctx)
}

// Shutdown stops accepting requests and closes open MCP streams.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.logger.Info("shutting down gateway")

	var errs []error
	if err := g.mcpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("MCP shutdown: %w", err))
	}
	if err := g.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}
	return errors.Join(errs...)
}

// handleHealth returns 200 OK if the server is alive.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK once tools are registered.
func (g *Gateway) handleReady(w http.ResponseWriter, r *http.Request) {
	names := g.tools.Names()
	if len(names) == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("no tools registered"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "ready (%d tools)", len(names))
}

// InfoResponse is the /info payload. The bearer token is never included.
type InfoResponse struct {
	Status          string           `json:"status"`
	ServerName      string           `json:"server_name"`
	Version         string           `json:"version"`
	ServerID        string           `json:"server_id"`
	Endpoint        string           `json:"endpoint"`
	PhoneConfigured bool             `json:"phone_configured"`
	JWTEnabled      bool             `json:"jwt_enabled"`
	DemoEnabled     bool             `json:"demo_enabled"`
	Tools           []string         `json:"tools"`
	UptimeSeconds   int64            `json:"uptime_seconds"`
	ClientsTotal    int              `json:"clients_total"`
	RecentClients   []mcp.ClientInfo `json:"recent_clients,omitempty"`
}

func (g *Gateway) handleInfo(w http.ResponseWriter, r *http.Request) {
	total, recent := g.mcpServer.Clients()

	resp := InfoResponse{
		Status:          "running",
		ServerName:      g.mcpServer.Name(),
		Version:         g.mcpServer.Version(),
		ServerID:        g.serverID,
		Endpoint:        g.mcpServer.EndpointPath(),
		PhoneConfigured: g.config.Owner.Phone != "",
		JWTEnabled:      g.jwtEnabled,
		DemoEnabled:     g.demo != nil,
		Tools:           g.tools.Names(),
		UptimeSeconds:   int64(time.Since(g.startedAt).Seconds()),
		ClientsTotal:    total,
	}
	if auth.FromContext(r.Context()) != nil {
		resp.RecentClients = recent
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		g.logger.Error("failed to encode info", "error", err)
	}
}

// generateServerID creates a unique identifier for this gateway instance.
func generateServerID() string {
	return "startup-mcp-" + uuid.NewString()[:8]
}
