// Package gateway orchestrates the startup-mcp server components.
//
// # Overview
//
// The gateway owns the HTTP server and builds everything behind it from a
// config.Config: the outbound fetch client, the DuckDuckGo search provider,
// the job finder, the tool set, the bearer verifier chain, the MCP server,
// and the optional web demo.
//
// # HTTP Endpoints
//
//   - /mcp - MCP Streamable HTTP endpoint, bearer auth required
//   - GET /health - Liveness check
//   - GET /health/ready - Readiness check (tool count)
//   - GET /info - Server info; recent MCP clients only for authenticated callers
//   - GET / and /demo/* - Web demo, when demo.enabled is set; tool calls
//     need the bearer token (header or sign-in cookie)
//
// /info never includes the bearer token or the owner's phone number.
//
// # Authentication
//
// The static auth.token is always accepted. When auth.jwt_secret is set,
// HS256 JWTs signed with it are accepted too.
//
// # Lifecycle
//
//	gw, err := gateway.New(cfg, logger)
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//	err = gw.Run(ctx)
//
// Run returns after the context is canceled and a graceful shutdown (5s
// timeout) completes.
package gateway
