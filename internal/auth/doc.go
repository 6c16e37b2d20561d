// Package auth authenticates MCP clients.
//
// # Bearer Tokens
//
// Clients send `Authorization: Bearer <token>`. Two verifiers exist:
//
//   - StaticVerifier: constant-time compare against the configured
//     auth.token. Matches are granted the principal "puch-client".
//
//   - JWTVerifier: HS256 tokens signed with auth.jwt_secret, principal taken
//     from the "sub" claim. Only enabled when a secret is configured.
//
// ChainVerifier combines them; the static token is always tried first.
//
// # Middleware
//
//	mux.Handle("/mcp", auth.HTTPAuthMiddleware(verifier, logger)(handler))
//
// HTTPAuthMiddleware answers 401 with a JSON body before the wrapped handler
// runs. OptionalAuthMiddleware never rejects and is used for informational
// endpoints. Both store an AuthContext retrievable with FromContext.
package auth
