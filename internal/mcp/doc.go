// Package mcp serves the tool set over the Model Context Protocol.
//
// # Overview
//
// The server wraps mcp-go's MCPServer and StreamableHTTPServer. mcp-go owns
// JSON-RPC framing, sessions, and the Streamable HTTP transport; this package
// registers tools, guards the endpoint with bearer auth, and records which
// clients have initialized.
//
// # Endpoint
//
//   - POST /mcp - JSON-RPC requests (initialize, tools/list, tools/call)
//   - GET /mcp - optional server-to-client stream
//   - DELETE /mcp - session termination
//
// # Authentication
//
//	Authorization: Bearer <token>
//
// With RequireAuth set, requests without a valid token receive HTTP 401 and
// never reach mcp-go.
//
// # Tool Execution
//
//	{
//	  "jsonrpc": "2.0",
//	  "method": "tools/call",
//	  "params": {
//	    "name": "startup_idea_generator",
//	    "arguments": {"concept": "coffee"}
//	  },
//	  "id": 2
//	}
//
// Invalid arguments and job requests without a usable goal come back as tool
// results with isError set. Fetch and image decode failures are returned by
// the handler as errors, which mcp-go encodes as JSON-RPC internal errors.
package mcp
