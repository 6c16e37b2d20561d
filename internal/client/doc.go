// Package client talks to a running startup-mcp server over MCP.
//
// Dial opens a Streamable HTTP session with a bearer token and completes the
// initialize handshake. Call returns flattened results; the typed helpers
// (Validate, StartupIdea, FindJobs, BlackAndWhite) turn error results into
// *ToolError. Protocol-level failures, such as a failed fetch on the server,
// come back as ordinary errors.
//
//	c, err := client.Dial(ctx, client.Config{
//	    URL:   "http://localhost:8086/mcp",
//	    Token: os.Getenv("AUTH_TOKEN"),
//	})
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//	report, err := c.StartupIdea(ctx, "coffee")
package client
