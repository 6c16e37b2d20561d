// Package tools defines the four MCP tools served by startup-mcp and the Set
// that holds them.
//
// Each tool pairs an mcp.Tool (name, rich JSON description, input schema) with
// a handler. NewSet compiles every input schema once; wrapped handlers check
// arguments against it before running and log each call with a request ID.
// Argument problems come back as error results so the calling agent can
// correct itself. Handler failures such as a failed fetch are returned as Go
// errors and reach the client as JSON-RPC errors.
//
// The same Set backs both the MCP server (Register) and the demo front-end
// (Call), so the two always behave identically.
package tools
