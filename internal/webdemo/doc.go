// Package webdemo provides a browser page for trying the tools by hand.
//
// Each form posts to a /demo/* route that calls tools.Set.Call in-process,
// so arguments pass through the same schema validation and logging as MCP
// calls. Text results are markdown rendered with goldmark; the black and
// white tool's PNG is shown inline as a data URI.
//
// Tool routes require the same bearer token as /mcp. Browsers sign in once
// with the token and carry it in an HttpOnly, SameSite=Strict cookie; API
// callers may send the Authorization header instead. The page itself and the
// tool descriptions are public.
package webdemo
