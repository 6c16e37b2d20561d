// ABOUTME: MCP client for a running startup-mcp server over Streamable HTTP
// ABOUTME: Wraps mcp-go's client with bearer auth and typed helpers for each tool

package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool names served by startup-mcp.
const (
	ToolValidate      = "validate"
	ToolStartupIdea   = "startup_idea_generator"
	ToolJobFinder     = "job_finder"
	ToolBlackAndWhite = "make_img_black_and_white"
)

// DefaultTimeout bounds each HTTP request made by the transport.
const DefaultTimeout = 60 * time.Second

// Config holds configuration for a server connection.
type Config struct {
	// URL is the MCP endpoint, e.g. http://localhost:8086/mcp.
	URL string

	// Token is sent as "Authorization: Bearer <token>".
	Token string

	// Timeout applies per HTTP request. Zero uses DefaultTimeout.
	Timeout time.Duration

	// ClientName and ClientVersion are reported during initialize.
	ClientName    string
	ClientVersion string
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("server URL is required")
	}
	if !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://") {
		return fmt.Errorf("server URL must be http or https: %s", c.URL)
	}
	if c.Token == "" {
		return fmt.Errorf("token is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// ToolError is returned when a tool answers with an error result.
type ToolError struct {
	Tool    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s returned an error: %s", e.Tool, e.Message)
}

// Image is one image content block.
type Image struct {
	MIMEType string
	Data     []byte
}

// Result is a flattened tool result.
type Result struct {
	Text    string
	Images  []Image
	IsError bool
}

// JobQuery is the input to job_finder.
type JobQuery struct {
	Goal        string
	Description string
	URL         string
	Raw         bool
}

// Client is an initialized MCP session.
type Client struct {
	mcp    *mcpclient.Client
	server mcp.Implementation
}

// Dial connects, starts the transport, and performs the initialize handshake.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ClientName == "" {
		cfg.ClientName = "startup-cli"
	}
	if cfg.ClientVersion == "" {
		cfg.ClientVersion = "dev"
	}

	tr, err := transport.NewStreamableHTTP(cfg.URL,
		transport.WithHTTPHeaders(map[string]string{"Authorization": "Bearer " + cfg.Token}),
		transport.WithHTTPTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	c := mcpclient.NewClient(tr)
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start MCP client: %w", err)
	}

	initRes, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcp.Implementation{Name: cfg.ClientName, Version: cfg.ClientVersion},
		},
	})
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize MCP client: %w", err)
	}

	return &Client{mcp: c, server: initRes.ServerInfo}, nil
}

// Close ends the session.
func (c *Client) Close() error {
	return c.mcp.Close()
}

// ServerInfo returns the name and version reported by the server.
func (c *Client) ServerInfo() mcp.Implementation {
	return c.server
}

// ListTools returns the server's tools.
func (c *Client) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	res, err := c.mcp.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return res.Tools, nil
}

// Call invokes a tool and flattens its content. An error result is returned
// as a Result with IsError set, not as an error.
func (c *Client) Call(ctx context.Context, name string, args map[string]any) (*Result, error) {
	res, err := c.mcp.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call tool %s: %w", name, err)
	}

	out := &Result{IsError: res.IsError}
	var text strings.Builder
	for _, part := range res.Content {
		switch v := part.(type) {
		case mcp.TextContent:
			text.WriteString(v.Text)
		case *mcp.TextContent:
			text.WriteString(v.Text)
		case mcp.ImageContent:
			img, err := decodeImage(v.MIMEType, v.Data)
			if err != nil {
				return nil, err
			}
			out.Images = append(out.Images, img)
		case *mcp.ImageContent:
			img, err := decodeImage(v.MIMEType, v.Data)
			if err != nil {
				return nil, err
			}
			out.Images = append(out.Images, img)
		}
	}
	out.Text = text.String()
	return out, nil
}

func decodeImage(mimeType, data string) (Image, error) {
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return Image{}, fmt.Errorf("failed to decode image content: %w", err)
	}
	return Image{MIMEType: mimeType, Data: b}, nil
}

// callText calls a tool that answers with text and turns error results into
// *ToolError.
func (c *Client) callText(ctx context.Context, name string, args map[string]any) (string, error) {
	res, err := c.Call(ctx, name, args)
	if err != nil {
		return "", err
	}
	if res.IsError {
		return "", &ToolError{Tool: name, Message: res.Text}
	}
	return res.Text, nil
}

// Validate returns the server owner's phone number.
func (c *Client) Validate(ctx context.Context) (string, error) {
	return c.callText(ctx, ToolValidate, map[string]any{})
}

// StartupIdea generates the idea report for concept.
func (c *Client) StartupIdea(ctx context.Context, concept string) (string, error) {
	return c.callText(ctx, ToolStartupIdea, map[string]any{"concept": concept})
}

// FindJobs runs job_finder. Empty optional fields are omitted.
func (c *Client) FindJobs(ctx context.Context, q JobQuery) (string, error) {
	args := map[string]any{"user_goal": q.Goal, "raw": q.Raw}
	if q.Description != "" {
		args["job_description"] = q.Description
	}
	if q.URL != "" {
		args["job_url"] = q.URL
	}
	return c.callText(ctx, ToolJobFinder, args)
}

// BlackAndWhite converts image bytes and returns the PNG.
func (c *Client) BlackAndWhite(ctx context.Context, image []byte) (*Image, error) {
	res, err := c.Call(ctx, ToolBlackAndWhite, map[string]any{
		"puch_image_data": base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, err
	}
	if res.IsError {
		return nil, &ToolError{Tool: ToolBlackAndWhite, Message: res.Text}
	}
	if len(res.Images) == 0 {
		return nil, fmt.Errorf("tool %s returned no image", ToolBlackAndWhite)
	}
	return &res.Images[0], nil
}
