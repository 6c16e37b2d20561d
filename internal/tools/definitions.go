// ABOUTME: Definitions and handlers for validate, startup_idea_generator, job_finder, and
// ABOUTME: make_img_black_and_white. Descriptions carry description/use_when/side_effects JSON.

package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Prahants/mcp-startup-generator/internal/idea"
	"github.com/Prahants/mcp-startup-generator/internal/imaging"
	"github.com/Prahants/mcp-startup-generator/internal/jobs"
)

// Registered tool names.
const (
	NameValidate      = "validate"
	NameStartupIdea   = "startup_idea_generator"
	NameJobFinder     = "job_finder"
	NameBlackAndWhite = "make_img_black_and_white"
)

// RichDescription is serialized as the tool description so agents get usage
// guidance alongside the summary.
type RichDescription struct {
	Description string  `json:"description"`
	UseWhen     string  `json:"use_when"`
	SideEffects *string `json:"side_effects"`
}

// String returns the compact JSON form.
func (d RichDescription) String() string {
	b, err := json.Marshal(d)
	if err != nil {
		return d.Description
	}
	return string(b)
}

func sideEffects(s string) *string { return &s }

// Describe returns the tool's rich description. Plain descriptions come back
// in the Description field only.
func (t Tool) Describe() RichDescription {
	var d RichDescription
	if err := json.Unmarshal([]byte(t.Definition.Description), &d); err != nil || d.Description == "" {
		return RichDescription{Description: t.Definition.Description}
	}
	return d
}

var (
	startupIdeaDescription = RichDescription{
		Description: "Generate a comprehensive startup idea and execution plan based on a given noun or concept.",
		UseWhen:     "Use this tool when the user provides a noun or concept and wants a startup idea with execution plan.",
		SideEffects: sideEffects("Returns a detailed startup idea with market analysis, execution plan, and growth strategy."),
	}

	jobFinderDescription = RichDescription{
		Description: "Smart job tool: analyze descriptions, fetch URLs, or search jobs based on free text.",
		UseWhen:     "Use this to evaluate job descriptions or search for jobs using freeform goals.",
		SideEffects: sideEffects("Returns insights, fetched job descriptions, or relevant job links."),
	}

	blackAndWhiteDescription = RichDescription{
		Description: "Convert an image to black and white and save it.",
		UseWhen:     "Use this tool when the user provides an image URL and requests it to be converted to black and white.",
		SideEffects: sideEffects("The image will be processed and saved in a black and white format."),
	}
)

type definition struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

func definitions(deps Deps) []definition {
	return []definition{
		{
			tool: mcp.NewTool(NameValidate,
				mcp.WithDescription("Return the phone number of the server owner for client validation."),
			),
			handler: validateHandler(deps.Phone),
		},
		{
			tool: mcp.NewTool(NameStartupIdea,
				mcp.WithDescription(startupIdeaDescription.String()),
				mcp.WithString("concept",
					mcp.Required(),
					mcp.Description("The noun or concept to base the startup idea on (e.g., 'coffee', 'books', 'fitness')"),
				),
			),
			handler: startupIdeaHandler,
		},
		{
			tool: mcp.NewTool(NameJobFinder,
				mcp.WithDescription(jobFinderDescription.String()),
				mcp.WithString("user_goal",
					mcp.Required(),
					mcp.Description("The user's goal (can be a description, intent, or freeform query)"),
				),
				mcp.WithString("job_description",
					mcp.Description("Full job description text, if available."),
				),
				mcp.WithString("job_url",
					mcp.Description("A URL to fetch a job description from."),
				),
				mcp.WithBoolean("raw",
					mcp.Description("Return raw HTML content if True"),
					mcp.DefaultBool(false),
				),
			),
			handler: jobFinderHandler(deps.Jobs),
		},
		{
			tool: mcp.NewTool(NameBlackAndWhite,
				mcp.WithDescription(blackAndWhiteDescription.String()),
				mcp.WithString("puch_image_data",
					mcp.Required(),
					mcp.Description("Base64-encoded image data to convert to black and white"),
				),
			),
			handler: blackAndWhiteHandler,
		},
	}
}

func validateHandler(phone string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(phone), nil
	}
}

func startupIdeaHandler(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	concept, err := req.RequireString("concept")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(idea.Generate(concept)), nil
}

func jobFinderHandler(finder JobFinder) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		goal, err := req.RequireString("user_goal")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		out, err := finder.Find(ctx, jobs.Request{
			Goal:        goal,
			Description: req.GetString("job_description", ""),
			URL:         req.GetString("job_url", ""),
			Raw:         req.GetBool("raw", false),
		})
		if errors.Is(err, jobs.ErrInvalidParams) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(out), nil
	}
}

func blackAndWhiteHandler(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := req.RequireString("puch_image_data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := imaging.ToGrayscale(data)
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewImageContent(res.Base64, res.MIME)},
	}, nil
}
