// ABOUTME: JSON Schema compilation and validation for tool arguments.
// ABOUTME: Flattens validation failures into a short message for the caller.

package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

func compileSchema(t mcp.Tool) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(t.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal input schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	resource := t.Name + ".json"
	if err := c.AddResource(resource, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("schema resource: %w", err)
	}
	s, err := c.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
}

// validateArgs returns an empty string when args satisfy the schema.
func validateArgs(s *jsonschema.Schema, args map[string]any) string {
	if args == nil {
		args = map[string]any{}
	}
	// Normalize Go values (int, []string) to their JSON-decoded forms.
	raw, err := json.Marshal(args)
	if err != nil {
		return "invalid arguments: " + err.Error()
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "invalid arguments: " + err.Error()
	}

	err = s.Validate(doc)
	if err == nil {
		return ""
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return "invalid arguments: " + err.Error()
	}
	var msgs []string
	collectLeaves(ve, &msgs)
	return "invalid arguments: " + strings.Join(msgs, "; ")
}

func collectLeaves(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, loc+": "+ve.Message)
		return
	}
	for _, c := range ve.Causes {
		collectLeaves(c, out)
	}
}
