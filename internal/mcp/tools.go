package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/uivet/uivet/pkg/frameworks"
	"github.com/uivet/uivet/pkg/strip"
)

// Tool name constants.
const (
	ToolNameValidate   = "uivet_validate"
	ToolNameStrip      = "uivet_strip"
	ToolNameFrameworks = "uivet_frameworks"
)

// MaxCodeInputBytes is the maximum allowed size for inline code input (1 MiB).
const MaxCodeInputBytes = 1 << 20

// Sentinel errors for tool input validation.
var (
	// ErrEmptyCode indicates the code parameter is empty.
	ErrEmptyCode = errors.New("code parameter is required and must not be empty")
	// ErrCodeTooLarge indicates the code input exceeds the size limit.
	ErrCodeTooLarge = errors.New("code input exceeds maximum size")
)

// ValidateInput is the input schema for the uivet_validate tool.
type ValidateInput struct {
	Code      string `json:"code"      jsonschema:"UI source snippet to validate"`
	Framework string `json:"framework" jsonschema:"target framework (react vue svelte solid vanilla)"`
}

// StripInput is the input schema for the uivet_strip tool.
type StripInput struct {
	Code string `json:"code" jsonschema:"UI source snippet to strip JSX expressions from"`
}

// FrameworksInput is the (empty) input schema for the uivet_frameworks tool.
type FrameworksInput struct{}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// frameworkInfo is one row of the uivet_frameworks response.
type frameworkInfo struct {
	Name     string   `json:"name"`
	Patterns []string `json:"patterns"`
}

func (s *Server) handleValidate(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ValidateInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	validateErr := validateCodeInput(input.Code)
	if validateErr != nil {
		return errorResult(validateErr)
	}

	fw, parseErr := frameworks.Parse(input.Framework)
	if parseErr != nil {
		return errorResult(parseErr)
	}

	result, err := s.validator.ValidateE(ctx, input.Code, fw)
	if err != nil {
		return nil, ToolOutput{}, err
	}

	return jsonResult(result)
}

func (s *Server) handleStrip(
	_ context.Context, _ *mcpsdk.CallToolRequest, input StripInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	validateErr := validateCodeInput(input.Code)
	if validateErr != nil {
		return errorResult(validateErr)
	}

	stripped := strip.Expressions(input.Code)

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: stripped},
		},
	}, ToolOutput{Data: stripped}, nil
}

func (s *Server) handleFrameworks(
	_ context.Context, _ *mcpsdk.CallToolRequest, _ FrameworksInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	infos := make([]frameworkInfo, 0, len(frameworks.All()))

	for _, fw := range frameworks.All() {
		patterns := make([]string, 0, len(s.patterns[fw]))
		for _, p := range s.patterns[fw] {
			patterns = append(patterns, p.Import)
		}

		infos = append(infos, frameworkInfo{Name: fw.String(), Patterns: patterns})
	}

	return jsonResult(infos)
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// validateCodeInput checks common code input constraints.
func validateCodeInput(code string) error {
	if code == "" {
		return ErrEmptyCode
	}

	if len(code) > MaxCodeInputBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrCodeTooLarge, len(code), MaxCodeInputBytes)
	}

	return nil
}
