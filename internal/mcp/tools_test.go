package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uivet/uivet/pkg/frameworks"
	"github.com/uivet/uivet/pkg/syntax"
	"github.com/uivet/uivet/pkg/validator"
)

// faultyParser fails as a collaborator instead of returning diagnostics.
type faultyParser struct{}

var errParserDown = errors.New("parser exhausted")

func (faultyParser) Check(context.Context, string, frameworks.Framework) ([]syntax.Diagnostic, error) {
	return nil, errParserDown
}

func textOf(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return text.Text
}

func TestServer_ListToolNames(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerDeps{})

	assert.Equal(t, []string{ToolNameFrameworks, ToolNameStrip, ToolNameValidate}, srv.ListToolNames())
}

func TestHandleValidate_CleanSnippet(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerDeps{})

	code := "function App() {\n  return <div>hello</div>;\n}\n"

	result, output, err := srv.handleValidate(t.Context(), nil, ValidateInput{
		Code:      code,
		Framework: "react",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	res, ok := output.Data.(validator.Result)
	require.True(t, ok)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestHandleValidate_BrokenSnippet(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerDeps{})

	result, output, err := srv.handleValidate(t.Context(), nil, ValidateInput{
		Code:      "function f() {\n  return <div>;\n",
		Framework: "react",
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	res, ok := output.Data.(validator.Result)
	require.True(t, ok)
	assert.False(t, res.Valid)

	// Result content is JSON and decodes back to the same shape.
	var decoded validator.Result
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &decoded))
	assert.Equal(t, res.Valid, decoded.Valid)
}

func TestHandleValidate_EmptyCode(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerDeps{})

	result, _, err := srv.handleValidate(t.Context(), nil, ValidateInput{Framework: "react"})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "code parameter")
}

func TestHandleValidate_CodeTooLarge(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerDeps{})

	result, _, err := srv.handleValidate(t.Context(), nil, ValidateInput{
		Code:      strings.Repeat("a", MaxCodeInputBytes+1),
		Framework: "react",
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "exceeds maximum size")
}

func TestHandleValidate_UnknownFramework(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerDeps{})

	result, _, err := srv.handleValidate(t.Context(), nil, ValidateInput{
		Code:      "<div></div>",
		Framework: "angular",
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleValidate_ParserFaultPropagatesAsError(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerDeps{
		Validator: validator.New(validator.WithParser(faultyParser{})),
	})

	result, output, err := srv.handleValidate(t.Context(), nil, ValidateInput{
		Code:      "<div></div>",
		Framework: "react",
	})
	require.ErrorIs(t, err, errParserDown)
	assert.Nil(t, result)
	assert.Nil(t, output.Data)
}

func TestHandleStrip_RemovesExpressionBody(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerDeps{})

	result, output, err := srv.handleStrip(t.Context(), nil, StripInput{
		Code: "<td>{value < 3 ? 'low' : 'high'}</td>",
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	stripped, ok := output.Data.(string)
	require.True(t, ok)
	assert.NotContains(t, stripped, "value < 3")
	assert.Contains(t, stripped, "<td>")
	assert.Contains(t, stripped, "</td>")
}

func TestHandleStrip_EmptyCode(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerDeps{})

	result, _, err := srv.handleStrip(t.Context(), nil, StripInput{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleFrameworks_ListsAll(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerDeps{})

	result, output, err := srv.handleFrameworks(t.Context(), nil, FrameworksInput{})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	infos, ok := output.Data.([]frameworkInfo)
	require.True(t, ok)
	require.Len(t, infos, 5)

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}

	assert.Contains(t, names, "react")
	assert.Contains(t, names, "vanilla")

	for _, info := range infos {
		if info.Name == "react" {
			assert.Contains(t, info.Patterns, "useState")
		}
	}
}

func TestErrorResult_SetsIsError(t *testing.T) {
	t.Parallel()

	result, output, err := errorResult(ErrEmptyCode)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Nil(t, output.Data)
}
