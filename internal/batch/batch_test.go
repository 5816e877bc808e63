package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uivet/uivet/internal/store"
	"github.com/uivet/uivet/pkg/frameworks"
	"github.com/uivet/uivet/pkg/syntax"
)

// faultyParser fails as a collaborator instead of returning diagnostics.
type faultyParser struct{}

func (faultyParser) Check(context.Context, string, frameworks.Framework) ([]syntax.Diagnostic, error) {
	return nil, errors.New("parser exhausted")
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return dir
}

func TestRun_ValidatesTreeInStableOrder(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"a/broken.jsx": "<div><p>Hello</p>",
		"b/clean.jsx":  "const X = () => <div>ok</div>;",
		"notes.txt":    "not source",
	})

	results, summary, err := (&Runner{Workers: 4}).Run(context.Background(), []string{dir})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, filepath.Join(dir, "a/broken.jsx"), results[0].Path)
	assert.Equal(t, filepath.Join(dir, "b/clean.jsx"), results[1].Path)

	assert.False(t, results[0].Result.Valid)
	assert.Contains(t, results[0].Result.Errors, "Unclosed tag: <div>")
	assert.True(t, results[1].Result.Valid)

	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 1, summary.Valid)
}

func TestRun_DetectsFrameworkByExtension(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"App.vue":    "<template><div>ok</div></template>",
		"App.svelte": "<main><p>ok</p></main>",
	})

	results, _, err := (&Runner{}).Run(context.Background(), []string{dir})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, frameworks.Svelte, results[0].Framework)
	assert.Equal(t, frameworks.Vue, results[1].Framework)
}

func TestRun_ForcedFrameworkSkipsDetection(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"thing.js": "const a = 1;"})

	results, _, err := (&Runner{Framework: frameworks.Solid}).Run(context.Background(), []string{dir})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, frameworks.Solid, results[0].Framework)
}

func TestRun_SingleFileRootBypassesExtensionFilter(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"snippet.txt": "<div></div>"})
	path := filepath.Join(dir, "snippet.txt")

	results, _, err := (&Runner{Framework: frameworks.React}).Run(context.Background(), []string{path})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.True(t, results[0].Result.Valid)
}

func TestRun_OversizedFileBecomesInvalidResult(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"big.jsx": "<div>xxxxxxxxxxxxxxxx</div>"})

	results, _, err := (&Runner{MaxFileBytes: 8}).Run(context.Background(), []string{dir})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.False(t, results[0].Result.Valid)
	require.NotEmpty(t, results[0].Result.Errors)
	assert.Contains(t, results[0].Result.Errors[0], "file too large")
}

func TestRun_CacheHitsOnSecondRun(t *testing.T) {
	t.Parallel()

	cache, err := store.OpenCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	dir := writeTree(t, map[string]string{"App.jsx": "const X = () => <div>ok</div>;"})
	runner := &Runner{Cache: cache}

	first, firstSummary, err := runner.Run(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Equal(t, 0, firstSummary.CacheHits)

	second, secondSummary, err := runner.Run(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Equal(t, 1, secondSummary.CacheHits)
	assert.True(t, second[0].FromCache)
	assert.Equal(t, first[0].Result, second[0].Result)
}

func TestRun_ParserFaultAbortsRun(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"a/App.jsx":  "const X = () => <div>ok</div>;",
		"b/Next.jsx": "const Y = () => <p>ok</p>;",
	})

	results, summary, err := (&Runner{Parser: faultyParser{}, Workers: 2}).Run(context.Background(), []string{dir})

	require.Error(t, err)
	assert.ErrorContains(t, err, "parser exhausted")
	assert.ErrorContains(t, err, ".jsx")
	assert.Nil(t, results)
	assert.Equal(t, Summary{}, summary)
}

func TestRun_MissingRootFails(t *testing.T) {
	t.Parallel()

	_, _, err := (&Runner{}).Run(context.Background(), []string{"/nonexistent/tree"})
	assert.Error(t, err)
}

func TestSummary_String(t *testing.T) {
	t.Parallel()

	s := Summary{Files: 3, Valid: 2, Errors: 1, Warnings: 2, Bytes: 2048}

	text := s.String()
	assert.Contains(t, text, "3 files")
	assert.Contains(t, text, "2 valid")
	assert.Contains(t, text, "1 errors")
}
