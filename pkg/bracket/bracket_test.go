package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalanced_EmptyInput(t *testing.T) {
	t.Parallel()

	assert.True(t, Balanced("", Braces))
	assert.True(t, Balanced("", Parens))
}

func TestBalanced_SimplePairs(t *testing.T) {
	t.Parallel()

	assert.True(t, Balanced("function f() { return 1; }", Braces))
	assert.True(t, Balanced("f(a, g(b))", Parens))
}

func TestBalanced_MissingClose(t *testing.T) {
	t.Parallel()

	assert.False(t, Balanced("function f() { const x = 1;", Braces))
}

func TestBalanced_MissingOpen(t *testing.T) {
	t.Parallel()

	assert.False(t, Balanced("const x = 1; }", Braces))
}

func TestBalanced_CloseBeforeOpen(t *testing.T) {
	t.Parallel()

	// Zero sum but momentarily negative, so still unbalanced.
	assert.False(t, Balanced("}{", Braces))
	assert.False(t, Balanced(")(", Parens))
}

func TestBalanced_IgnoresStringContent(t *testing.T) {
	t.Parallel()

	assert.True(t, Balanced(`const s = "{{{";`, Braces))
	assert.True(t, Balanced(`const s = '((';`, Parens))
}

func TestBalanced_IgnoresTemplateContent(t *testing.T) {
	t.Parallel()

	assert.True(t, Balanced("const s = `}`;", Braces))
}

func TestBalanced_EscapedQuoteDoesNotLeakBraces(t *testing.T) {
	t.Parallel()

	// The escaped quote keeps the string open, so the brace stays opaque.
	assert.True(t, Balanced(`const s = "a\"{";`, Braces))
}

func TestBalanced_PairsAreIndependent(t *testing.T) {
	t.Parallel()

	src := "f(} "

	assert.False(t, Balanced(src, Parens), "unclosed paren")
	assert.False(t, Balanced(src, Braces), "stray close brace")
}

func TestBalanced_NestedDeep(t *testing.T) {
	t.Parallel()

	assert.True(t, Balanced("{{{{}}}}", Braces))
	assert.False(t, Balanced("{{{{}}}", Braces))
}
