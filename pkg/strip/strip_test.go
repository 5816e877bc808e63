package strip

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpressions_PlainCodeUntouched(t *testing.T) {
	t.Parallel()

	src := "function f() { const x = 1; }"

	assert.Equal(t, src, Expressions(src))
}

func TestExpressions_ChildExpressionStripped(t *testing.T) {
	t.Parallel()

	got := Expressions("<div>{count}</div>")

	assert.Equal(t, "<div>{}</div>", got)
}

func TestExpressions_ComparisonInsideExpressionHidden(t *testing.T) {
	t.Parallel()

	got := Expressions("<div>{a < b ? x : y}</div>")

	assert.Equal(t, "<div>{}</div>", got)
	assert.NotContains(t, got, "<b", "angle text inside the block must not leak")
}

func TestExpressions_AttributeExpressionStripped(t *testing.T) {
	t.Parallel()

	got := Expressions(`<button onClick={() => setCount(c + 1)}>Go</button>`)

	assert.Equal(t, "<button onClick={}>Go</button>", got)
}

func TestExpressions_NestedObjectLiteralInAttribute(t *testing.T) {
	t.Parallel()

	got := Expressions(`<div style={{ color: 'red' }}>x</div>`)

	assert.Equal(t, "<div style={}>x</div>", got)
}

func TestExpressions_WhitespaceAfterTagStillTagContext(t *testing.T) {
	t.Parallel()

	got := Expressions("<div>  {count}</div>")

	assert.Equal(t, "<div>  {}</div>", got)
}

func TestExpressions_FunctionBodyBraceCopied(t *testing.T) {
	t.Parallel()

	src := "const f = () => { return 1; };"

	assert.Equal(t, src, Expressions(src))
}

func TestExpressions_ObjectLiteralOutsideMarkupCopied(t *testing.T) {
	t.Parallel()

	src := "const style = { color: 'red' };"

	assert.Equal(t, src, Expressions(src))
}

func TestExpressions_BracesInsideStringsOpaque(t *testing.T) {
	t.Parallel()

	src := `<div>{"{literal}"}</div> "{untouched}"`

	got := Expressions(src)

	assert.Equal(t, `<div>{}</div> "{untouched}"`, got)
}

func TestExpressions_TemplateInsideExpressionDropped(t *testing.T) {
	t.Parallel()

	got := Expressions("<span>{`a}b`}</span>")

	assert.Equal(t, "<span>{}</span>", got)
}

func TestExpressions_MarkupInsideExpressionDropped(t *testing.T) {
	t.Parallel()

	got := Expressions("<ul>{items.map(i => <li>{i}</li>)}</ul>")

	assert.Equal(t, "<ul>{}</ul>", got)
}

func TestExpressions_UnterminatedBlockDropsToEnd(t *testing.T) {
	t.Parallel()

	got := Expressions("<div>{count")

	assert.Equal(t, "<div>{", got)
}

func TestExpressions_StrayCloseBraceCopied(t *testing.T) {
	t.Parallel()

	src := "const x = 1; }"

	assert.Equal(t, src, Expressions(src))
}

func TestExpressions_GenericAngleMisreadIsStable(t *testing.T) {
	t.Parallel()

	// A trailing generic return type looks like a closed tag to the
	// window heuristic, so the body brace becomes a placeholder pair.
	// Known misread; downstream consumers rely on it staying stable.
	got := Expressions("function f(): Array<Item> { return items; }")

	assert.Equal(t, "function f(): Array<Item> {}", got)
}

func TestExpressions_ArrowBodyNotTreatedAsExpression(t *testing.T) {
	t.Parallel()

	src := "const add = (a, b) => { return a + b; };"

	assert.Equal(t, src, Expressions(src))
}

func TestExpressions_WindowBoundsLongPrefix(t *testing.T) {
	t.Parallel()

	// The `>` sits beyond the lookback window, so the brace reads as
	// plain code and copies through with its body.
	src := "<div>" + strings.Repeat("a", LookbackWindow+1) + "{x}"

	assert.Equal(t, src, Expressions(src))
}

func TestExpressions_EmptyInput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Expressions(""))
}

func TestExpressions_OpenTagAttributePositionDetected(t *testing.T) {
	t.Parallel()

	got := Expressions(`<Widget size={dims.w} on>done</Widget>`)

	assert.Equal(t, "<Widget size={} on>done</Widget>", got)
}
