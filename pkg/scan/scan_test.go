package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// consumeAll runs src through a fresh State and returns, per character,
// whether it was reported as structural code text.
func consumeAll(src string) []bool {
	var st State

	out := make([]bool, 0, len(src))
	for _, ch := range src {
		out = append(out, st.Consume(ch))
	}

	return out
}

func TestConsume_PlainTextIsStructural(t *testing.T) {
	t.Parallel()

	for _, visible := range consumeAll("const x = 1;") {
		assert.True(t, visible)
	}
}

func TestConsume_StringContentIsOpaque(t *testing.T) {
	t.Parallel()

	got := consumeAll(`a"{}"b`)

	assert.Equal(t, []bool{true, false, false, false, false, true}, got)
}

func TestConsume_SingleQuoteString(t *testing.T) {
	t.Parallel()

	got := consumeAll(`x'('y`)

	assert.Equal(t, []bool{true, false, false, false, true}, got)
}

func TestConsume_TemplateLiteral(t *testing.T) {
	t.Parallel()

	got := consumeAll("a`{`b")

	assert.Equal(t, []bool{true, false, false, false, true}, got)
}

func TestConsume_EscapedQuoteStaysOpen(t *testing.T) {
	t.Parallel()

	var st State

	for _, ch := range `"\"` {
		st.Consume(ch)
	}

	assert.Equal(t, ModeDouble, st.Mode(), "escaped quote must not close the string")
}

func TestConsume_EscapedBackslashThenQuoteCloses(t *testing.T) {
	t.Parallel()

	var st State

	for _, ch := range `"\\"` {
		st.Consume(ch)
	}

	assert.Equal(t, ModeNone, st.Mode(), "escaped backslash leaves the next quote live")
}

func TestConsume_BackslashOutsideLiteralIsStructural(t *testing.T) {
	t.Parallel()

	var st State

	assert.True(t, st.Consume('\\'))
	assert.False(t, st.InLiteral())
}

func TestConsume_OtherQuoteKindIsContent(t *testing.T) {
	t.Parallel()

	var st State

	st.Consume('"')
	st.Consume('\'')

	assert.Equal(t, ModeDouble, st.Mode(), "single quote inside double string is content")

	st.Consume('`')

	assert.Equal(t, ModeDouble, st.Mode(), "backtick inside double string is content")
}

func TestConsume_QuoteInsideTemplateIsContent(t *testing.T) {
	t.Parallel()

	var st State

	st.Consume('`')
	st.Consume('"')
	st.Consume('\'')

	assert.Equal(t, ModeTemplate, st.Mode())
}

func TestConsume_EscapeInsideTemplate(t *testing.T) {
	t.Parallel()

	var st State

	for _, ch := range "`\\`" {
		st.Consume(ch)
	}

	assert.Equal(t, ModeTemplate, st.Mode(), "escaped backtick must not close the template")
}

func TestConsume_NewlineHasNoScannerMeaning(t *testing.T) {
	t.Parallel()

	var st State

	st.Consume('"')
	st.Consume('\n')

	assert.Equal(t, ModeDouble, st.Mode(), "string stays open across a raw newline")
}

func TestReset_ClearsModeAndEscape(t *testing.T) {
	t.Parallel()

	var st State

	st.Consume('"')
	st.Consume('\\')
	st.Reset()

	assert.Equal(t, ModeNone, st.Mode())
	assert.True(t, st.Consume('x'), "no stale escape after reset")
}

func TestMode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", ModeNone.String())
	assert.Equal(t, "single", ModeSingle.String())
	assert.Equal(t, "double", ModeDouble.String())
	assert.Equal(t, "template", ModeTemplate.String())
}
