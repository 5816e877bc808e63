package syntax

import (
	"context"

	"github.com/uivet/uivet/pkg/frameworks"
	"github.com/uivet/uivet/pkg/scan"
)

// Unterminated-literal diagnostic texts.
const (
	msgUnterminatedString   = "Unterminated string literal"
	msgUnterminatedTemplate = "Unterminated template literal"
)

// Lexical is the default syntax engine: a minimal tokenizer over the
// literal scanner. It flags only genuine lexical breakage, meaning
// string literals left open at end of line and string or template
// literals left open at end of input. Block structure is deliberately
// out of scope here; unclosed braces belong to the structural phase,
// which reports them with their own messages.
type Lexical struct{}

var _ Parser = Lexical{}

// Check scans code once and returns unterminated-literal diagnostics
// anchored to the line where the literal opened.
func (Lexical) Check(_ context.Context, code string, _ frameworks.Framework) ([]Diagnostic, error) {
	var (
		st    scan.State
		diags []Diagnostic
	)

	line := 1
	openLine := 0

	for _, ch := range code {
		if ch == '\n' {
			escaped := st.Escaped()
			st.Consume(ch)

			mode := st.Mode()
			if !escaped && (mode == scan.ModeSingle || mode == scan.ModeDouble) {
				diags = append(diags, Diagnostic{Line: openLine, Message: msgUnterminatedString})
				st.Reset()
			}

			line++

			continue
		}

		wasIn := st.InLiteral()
		st.Consume(ch)

		if !wasIn && st.InLiteral() {
			openLine = line
		}
	}

	switch st.Mode() {
	case scan.ModeSingle, scan.ModeDouble:
		diags = append(diags, Diagnostic{Line: openLine, Message: msgUnterminatedString})
	case scan.ModeTemplate:
		diags = append(diags, Diagnostic{Line: openLine, Message: msgUnterminatedTemplate})
	}

	return diags, nil
}
