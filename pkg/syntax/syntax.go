// Package syntax defines the syntax-phase collaborator contract used by
// the validation orchestrator. Any parser satisfying "zero diagnostics
// means structurally checkable" can stand in: the built-in lexical
// tokenizer, the tree-sitter engine, or an external integration.
package syntax

import (
	"context"

	"github.com/uivet/uivet/pkg/frameworks"
)

// Diagnostic is one parse finding. Line is 1-based.
type Diagnostic struct {
	Line    int
	Message string
}

// Parser inspects a snippet for genuine parse errors before structural
// checks run. Diagnostics describe malformed input and are data, never
// errors; the error return is reserved for faults inside the parser
// itself, such as resource exhaustion on pathological input.
type Parser interface {
	Check(ctx context.Context, code string, fw frameworks.Framework) ([]Diagnostic, error)
}
