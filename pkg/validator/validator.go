// Package validator orchestrates the validation of machine-generated UI
// snippets. A syntax phase runs first; only when it finds nothing do the
// structural checks run: tag pairing, import heuristics, brace balance
// and paren balance, in that fixed order.
package validator

import (
	"context"
	"fmt"

	"github.com/uivet/uivet/pkg/bracket"
	"github.com/uivet/uivet/pkg/frameworks"
	"github.com/uivet/uivet/pkg/imports"
	"github.com/uivet/uivet/pkg/strip"
	"github.com/uivet/uivet/pkg/syntax"
	"github.com/uivet/uivet/pkg/tags"
)

// Structural error messages. Callers substring-match these, so the
// wording is part of the contract.
const (
	msgUnbalancedBraces = "Unbalanced braces detected"
	msgUnmatchedParens  = "Unmatched parentheses detected"
)

// Result is the outcome of one validation call. Errors and Warnings are
// never nil, so JSON consumers always see arrays.
type Result struct {
	Valid    bool     `json:"valid"    yaml:"valid"`
	Errors   []string `json:"errors"   yaml:"errors"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// Option configures a Validator.
type Option func(*Validator)

// WithParser sets the syntax-phase collaborator. The default is the
// lexical tokenizer.
func WithParser(p syntax.Parser) Option {
	return func(v *Validator) {
		v.parser = p
	}
}

// WithPatterns sets the import-heuristic vocabulary. The default is the
// builtin per-framework table.
func WithPatterns(t imports.Table) Option {
	return func(v *Validator) {
		v.patterns = t
	}
}

// Validator runs the two-phase validation sequence. It holds only
// immutable configuration; every call allocates its own scan state, so
// concurrent calls on distinct inputs need no locking.
type Validator struct {
	parser   syntax.Parser
	patterns imports.Table
}

// New creates a Validator with the default lexical engine and builtin
// import vocabulary, then applies opts.
func New(opts ...Option) *Validator {
	v := &Validator{
		parser:   syntax.Lexical{},
		patterns: imports.Builtin(),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate checks code for the given framework and always returns a
// Result, never panicking on malformed input. A collaborator fault from
// the syntax parser surfaces as a single error entry; use ValidateE to
// receive it as a Go error instead.
func (v *Validator) Validate(ctx context.Context, code string, fw frameworks.Framework) Result {
	result, err := v.ValidateE(ctx, code, fw)
	if err != nil {
		return finalize(Result{Errors: []string{fmt.Sprintf("Line 1: %v", err)}})
	}

	return result
}

// ValidateE is Validate with the collaborator fault channel exposed.
// The built-in engines never return a non-nil error.
func (v *Validator) ValidateE(ctx context.Context, code string, fw frameworks.Framework) (Result, error) {
	var result Result

	diags, err := v.parser.Check(ctx, code, fw)
	if err != nil {
		return Result{}, fmt.Errorf("syntax parser: %w", err)
	}

	if len(diags) > 0 {
		for _, d := range diags {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: %s", d.Line, d.Message))
		}

		return finalize(result), nil
	}

	return finalize(v.structural(code, fw)), nil
}

// structural runs the four structural checks in their fixed order. All
// four always run; their findings are concatenated.
func (v *Validator) structural(code string, fw frameworks.Framework) Result {
	var result Result

	result.Errors = append(result.Errors, tags.Validate(strip.Expressions(code))...)
	result.Warnings = append(result.Warnings, v.patterns.Check(code, fw)...)

	if !bracket.Balanced(code, bracket.Braces) {
		result.Errors = append(result.Errors, msgUnbalancedBraces)
	}

	if !bracket.Balanced(code, bracket.Parens) {
		result.Errors = append(result.Errors, msgUnmatchedParens)
	}

	return result
}

// finalize computes validity and normalizes nil slices to empty ones.
func finalize(r Result) Result {
	if r.Errors == nil {
		r.Errors = []string{}
	}

	if r.Warnings == nil {
		r.Warnings = []string{}
	}

	r.Valid = len(r.Errors) == 0

	return r
}

// Validate runs a one-off validation with the default configuration.
func Validate(code string, fw frameworks.Framework) Result {
	return New().Validate(context.Background(), code, fw)
}
