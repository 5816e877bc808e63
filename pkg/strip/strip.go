// Package strip removes JSX expression bodies from a snippet so that
// tag matching never reads `{...}` interiors, where comparison operators
// and string fragments routinely look like markup.
package strip

import (
	"unicode"

	"github.com/uivet/uivet/pkg/scan"
)

// LookbackWindow is the number of already-emitted characters inspected
// to decide whether a `{` opens a JSX expression. The window check is a
// local heuristic, not a parse: it can misread generic type arguments as
// tags and deeply nested attribute literals as plain code. Downstream
// checks accept that tradeoff, so keep the behavior stable.
const LookbackWindow = 50

// Expressions returns src with every JSX expression block interior
// removed. A `{` in plain code opens an expression block when the
// emitted text behind it ends in `>` or sits in an open tag's attribute
// position (`<TagName ...` with no `>` yet). The block runs through its
// matching `}`, tracked with nested, literal-aware depth. The two brace
// characters stay in the output as placeholders so offsets survive for
// reporting; everything between them is dropped. All other text copies
// through unchanged, including braces that fail the window check.
func Expressions(src string) string {
	var (
		st  scan.State
		out []rune
	)

	exprDepth := 0

	for _, ch := range src {
		structural := st.Consume(ch)

		if exprDepth > 0 {
			if structural {
				switch ch {
				case '{':
					exprDepth++
				case '}':
					exprDepth--
					if exprDepth == 0 {
						out = append(out, '}')
					}
				}
			}

			continue
		}

		if structural && ch == '{' && tagContext(tail(out, LookbackWindow)) {
			out = append(out, '{')
			exprDepth = 1

			continue
		}

		out = append(out, ch)
	}

	return string(out)
}

// tail returns at most the last n runes of out.
func tail(out []rune, n int) []rune {
	if len(out) <= n {
		return out
	}

	return out[len(out)-n:]
}

// tagContext reports whether window ends where a JSX expression is
// expected: directly after a closed tag, or inside an open tag that has
// not reached its `>` yet. Arrow heads (`=>`) do not count as a closed
// tag; without that exclusion every arrow function body would vanish
// from tag matching.
func tagContext(window []rune) bool {
	trimmed := window
	for len(trimmed) > 0 && unicode.IsSpace(trimmed[len(trimmed)-1]) {
		trimmed = trimmed[:len(trimmed)-1]
	}

	if n := len(trimmed); n > 0 && trimmed[n-1] == '>' {
		if n > 1 && trimmed[n-2] == '=' {
			return false
		}

		return true
	}

	open := lastIndexRune(window, '<')
	if open < 0 || open+1 >= len(window) {
		return false
	}

	if !unicode.IsLetter(window[open+1]) {
		return false
	}

	for _, r := range window[open+1:] {
		if r == '>' {
			return false
		}
	}

	return true
}

func lastIndexRune(rs []rune, ch rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == ch {
			return i
		}
	}

	return -1
}
