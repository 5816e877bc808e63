// Package bracket checks that a single kind of bracket pair is balanced
// across a snippet, ignoring brackets inside string and template literals.
package bracket

import "github.com/uivet/uivet/pkg/scan"

// Pair describes one open/close bracket kind.
type Pair struct {
	Open  rune
	Close rune
}

// Braces is the curly brace pair.
var Braces = Pair{Open: '{', Close: '}'}

// Parens is the parenthesis pair.
var Parens = Pair{Open: '(', Close: ')'}

// Balanced reports whether src contains a balanced sequence of the pair.
// Opens increment and closes decrement a single counter; a close with no
// matching open fails immediately, so "}{"-style sequences are rejected
// even though they sum to zero. Brackets inside string or template
// literals never count. Each call is independent and shares no state.
func Balanced(src string, p Pair) bool {
	var st scan.State

	depth := 0

	for _, ch := range src {
		if !st.Consume(ch) {
			continue
		}

		switch ch {
		case p.Open:
			depth++
		case p.Close:
			depth--
			if depth < 0 {
				return false
			}
		}
	}

	return depth == 0
}
