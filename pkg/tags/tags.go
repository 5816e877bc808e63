// Package tags validates tag pairing in markup-bearing source text
// using a token regex and a plain stack. Callers hand it text that has
// already had JSX expression bodies stripped, so brace interiors cannot
// masquerade as markup.
package tags

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// tagToken matches tag-shaped substrings: an optional `/` for closing
// tags, a name starting with a letter and continuing with letters,
// digits or dots (namespaced components), then anything up to `>`.
var tagToken = regexp.MustCompile(`<(/?)([A-Za-z][A-Za-z0-9.]*)([^>]*)>`)

// voidElements are HTML elements that never take a closing tag. Matched
// on the lowercased name so <BR/> and <br> behave alike.
var voidElements = map[string]struct{}{
	"img": {}, "br": {}, "hr": {}, "input": {}, "meta": {},
	"link": {}, "area": {}, "base": {}, "col": {}, "embed": {},
	"param": {}, "source": {}, "track": {}, "wbr": {},
}

// IsVoid reports whether name is a void element. Comparison is
// case-insensitive.
func IsVoid(name string) bool {
	_, ok := voidElements[strings.ToLower(name)]

	return ok
}

// VoidElements returns the void element names in sorted order.
func VoidElements() []string {
	names := make([]string, 0, len(voidElements))
	for name := range voidElements {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Validate scans stripped source text and returns pairing errors in
// discovery order. Self-closing matches and void elements have no stack
// effect. A closing tag pops on an exact, case-sensitive match with the
// stack top; otherwise it reports an unexpected-closing error and the
// stack is left untouched so the scan can continue. Tags still open at
// the end are reported outermost first.
func Validate(stripped string) []string {
	var (
		stack  []string
		errors []string
	)

	for _, m := range tagToken.FindAllStringSubmatch(stripped, -1) {
		closing := m[1] == "/"
		name := m[2]
		selfClosing := strings.HasSuffix(m[3], "/")

		if selfClosing || IsVoid(name) {
			continue
		}

		if closing {
			if len(stack) > 0 && stack[len(stack)-1] == name {
				stack = stack[:len(stack)-1]

				continue
			}

			errors = append(errors, fmt.Sprintf("Unexpected closing tag: </%s>", name))

			continue
		}

		stack = append(stack, name)
	}

	for _, name := range stack {
		errors = append(errors, fmt.Sprintf("Unclosed tag: <%s>", name))
	}

	return errors
}
