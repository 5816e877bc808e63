// Package frameworks defines the UI frameworks the validator understands
// and maps source files to them for batch surfaces. Detection never
// changes validation semantics; it only picks the import vocabulary.
package frameworks

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/src-d/enry/v2"
)

// Framework selects an import-pattern vocabulary for validation.
type Framework string

// The closed set of supported frameworks.
const (
	React   Framework = "react"
	Vue     Framework = "vue"
	Svelte  Framework = "svelte"
	Solid   Framework = "solid"
	Vanilla Framework = "vanilla"
)

// ErrUnknown reports a framework name outside the supported set.
var ErrUnknown = errors.New("unknown framework")

// All returns the supported frameworks in stable order.
func All() []Framework {
	return []Framework{React, Vue, Svelte, Solid, Vanilla}
}

// String returns the lowercase framework name.
func (f Framework) String() string {
	return string(f)
}

// Parse maps a name to a Framework. Matching is case-insensitive and
// trims surrounding whitespace.
func Parse(name string) (Framework, error) {
	switch Framework(strings.ToLower(strings.TrimSpace(name))) {
	case React:
		return React, nil
	case Vue:
		return Vue, nil
	case Svelte:
		return Svelte, nil
	case Solid:
		return Solid, nil
	case Vanilla:
		return Vanilla, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknown, name)
	}
}

// SupportedExtensions lists the file extensions batch walkers consider.
func SupportedExtensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".vue", ".svelte"}
}

// jsLanguages are the enry language names treated as UI source.
var jsLanguages = map[string]struct{}{
	"JavaScript": {},
	"TypeScript": {},
	"TSX":        {},
	"JSX":        {},
}

// DetectFile maps a file to the framework used to validate it. The
// extension decides for single-framework file types; for plain JS/TS
// files enry confirms the language and module specifiers in the content
// break the tie. ok is false for files the validator does not cover.
func DetectFile(name string, content []byte) (Framework, bool) {
	base := path.Base(name)

	switch strings.ToLower(path.Ext(base)) {
	case ".vue":
		return Vue, true
	case ".svelte":
		return Svelte, true
	case ".jsx", ".tsx":
		if mentionsModule(content, "solid-js") {
			return Solid, true
		}

		return React, true
	}

	lang := enry.GetLanguage(base, content)
	if _, ok := jsLanguages[lang]; !ok {
		return "", false
	}

	return sniffModules(content), true
}

// sniffModules picks a framework from module specifiers in the content,
// falling back to vanilla when none appears.
func sniffModules(content []byte) Framework {
	switch {
	case mentionsModule(content, "solid-js"):
		return Solid
	case mentionsModule(content, "react"):
		return React
	case mentionsModule(content, "vue"):
		return Vue
	case mentionsModule(content, "svelte"):
		return Svelte
	default:
		return Vanilla
	}
}

// mentionsModule reports whether content references the module as a
// quoted specifier.
func mentionsModule(content []byte, module string) bool {
	return bytes.Contains(content, []byte("'"+module+"'")) ||
		bytes.Contains(content, []byte(`"`+module+`"`))
}
