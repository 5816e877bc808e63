// Package imports warns about framework primitives that are used in a
// snippet but never imported. The check is advisory: it matches text
// patterns, not bindings, and is expected to stay quiet on snippets that
// use no module system at all.
package imports

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/uivet/uivet/pkg/frameworks"
)

// Pattern ties a usage substring to the import name expected alongside it.
type Pattern struct {
	Usage  string `json:"usage"  mapstructure:"usage"  yaml:"usage"`
	Import string `json:"import" mapstructure:"import" yaml:"import"`
}

// Table holds the per-framework pattern vocabulary.
type Table map[frameworks.Framework][]Pattern

var (
	// importLine gates the whole check: without at least one line that
	// starts with the import keyword the snippet is treated as inline
	// scratch code and produces no warnings.
	importLine = regexp.MustCompile(`(?m)^[ \t]*import\b`)

	// namedImport captures the brace list of a named import statement,
	// including mixed default-plus-named forms.
	namedImport = regexp.MustCompile(`import\b[^;{]*\{([^}]*)\}`)

	// destructure captures the brace list of a destructuring declaration,
	// the require-style and framework-global counterpart of a named import.
	destructure = regexp.MustCompile(`(?:const|let|var)\s*\{([^}]*)\}\s*=`)
)

// Builtin returns the default vocabulary. The returned table is a fresh
// copy; callers may merge into it freely.
func Builtin() Table {
	return Table{
		frameworks.React: {
			{Usage: "useState(", Import: "useState"},
			{Usage: "useEffect(", Import: "useEffect"},
			{Usage: "useContext(", Import: "useContext"},
			{Usage: "useReducer(", Import: "useReducer"},
			{Usage: "useCallback(", Import: "useCallback"},
			{Usage: "useMemo(", Import: "useMemo"},
			{Usage: "useRef(", Import: "useRef"},
		},
		frameworks.Vue: {
			{Usage: "ref(", Import: "ref"},
			{Usage: "reactive(", Import: "reactive"},
			{Usage: "computed(", Import: "computed"},
			{Usage: "watch(", Import: "watch"},
			{Usage: "onMounted(", Import: "onMounted"},
			{Usage: "onUnmounted(", Import: "onUnmounted"},
		},
		frameworks.Svelte: {
			{Usage: "onMount(", Import: "onMount"},
			{Usage: "onDestroy(", Import: "onDestroy"},
			{Usage: "createEventDispatcher(", Import: "createEventDispatcher"},
			{Usage: "tick(", Import: "tick"},
		},
		frameworks.Solid: {
			{Usage: "createSignal(", Import: "createSignal"},
			{Usage: "createEffect(", Import: "createEffect"},
			{Usage: "createMemo(", Import: "createMemo"},
			{Usage: "onCleanup(", Import: "onCleanup"},
			{Usage: "onMount(", Import: "onMount"},
		},
		frameworks.Vanilla: {},
	}
}

// Check runs the builtin vocabulary against code.
func Check(code string, fw frameworks.Framework) []string {
	return Builtin().Check(code, fw)
}

// Check returns one warning per table entry whose usage pattern occurs
// in code without a matching named import or destructured binding.
// Warnings come back in table order so results are deterministic.
func (t Table) Check(code string, fw frameworks.Framework) []string {
	patterns := t[fw]
	if len(patterns) == 0 || !importLine.MatchString(code) {
		return nil
	}

	imported := importedNames(code)

	var warnings []string

	for _, p := range patterns {
		if !strings.Contains(code, p.Usage) {
			continue
		}

		if _, ok := imported[p.Import]; ok {
			continue
		}

		warnings = append(warnings, fmt.Sprintf("Possibly missing import: %s", p.Import))
	}

	return warnings
}

// Merge returns a new table with extra's patterns appended after t's.
func (t Table) Merge(extra Table) Table {
	merged := make(Table, len(t))

	for fw, patterns := range t {
		merged[fw] = append([]Pattern(nil), patterns...)
	}

	for fw, patterns := range extra {
		merged[fw] = append(merged[fw], patterns...)
	}

	return merged
}

// importedNames collects every identifier bound by a named import or a
// destructuring declaration. Aliases keep their source name: for
// "useState as us" and "useState: us" the vocabulary cares about
// useState, which is what the brace list names first.
func importedNames(code string) map[string]struct{} {
	names := make(map[string]struct{})

	for _, re := range []*regexp.Regexp{namedImport, destructure} {
		for _, m := range re.FindAllStringSubmatch(code, -1) {
			for _, entry := range strings.Split(m[1], ",") {
				if name := leadingIdentifier(strings.TrimSpace(entry)); name != "" {
					names[name] = struct{}{}
				}
			}
		}
	}

	return names
}

// leadingIdentifier returns the identifier prefix of s.
func leadingIdentifier(s string) string {
	end := 0
	for end < len(s) && isIdentChar(s[end]) {
		end++
	}

	return s[:end]
}

func isIdentChar(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
