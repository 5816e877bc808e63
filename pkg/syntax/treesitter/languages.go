package treesitter

import (
	"sync"
	"unsafe"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/alexaandru/go-sitter-forest/javascript"
	"github.com/alexaandru/go-sitter-forest/svelte"
	"github.com/alexaandru/go-sitter-forest/tsx"
	"github.com/alexaandru/go-sitter-forest/typescript"
	"github.com/alexaandru/go-sitter-forest/vue"

	"github.com/uivet/uivet/pkg/frameworks"
)

// Grammar names accepted by the engine.
const (
	GrammarJavaScript = "javascript"
	GrammarTSX        = "tsx"
	GrammarTypeScript = "typescript"
	GrammarVue        = "vue"
	GrammarSvelte     = "svelte"
)

// grammarFuncs maps grammar names to their tree-sitter GetLanguage
// functions. Only the grammars the validator targets are linked in.
var grammarFuncs = map[string]func() unsafe.Pointer{
	GrammarJavaScript: javascript.GetLanguage,
	GrammarTSX:        tsx.GetLanguage,
	GrammarTypeScript: typescript.GetLanguage,
	GrammarVue:        vue.GetLanguage,
	GrammarSvelte:     svelte.GetLanguage,
}

// frameworkGrammar maps each framework to the grammar that parses its
// source. React and Solid both embed JSX in TS-compatible syntax, so the
// tsx grammar covers them.
var frameworkGrammar = map[frameworks.Framework]string{
	frameworks.React:   GrammarTSX,
	frameworks.Solid:   GrammarTSX,
	frameworks.Vue:     GrammarVue,
	frameworks.Svelte:  GrammarSvelte,
	frameworks.Vanilla: GrammarJavaScript,
}

// languageCache caches constructed sitter.Language values per grammar
// name. Language construction crosses the CGO boundary; the result is
// immutable and safe to share.
var languageCache sync.Map

// language returns the cached tree-sitter language for a grammar name.
func language(name string) (*sitter.Language, bool) {
	if cached, ok := languageCache.Load(name); ok {
		lang, castOK := cached.(*sitter.Language)
		if castOK {
			return lang, true
		}
	}

	fn, ok := grammarFuncs[name]
	if !ok {
		return nil, false
	}

	lang := sitter.NewLanguage(fn())
	languageCache.Store(name, lang)

	return lang, true
}
