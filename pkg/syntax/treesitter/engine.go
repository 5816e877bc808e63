// Package treesitter is the full-parser syntax engine: it parses a
// snippet with a real grammar and reports parse-tree ERROR and missing
// nodes as diagnostics. It satisfies the same collaborator contract as
// the default lexical tokenizer, so the orchestrator treats both alike.
package treesitter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/uivet/uivet/pkg/frameworks"
	"github.com/uivet/uivet/pkg/syntax"
)

// Sentinel errors for engine faults.
var (
	ErrGrammarUnavailable = errors.New("tree-sitter grammar not available")
	errNoRootNode         = errors.New("tree-sitter: no root node")
	errPoolType           = errors.New("tree-sitter: pool returned unexpected type")
)

// Engine parses snippets with tree-sitter grammars, one parser pool per
// grammar. The zero value is not usable; call New.
type Engine struct {
	pools map[string]*sync.Pool
	mu    sync.Mutex
}

var _ syntax.Parser = (*Engine)(nil)

// New creates an engine with empty parser pools. Grammars are loaded
// lazily on first use.
func New() *Engine {
	return &Engine{pools: make(map[string]*sync.Pool)}
}

// Check parses code with the grammar mapped to fw and returns one
// diagnostic per ERROR or missing node in the parse tree. Zero
// diagnostics means the snippet is structurally checkable.
func (e *Engine) Check(ctx context.Context, code string, fw frameworks.Framework) ([]syntax.Diagnostic, error) {
	grammar, ok := frameworkGrammar[fw]
	if !ok {
		return nil, fmt.Errorf("%w: framework %q", ErrGrammarUnavailable, fw)
	}

	return e.CheckGrammar(ctx, code, grammar)
}

// CheckSource is Check with a filename hint. Plain TypeScript files get
// the typescript grammar instead of the framework default, which avoids
// false ERROR nodes on type annotations the javascript grammar rejects.
func (e *Engine) CheckSource(ctx context.Context, code string, fw frameworks.Framework, filename string) ([]syntax.Diagnostic, error) {
	if fw == frameworks.Vanilla && isTypeScriptFile(filename) {
		return e.CheckGrammar(ctx, code, GrammarTypeScript)
	}

	return e.Check(ctx, code, fw)
}

// CheckGrammar parses code with the named grammar.
func (e *Engine) CheckGrammar(ctx context.Context, code string, grammar string) ([]syntax.Diagnostic, error) {
	pool, err := e.pool(grammar)
	if err != nil {
		return nil, err
	}

	parser, ok := pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer pool.Put(parser)

	tree, err := parser.ParseString(ctx, nil, []byte(code))
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, errNoRootNode
	}

	var diags []syntax.Diagnostic

	collectErrors(root, &diags)

	return diags, nil
}

// pool returns the parser pool for a grammar, creating it on first use.
func (e *Engine) pool(grammar string) (*sync.Pool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if pool, ok := e.pools[grammar]; ok {
		return pool, nil
	}

	lang, ok := language(grammar)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGrammarUnavailable, grammar)
	}

	pool := &sync.Pool{
		New: func() any {
			parser := sitter.NewParser()
			parser.SetLanguage(lang)

			return parser
		},
	}
	e.pools[grammar] = pool

	return pool, nil
}

// collectErrors walks the parse tree and appends a diagnostic for every
// ERROR and missing node. Subtrees without errors are skipped whole.
func collectErrors(n sitter.Node, diags *[]syntax.Diagnostic) {
	if !n.HasError() {
		return
	}

	switch {
	case n.IsError():
		*diags = append(*diags, syntax.Diagnostic{
			Line:    int(n.StartPoint().Row) + 1,
			Message: "Invalid or unexpected token",
		})

		return
	case n.IsMissing():
		*diags = append(*diags, syntax.Diagnostic{
			Line:    int(n.StartPoint().Row) + 1,
			Message: fmt.Sprintf("Missing %s", n.Type()),
		})

		return
	}

	for i := uint32(0); i < n.ChildCount(); i++ {
		collectErrors(n.Child(i), diags)
	}
}

// isTypeScriptFile reports whether filename names a plain TypeScript
// module (not TSX, which carries JSX and parses with the tsx grammar).
func isTypeScriptFile(filename string) bool {
	for _, ext := range []string{".ts", ".mts", ".cts"} {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}

	return false
}
