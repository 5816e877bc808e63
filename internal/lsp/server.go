// Package lsp provides a Language Server Protocol server that surfaces
// uivet validation results as diagnostics while a snippet is being edited.
package lsp

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/uivet/uivet/pkg/frameworks"
	"github.com/uivet/uivet/pkg/imports"
	"github.com/uivet/uivet/pkg/validator"
	"github.com/uivet/uivet/pkg/version"
)

const serverName = "uivet"

// diagnosticSource labels published diagnostics in editor UIs.
const diagnosticSource = "uivet"

// maxDocumentBytes bounds the document size the server will validate,
// matching the input cap of the other serving surfaces.
const maxDocumentBytes = 1 << 20

// DocumentStore is a thread-safe store for document contents keyed by URI.
type DocumentStore struct {
	documents map[string]string // URI -> content.
	mu        sync.RWMutex
}

// NewDocumentStore creates a new empty DocumentStore.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]string),
	}
}

// Set stores document content for the given URI.
func (ds *DocumentStore) Set(uri, content string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.documents[uri] = content
}

// Get retrieves document content by URI.
func (ds *DocumentStore) Get(uri string) (string, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	content, ok := ds.documents[uri]

	return content, ok
}

// Delete removes document content by URI.
func (ds *DocumentStore) Delete(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	delete(ds.documents, uri)
}

// Server implements the uivet LSP server.
type Server struct {
	store     *DocumentStore
	handler   protocol.Handler
	validator *validator.Validator
	patterns  imports.Table
	logger    *slog.Logger
}

// NewServer creates a new uivet LSP server with default handlers.
// A nil validator uses the default configuration; a nil patterns table
// uses the builtin vocabulary; a nil logger uses slog default.
func NewServer(v *validator.Validator, patterns imports.Table, logger *slog.Logger) *Server {
	if v == nil {
		v = validator.New()
	}

	if patterns == nil {
		patterns = imports.Builtin()
	}

	if logger == nil {
		logger = slog.Default()
	}

	srv := &Server{
		store:     NewDocumentStore(),
		validator: v,
		patterns:  patterns,
		logger:    logger,
	}

	srv.handler = protocol.Handler{
		Initialize:             srv.initialize,
		Initialized:            srv.initialized,
		Shutdown:               srv.shutdown,
		SetTrace:               srv.setTrace,
		TextDocumentDidOpen:    srv.didOpen,
		TextDocumentDidChange:  srv.didChange,
		TextDocumentDidSave:    srv.didSave,
		TextDocumentDidClose:   srv.didClose,
		TextDocumentCompletion: srv.completion,
		TextDocumentHover:      srv.hover,
	}

	return srv
}

// Run starts the LSP server on stdio. It blocks until the client
// disconnects.
func (srv *Server) Run() error {
	lspServer := server.NewServer(&srv.handler, serverName, false)

	err := lspServer.RunStdio()
	if err != nil {
		return fmt.Errorf("lsp server: %w", err)
	}

	return nil
}

func (srv *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := srv.handler.CreateServerCapabilities()
	v := version.Version

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &v,
		},
	}, nil
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)

	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (srv *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	text := params.TextDocument.Text

	srv.store.Set(uri, text)
	srv.publishDiagnostics(ctx, uri)

	return nil
}

func (srv *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	if len(params.ContentChanges) > 0 {
		if change, changeOK := params.ContentChanges[0].(map[string]any); changeOK {
			if text, textOK := change["text"].(string); textOK {
				srv.store.Set(uri, text)
				srv.publishDiagnostics(ctx, uri)
			}
		}
	}

	return nil
}

func (srv *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI

	if _, ok := srv.store.Get(uri); ok {
		srv.publishDiagnostics(ctx, uri)
	}

	return nil
}

func (srv *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	srv.store.Delete(uri)

	// Clear any diagnostics still shown for the closed document.
	ctx.Notify("textDocument/publishDiagnostics", &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})

	return nil
}

func (srv *Server) publishDiagnostics(ctx *glsp.Context, uri string) {
	text, ok := srv.store.Get(uri)
	if !ok {
		return
	}

	diagnostics, err := srv.documentDiagnostics(uri, text)
	if err != nil {
		srv.logger.Error("validation failed",
			slog.String("uri", uri),
			slog.Any("error", err))

		return
	}

	srv.logger.Debug("published diagnostics",
		slog.String("uri", uri),
		slog.Int("count", len(diagnostics)))

	ctx.Notify("textDocument/publishDiagnostics", &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// documentDiagnostics validates a document and converts the outcome into
// LSP diagnostics. Documents over maxDocumentBytes are not validated and
// yield a single diagnostic saying so. A parser fault is returned as an
// error and produces no diagnostics.
func (srv *Server) documentDiagnostics(uri, text string) ([]protocol.Diagnostic, error) {
	if len(text) > maxDocumentBytes {
		message := fmt.Sprintf("Document exceeds %d bytes, validation skipped", maxDocumentBytes)

		return []protocol.Diagnostic{messageDiagnostic(message, protocol.DiagnosticSeverityWarning)}, nil
	}

	result, err := srv.validator.ValidateE(context.Background(), text, documentFramework(uri, text))
	if err != nil {
		return nil, err
	}

	return resultDiagnostics(result), nil
}

// documentFramework derives the validation framework from the document
// URI extension, falling back to vanilla.
func documentFramework(uri, text string) frameworks.Framework {
	fw, ok := frameworks.DetectFile(uri, []byte(text))
	if !ok {
		return frameworks.Vanilla
	}

	return fw
}

// resultDiagnostics converts a validation result into LSP diagnostics.
// Errors map to Error severity, warnings to Warning severity.
func resultDiagnostics(result validator.Result) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(result.Errors)+len(result.Warnings))

	for _, msg := range result.Errors {
		diagnostics = append(diagnostics, messageDiagnostic(msg, protocol.DiagnosticSeverityError))
	}

	for _, msg := range result.Warnings {
		diagnostics = append(diagnostics, messageDiagnostic(msg, protocol.DiagnosticSeverityWarning))
	}

	return diagnostics
}

func messageDiagnostic(message string, severity protocol.DiagnosticSeverity) protocol.Diagnostic {
	line := messageLine(message)
	source := diagnosticSource

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: 0},
			End:   protocol.Position{Line: line, Character: 0},
		},
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
}

// messageLine extracts the zero-based line from a "Line <n>: ..." message.
// Messages without a line prefix map to line zero.
func messageLine(message string) protocol.UInteger {
	rest, found := strings.CutPrefix(message, "Line ")
	if !found {
		return 0
	}

	num, _, found := strings.Cut(rest, ":")
	if !found {
		return 0
	}

	line, err := strconv.Atoi(num)
	if err != nil || line < 1 {
		return 0
	}

	return protocol.UInteger(line - 1)
}

func (srv *Server) completion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	uri := params.TextDocument.URI

	text, _ := srv.store.Get(uri)
	fw := documentFramework(uri, text)

	vocabulary := srv.patterns[fw]
	items := make([]protocol.CompletionItem, 0, len(vocabulary))

	for _, p := range vocabulary {
		items = append(items, completionItem(p.Import, fw))
	}

	return protocol.CompletionList{IsIncomplete: false, Items: items}, nil
}

func completionItem(label string, fw frameworks.Framework) protocol.CompletionItem {
	kind := protocol.CompletionItemKindFunction
	detail := fmt.Sprintf("%s import", fw)

	return protocol.CompletionItem{
		Label:  label,
		Kind:   &kind,
		Detail: &detail,
	}
}

func (srv *Server) hover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI
	pos := params.Position

	text, ok := srv.store.Get(uri)
	if !ok {
		return nil, nil // Protocol expects nil hover when no document found.
	}

	word := extractWordAtPosition(text, int(pos.Line), int(pos.Character))
	if word == "" {
		return nil, nil
	}

	fw := documentFramework(uri, text)

	for _, p := range srv.patterns[fw] {
		if p.Import != word {
			continue
		}

		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind: protocol.MarkupKindMarkdown,
				Value: fmt.Sprintf("`%s` must be imported before use in %s code.",
					p.Import, fw),
			},
		}, nil
	}

	return nil, nil // Protocol expects nil hover when no docs available.
}

// extractWordAtPosition returns the identifier at the given line/character.
func extractWordAtPosition(text string, line, character int) string {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}

	lineText := lines[line]
	if character > len(lineText) {
		character = len(lineText)
	}

	start := character

	for start > 0 && isWordChar(lineText[start-1]) {
		start--
	}

	end := character

	for end < len(lineText) && isWordChar(lineText[end]) {
		end++
	}

	return lineText[start:end]
}

func isWordChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') || ch == '_' || ch == '$'
}
