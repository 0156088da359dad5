// Package lsp serves lint findings over the Language Server Protocol.
// Documents are linted from editor buffers as they change, so diagnostics
// track unsaved edits.
package lsp

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"vylint/internal/lint"
)

var log = commonlog.GetLogger("vylint.lsp")

// Linter is the part of the lint runner the server drives.
type Linter interface {
	File(ctx context.Context, file string) lint.Result
	Buffer(ctx context.Context, path string, content []byte) lint.Result
}

// Handler implements the LSP server handlers for Vyper files.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
	linter  Linter
}

// NewHandler creates a handler that lints with the given linter.
func NewHandler(linter Linter) *Handler {
	return &Handler{
		content: make(map[string]string),
		linter:  linter,
	}
}

// Initialize advertises the server's capabilities: full-document sync with
// open/close notifications. Findings are pushed, never pulled, so no other
// capability is needed.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen lints the opened buffer and publishes its findings.
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Debugf("opened %s", params.TextDocument.URI)
	return h.relint(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidChange re-lints on every edit. Full document sync is
// advertised, so each change event carries the whole buffer.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Debugf("changed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	h.mu.RLock()
	text := h.content[path]
	h.mu.RUnlock()

	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			text = c.Text
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		}
	}

	return h.relint(ctx, params.TextDocument.URI, text)
}

// TextDocumentDidSave re-lints from the saved file unless the client sent
// the buffer along.
func (h *Handler) TextDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	log.Debugf("saved %s", params.TextDocument.URI)

	if params.Text != nil {
		return h.relint(ctx, params.TextDocument.URI, *params.Text)
	}

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("converting URI %s: %w", params.TextDocument.URI, err)
	}

	res := h.linter.File(context.Background(), path)

	h.mu.Lock()
	h.content[path] = string(res.Source)
	h.mu.Unlock()

	publishDiagnostics(ctx, params.TextDocument.URI, toDiagnostics(res))
	return nil
}

// TextDocumentDidClose forgets the buffer and clears its diagnostics.
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Debugf("closed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("converting URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.Lock()
	delete(h.content, path)
	h.mu.Unlock()

	publishDiagnostics(ctx, params.TextDocument.URI, []protocol.Diagnostic{})
	return nil
}

func (h *Handler) relint(ctx *glsp.Context, uri protocol.DocumentUri, content string) error {
	path, err := uriToPath(uri)
	if err != nil {
		return fmt.Errorf("converting URI %s: %w", uri, err)
	}

	h.mu.Lock()
	h.content[path] = content
	h.mu.Unlock()

	res := h.linter.Buffer(context.Background(), path, []byte(content))
	publishDiagnostics(ctx, uri, toDiagnostics(res))
	return nil
}

func publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	// An empty slice clears the file's diagnostics; nil would be dropped
	// by some clients.
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}

	log.Debugf("publishing %d diagnostics for %s", len(diagnostics), uri)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// uriToPath converts a file URI to a platform-local path.
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, /C:/... becomes C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
