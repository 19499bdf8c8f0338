// Package lsp implements a textDocument-only language server for
// Cheddar modules: on open/change/save it recompiles the affected
// module's pipeline and republishes diagnostics, translating
// pkg/compile's Result into protocol.Diagnostic.
package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"go.lsp.dev/jsonrpc2"

	"github.com/gitter-badger/spectra/pkg/compile"
	"github.com/gitter-badger/spectra/pkg/store"
)

// ServerConfig configures a Server.
type ServerConfig struct {
	Logger Logger
	Store  *store.FSStore
}

// Server implements the LSP request/notification dispatch for
// cheddar-lsp.
type Server struct {
	cfg ServerConfig

	connMu sync.RWMutex
	conn   jsonrpc2.Conn
	ctx    context.Context
}

// NewServer builds a Server backed by cfg.Store.
func NewServer(cfg ServerConfig) *Server {
	return &Server{cfg: cfg}
}

// SetConn records the connection a running Server publishes
// diagnostics notifications on.
func (s *Server) SetConn(conn jsonrpc2.Conn, ctx context.Context) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	s.conn, s.ctx = conn, ctx
}

func (s *Server) getConn() (jsonrpc2.Conn, context.Context) {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	return s.conn, s.ctx
}

// Handler returns the jsonrpc2 handler driving this server.
func (s *Server) Handler() jsonrpc2.Handler {
	return jsonrpc2.ReplyHandler(s.handleRequest)
}

func (s *Server) handleRequest(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s.cfg.Logger.Debugf("request: %s", req.Method())
	switch req.Method() {
	case "initialize":
		return s.handleInitialize(ctx, reply, req)
	case "initialized":
		return reply(ctx, nil, nil)
	case "shutdown":
		return reply(ctx, nil, nil)
	case "exit":
		return reply(ctx, nil, nil)
	case "textDocument/didOpen":
		return s.handleDidOpen(ctx, reply, req)
	case "textDocument/didChange":
		return s.handleDidChange(ctx, reply, req)
	case "textDocument/didSave":
		return s.handleDidSave(ctx, reply, req)
	case "textDocument/didClose":
		return reply(ctx, nil, nil)
	default:
		s.cfg.Logger.Debugf("unhandled method: %s", req.Method())
		return reply(ctx, nil, fmt.Errorf("method not implemented: %s", req.Method()))
	}
}

func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.InitializeParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, fmt.Errorf("invalid initialize params: %w", err))
	}
	if params.RootURI != "" {
		s.cfg.Store.Root = params.RootURI.Filename()
	}

	result := protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
				Save:      &protocol.SaveOptions{IncludeText: false},
			},
		},
		ServerInfo: &protocol.ServerInfo{Name: "cheddar-lsp", Version: "0.1.0"},
	}
	return reply(ctx, result, nil)
}

func (s *Server) handleDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}
	s.recompile(ctx, params.TextDocument.URI)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}
	if key, ok := s.cfg.Store.KeyForPath(params.TextDocument.URI.Filename()); ok {
		s.cfg.Store.Invalidate(key)
	}
	s.recompile(ctx, params.TextDocument.URI)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidSave(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}
	if key, ok := s.cfg.Store.KeyForPath(params.TextDocument.URI.Filename()); ok {
		s.cfg.Store.Invalidate(key)
	}
	s.recompile(ctx, params.TextDocument.URI)
	return reply(ctx, nil, nil)
}

// recompile runs the pipeline for the module backing docURI and
// publishes its diagnostics (an empty slice clears any prior ones).
func (s *Server) recompile(ctx context.Context, docURI uri.URI) {
	key, ok := s.cfg.Store.KeyForPath(docURI.Filename())
	if !ok {
		s.cfg.Logger.Warnf("%s is not under the store root, skipping", docURI.Filename())
		return
	}

	result := compile.Module(s.cfg.Store, key)

	diags := []protocol.Diagnostic{}
	if result.Diag != nil {
		diags = []protocol.Diagnostic{{
			Range:    protocol.Range{Start: protocol.Position{Line: uint32(max(result.Diag.Line-1, 0))}},
			Severity: protocol.DiagnosticSeverityError,
			Source:   "cheddarc",
			Message:  result.Diag.Message,
		}}
	}

	conn, connCtx := s.getConn()
	if conn == nil {
		return
	}
	params := protocol.PublishDiagnosticsParams{URI: docURI, Diagnostics: diags}
	if err := conn.Notify(connCtx, "textDocument/publishDiagnostics", params); err != nil {
		s.cfg.Logger.Warnf("publishDiagnostics failed: %v", err)
	}
	_ = ctx
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
