// Command cheddar-lsp is a stdio language server for Cheddar modules.
package main

import (
	"context"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"

	"github.com/gitter-badger/spectra/pkg/lsp"
	"github.com/gitter-badger/spectra/pkg/store"
)

func main() {
	logLevel := os.Getenv("CHEDDAR_LSP_LOG")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := lsp.NewLogger(logLevel, os.Stderr)
	logger.Infof("starting cheddar-lsp (log level: %s)", logLevel)

	fsStore := store.NewFSStore(".", "chdr")
	server := lsp.NewServer(lsp.ServerConfig{Logger: logger, Store: fsStore})

	rwc := &stdinoutCloser{stdin: os.Stdin, stdout: os.Stdout}
	stream := jsonrpc2.NewStream(rwc)
	conn := jsonrpc2.NewConn(stream)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server.SetConn(conn, ctx)
	conn.Go(ctx, server.Handler())

	<-conn.Done()
	logger.Infof("connection closed")
}

// stdinoutCloser adapts stdin/stdout to the io.ReadWriteCloser the
// jsonrpc2 stream wants, without ever actually closing either.
type stdinoutCloser struct {
	stdin  *os.File
	stdout *os.File
}

func (s *stdinoutCloser) Read(p []byte) (int, error)  { return s.stdin.Read(p) }
func (s *stdinoutCloser) Write(p []byte) (int, error) { return s.stdout.Write(p) }
func (s *stdinoutCloser) Close() error                { return nil }

var _ io.ReadWriteCloser = (*stdinoutCloser)(nil)
