// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"vylint/internal/config"
	"vylint/internal/lint"
	"vylint/internal/lsp"
)

const lsName = "vylint" // Name identifier for the language server

var handler protocol.Handler // Protocol handler instance (wired up below)

func main() {
	// Configure debug logging (1 = debug level, nil = default logger)
	commonlog.Configure(1, nil)

	// Editors launch the server at the workspace root, so configuration
	// discovery starts from the working directory.
	cfg, _, err := config.Discover(".")
	if err != nil {
		log.Println("Ignoring unreadable configuration:", err)
		cfg = config.Default()
	}

	vylintHandler := lsp.NewHandler(lint.NewRunner(cfg, false))

	// Wire up the handler with specific LSP method implementations
	handler = protocol.Handler{
		Initialize:            vylintHandler.Initialize,
		Initialized:           vylintHandler.Initialized,
		Shutdown:              vylintHandler.Shutdown,
		SetTrace:              vylintHandler.SetTrace,
		TextDocumentDidOpen:   vylintHandler.TextDocumentDidOpen,
		TextDocumentDidChange: vylintHandler.TextDocumentDidChange,
		TextDocumentDidSave:   vylintHandler.TextDocumentDidSave,
		TextDocumentDidClose:  vylintHandler.TextDocumentDidClose,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting vylint LSP server...")

	// Serve over standard input/output (used by most editors for LSP)
	if err := s.RunStdio(); err != nil {
		log.Println("Error starting vylint LSP server:", err)
		os.Exit(1)
	}
}
