package main

import (
	"bufio"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dpotapov/superhtml/elements"
	"github.com/dpotapov/superhtml/lsp"
)

// stdioTransport is the minimal lsp.Transport over the process's stdio
// pipes. Framing (Content-Length headers) and JSON-RPC method dispatch are
// out of scope for the core per spec.md §6 — a real language server binary
// would plug a full JSON-RPC library in here; this satisfies the interface
// boundary so lsp.Server's capability methods are reachable from a process.
type stdioTransport struct {
	r *bufio.Reader
	w io.Writer
}

func (t *stdioTransport) ReadMessage() ([]byte, error) {
	return t.r.ReadBytes('\n')
}

func (t *stdioTransport) WriteMessage(b []byte) error {
	_, err := t.w.Write(b)
	return err
}

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Start the language server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
		srv := lsp.NewServer(elements.ModeStandard, logger)
		_ = srv

		var transport lsp.Transport = &stdioTransport{
			r: bufio.NewReader(cmd.InOrStdin()),
			w: cmd.OutOrStdout(),
		}
		logger.Info("lsp server ready, waiting on stdio")
		for {
			_, err := transport.ReadMessage()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			// Method dispatch (initialize, textDocument/*, etc.) belongs to
			// the JSON-RPC layer a real transport adapter provides; this
			// loop only proves the server and transport are wired.
		}
	},
}

func init() {
	rootCmd.AddCommand(lspCmd)
}
