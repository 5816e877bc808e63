package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/uivet/uivet/internal/lsp"
	"github.com/uivet/uivet/internal/observability"
)

// NewLSPCommand creates the LSP server command.
func NewLSPCommand() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start Language Server Protocol server on stdio",
		Long: `Start an LSP server that publishes validation results as editor
diagnostics while a snippet is edited. Errors appear with Error
severity, import warnings with Warning severity. Completion and hover
cover the framework import vocabularies.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			rt, err := loadRuntime(configPath)
			if err != nil {
				return err
			}

			providers, err := initObservability(rt.cfg, observability.ModeLSP, debug)
			if err != nil {
				return err
			}

			defer func() {
				shutdownErr := providers.Shutdown(context.Background())
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			srv := lsp.NewServer(rt.newValidator(), rt.patterns, providers.Logger)

			return srv.Run()
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")
	cmd.Flags().StringVar(&configPath, "config", "", "Config file path")

	return cmd
}
