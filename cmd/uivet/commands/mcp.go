package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/uivet/uivet/internal/mcp"
	"github.com/uivet/uivet/internal/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server exposes validation as tools the generating agent can call
before writing a snippet:
  - uivet_validate: syntax and structural validation of a snippet
  - uivet_strip: show a snippet with JSX expression bodies removed
  - uivet_frameworks: list supported frameworks and import vocabularies`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(configPath)
			if err != nil {
				return err
			}

			providers, err := initObservability(rt.cfg, observability.ModeMCP, debug)
			if err != nil {
				return err
			}

			defer func() {
				shutdownErr := providers.Shutdown(context.Background())
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			red, redErr := observability.NewREDMetrics(providers.Meter)
			if redErr != nil {
				return redErr
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Validator: rt.newValidator(),
				Patterns:  rt.patterns,
				Logger:    providers.Logger,
				Metrics:   red,
				Tracer:    providers.Tracer,
			})

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")
	cmd.Flags().StringVar(&configPath, "config", "", "Config file path")

	return cmd
}
