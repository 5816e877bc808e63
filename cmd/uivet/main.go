// Package main provides the entry point for the uivet CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uivet/uivet/cmd/uivet/commands"
	"github.com/uivet/uivet/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "uivet",
		Short: "uivet - structural validator for generated UI source snippets",
		Long: `uivet validates machine-generated UI source snippets before they
are written to disk: syntax scanning, bracket balance, tag pairing, and
import heuristics for React, Vue, Svelte, Solid, and vanilla JS.

Commands:
  validate    Validate snippets, files, or directory trees
  staged      Validate files staged in the git index
  strip       Show a snippet as the tag validator sees it
  frameworks  List supported frameworks and import vocabularies
  serve       Start the HTTP validation API
  mcp         Start the MCP server on stdio
  lsp         Start the LSP server on stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewStagedCommand())
	rootCmd.AddCommand(commands.NewStripCommand())
	rootCmd.AddCommand(commands.NewFrameworksCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(commands.NewLSPCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "uivet %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
