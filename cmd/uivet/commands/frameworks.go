package commands

import (
	"github.com/spf13/cobra"

	"github.com/uivet/uivet/internal/render"
)

// NewFrameworksCommand creates the frameworks command.
func NewFrameworksCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "frameworks",
		Short:         "List supported frameworks and their import vocabularies",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(configPath)
			if err != nil {
				return err
			}

			render.FrameworksTable(cmd.OutOrStdout(), rt.patterns)

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file path")

	return cmd
}
