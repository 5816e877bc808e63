package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uivet/uivet/internal/render"
	"github.com/uivet/uivet/pkg/strip"
)

// StripCommand holds configuration for the strip command.
type StripCommand struct {
	diff bool
}

// NewStripCommand creates the strip command.
func NewStripCommand() *cobra.Command {
	sc := &StripCommand{}

	cmd := &cobra.Command{
		Use:   "strip [file]",
		Short: "Show a snippet as the tag validator sees it",
		Long: `Replace JSX expression bodies with empty placeholders and print
the result. This is the exact text the tag-pairing check runs on, which
makes unexpected tag reports easy to trace. Reads stdin when no file is
given or the file is "-".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          sc.run,
	}

	cmd.Flags().BoolVar(&sc.diff, "diff", false, "Show a colored diff of what stripping removed")

	return cmd
}

func (sc *StripCommand) run(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	code, _, err := readInput(cmd, name, defaultInputLimit)
	if err != nil {
		return err
	}

	stripped := strip.Expressions(code)

	if sc.diff {
		render.StripDiff(cmd.OutOrStdout(), code, stripped)

		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), stripped)

	return nil
}
