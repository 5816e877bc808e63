package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/uivet/uivet/internal/batch"
	"github.com/uivet/uivet/internal/gitio"
	"github.com/uivet/uivet/internal/render"
	"github.com/uivet/uivet/internal/store"
	"github.com/uivet/uivet/pkg/frameworks"
)

// StagedCommand holds configuration for the staged command.
type StagedCommand struct {
	configPath string
	repoPath   string
	format     string
	recordPath string
}

// NewStagedCommand creates the staged command.
func NewStagedCommand() *cobra.Command {
	sc := &StagedCommand{}

	cmd := &cobra.Command{
		Use:   "staged",
		Short: "Validate files staged in the git index",
		Long: `Validate every supported UI source file staged in the git index.
Contents come from the index blobs, not the working tree, so the check
covers exactly what the next commit would contain. Intended for
pre-commit hooks; the exit code is non-zero when any staged file is
invalid.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          sc.run,
	}

	cmd.Flags().StringVarP(&sc.repoPath, "path", "p", ".", "Repository path")
	cmd.Flags().StringVar(&sc.format, "format", string(render.FormatText),
		"Output format: text, json, table, yaml, html")
	cmd.Flags().StringVar(&sc.recordPath, "record", "",
		"Append results as JSON lines to this file (.lz4 extension compresses)")
	cmd.Flags().StringVar(&sc.configPath, "config", "", "Config file path")

	return cmd
}

func (sc *StagedCommand) run(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(sc.configPath)
	if err != nil {
		return err
	}

	format, err := render.ParseFormat(sc.format)
	if err != nil {
		return err
	}

	repo, err := gitio.Open(sc.repoPath)
	if err != nil {
		return err
	}
	defer repo.Free()

	staged, err := repo.StagedFiles()
	if err != nil {
		return err
	}

	start := time.Now()
	v := rt.newValidator()

	var (
		results []batch.FileResult
		records []store.Record
		bytes   int64
	)

	for _, file := range staged {
		fw, ok := frameworks.DetectFile(file.Path, file.Content)
		if !ok {
			rt.logger.Debug("skipping non-UI staged file", "path", file.Path)

			continue
		}

		result, validateErr := v.ValidateE(cmd.Context(), string(file.Content), fw)
		if validateErr != nil {
			return fmt.Errorf("%s: %w", file.Path, validateErr)
		}

		bytes += int64(len(file.Content))

		results = append(results, batch.FileResult{
			Path:      file.Path,
			Framework: fw,
			Result:    result,
		})

		records = append(records, store.Record{
			Path:      file.Path,
			Framework: fw,
			SHA256:    store.HashContent(file.Content),
			Result:    result,
		})
	}

	summary := stagedSummary(results, bytes, time.Since(start))

	renderErr := render.Results(cmd.OutOrStdout(), format, results, summary)
	if renderErr != nil {
		return renderErr
	}

	if sc.recordPath != "" {
		writeErr := store.WriteRecords(sc.recordPath, records)
		if writeErr != nil {
			return writeErr
		}
	}

	if invalid := summary.Files - summary.Valid; invalid > 0 {
		return fmt.Errorf("%w: %d of %d staged files invalid", ErrValidationFailed, invalid, summary.Files)
	}

	return nil
}

func stagedSummary(results []batch.FileResult, bytes int64, elapsed time.Duration) batch.Summary {
	summary := batch.Summary{
		Files:    len(results),
		Bytes:    bytes,
		Duration: elapsed,
	}

	for _, fr := range results {
		if fr.Result.Valid {
			summary.Valid++
		}

		summary.Errors += len(fr.Result.Errors)
		summary.Warnings += len(fr.Result.Warnings)
	}

	return summary
}
