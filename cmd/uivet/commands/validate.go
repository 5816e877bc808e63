package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/uivet/uivet/internal/batch"
	"github.com/uivet/uivet/internal/config"
	"github.com/uivet/uivet/internal/render"
	"github.com/uivet/uivet/internal/store"
	"github.com/uivet/uivet/pkg/frameworks"
	"github.com/uivet/uivet/pkg/validator"
)

// ValidateCommand holds configuration for the validate command.
type ValidateCommand struct {
	configPath string
	framework  string
	engine     string
	format     string
	output     string
	recordPath string
	code       string
	workers    int
	failFast   bool
	noColor    bool
	quiet      bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	vc := &ValidateCommand{}

	cmd := &cobra.Command{
		Use:   "validate [path...]",
		Short: "Validate UI source snippets or file trees",
		Long: `Validate machine-generated UI source snippets.

With file or directory arguments, walks the tree and validates every
supported file. With "-" or no arguments, reads one snippet from stdin.
The --code flag validates an inline snippet directly.

The exit code is non-zero when any input is invalid.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          vc.run,
	}

	cmd.Flags().StringVarP(&vc.framework, "framework", "f", "",
		"Framework vocabulary: react, vue, svelte, solid, vanilla (default: detect per file)")
	cmd.Flags().StringVar(&vc.engine, "engine", "", "Syntax engine: lexical, treesitter (overrides config)")
	cmd.Flags().StringVar(&vc.format, "format", string(render.FormatText),
		"Output format: text, json, table, yaml, html")
	cmd.Flags().StringVarP(&vc.output, "output", "o", "", "Write output to file instead of stdout")
	cmd.Flags().StringVar(&vc.recordPath, "record", "",
		"Append results as JSON lines to this file (.lz4 extension compresses)")
	cmd.Flags().StringVar(&vc.code, "code", "", "Validate this inline snippet")
	cmd.Flags().IntVar(&vc.workers, "workers", 0, "Parallel workers for tree walks (0 = CPU count)")
	cmd.Flags().BoolVar(&vc.failFast, "fail-fast", false, "Stop scheduling files after the first invalid one")
	cmd.Flags().BoolVar(&vc.noColor, "no-color", false, "Disable colored text output")
	cmd.Flags().BoolVar(&vc.quiet, "quiet", false, "Suppress log output below the error level")
	cmd.Flags().StringVar(&vc.configPath, "config", "", "Config file path")

	return cmd
}

func (vc *ValidateCommand) run(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(vc.configPath)
	if err != nil {
		return err
	}

	if vc.engine != "" {
		switch vc.engine {
		case config.EngineLexical, config.EngineTreeSitter:
		default:
			return fmt.Errorf("%w: %q", config.ErrInvalidEngine, vc.engine)
		}

		rt.cfg.Validator.Engine = vc.engine
		rt.parser = buildParser(rt.cfg)
	}

	if vc.noColor {
		color.NoColor = true
	}

	if vc.quiet {
		rt.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}

	format, err := render.ParseFormat(vc.format)
	if err != nil {
		return err
	}

	out, closeOut, err := vc.openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOut()

	if vc.snippetMode(args) {
		return vc.runSnippet(cmd, rt, format, out, args)
	}

	return vc.runBatch(cmd, rt, format, out, args)
}

// snippetMode reports whether the invocation targets a single snippet
// rather than a file tree.
func (vc *ValidateCommand) snippetMode(args []string) bool {
	if vc.code != "" {
		return true
	}

	return len(args) == 0 || (len(args) == 1 && args[0] == "-")
}

func (vc *ValidateCommand) runSnippet(
	cmd *cobra.Command, rt *runtime, format render.Format, out io.Writer, args []string,
) error {
	code := vc.code
	display := "<code>"

	if code == "" {
		var readErr error

		name := ""
		if len(args) == 1 {
			name = args[0]
		}

		code, display, readErr = readInput(cmd, name, int64(rt.cfg.Validator.MaxInputBytes))
		if readErr != nil {
			return readErr
		}
	}

	fw, err := vc.snippetFramework()
	if err != nil {
		return err
	}

	start := time.Now()

	result, err := rt.newValidator().ValidateE(cmd.Context(), code, fw)
	if err != nil {
		return err
	}

	results := []batch.FileResult{{Path: display, Framework: fw, Result: result}}
	summary := snippetSummary(result, len(code), time.Since(start))

	renderErr := render.Results(out, format, results, summary)
	if renderErr != nil {
		return renderErr
	}

	if !result.Valid {
		return ErrValidationFailed
	}

	return nil
}

// snippetFramework resolves the framework for stdin and inline input,
// where there is no filename to detect from.
func (vc *ValidateCommand) snippetFramework() (frameworks.Framework, error) {
	if vc.framework == "" {
		return frameworks.React, nil
	}

	return frameworks.Parse(vc.framework)
}

func (vc *ValidateCommand) runBatch(
	cmd *cobra.Command, rt *runtime, format render.Format, out io.Writer, args []string,
) error {
	var forced frameworks.Framework

	if vc.framework != "" {
		fw, parseErr := frameworks.Parse(vc.framework)
		if parseErr != nil {
			return parseErr
		}

		forced = fw
	}

	cache, err := openCache(rt)
	if err != nil {
		return err
	}

	runner := &batch.Runner{
		Parser:       rt.parser,
		Patterns:     rt.patterns,
		Framework:    forced,
		Cache:        cache,
		Logger:       rt.logger,
		Workers:      vc.resolveWorkers(rt),
		MaxFileBytes: int64(rt.cfg.Validator.MaxInputBytes),
		Extensions:   rt.cfg.Batch.Extensions,
		FailFast:     vc.failFast || rt.cfg.Batch.FailFast,
	}

	results, summary, runErr := runner.Run(cmd.Context(), args)
	if runErr != nil {
		return runErr
	}

	renderErr := render.Results(out, format, results, summary)
	if renderErr != nil {
		return renderErr
	}

	if vc.recordPath != "" {
		writeErr := writeRecordArtifact(vc.recordPath, results)
		if writeErr != nil {
			return writeErr
		}
	}

	if invalid := summary.Files - summary.Valid; invalid > 0 {
		return fmt.Errorf("%w: %d of %d files invalid", ErrValidationFailed, invalid, summary.Files)
	}

	return nil
}

// writeRecordArtifact persists batch results as JSON-lines records with
// content hashes, so later runs can be diffed against the artifact.
func writeRecordArtifact(path string, results []batch.FileResult) error {
	records := make([]store.Record, 0, len(results))

	for _, fr := range results {
		content, readErr := os.ReadFile(fr.Path)
		if readErr != nil {
			content = nil
		}

		records = append(records, store.Record{
			Path:      fr.Path,
			Framework: fr.Framework,
			SHA256:    store.HashContent(content),
			Result:    fr.Result,
		})
	}

	return store.WriteRecords(path, records)
}

func (vc *ValidateCommand) resolveWorkers(rt *runtime) int {
	if vc.workers > 0 {
		return vc.workers
	}

	return rt.cfg.Batch.Workers
}

// openOutput returns the output writer and a close function. Stdout
// needs no closing.
func (vc *ValidateCommand) openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	if vc.output == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	file, err := os.Create(vc.output)
	if err != nil {
		return nil, nil, fmt.Errorf("create output %s: %w", vc.output, err)
	}

	return file, func() { _ = file.Close() }, nil
}

func openCache(rt *runtime) (*store.Cache, error) {
	if !rt.cfg.Cache.Enabled || rt.cfg.Cache.Directory == "" {
		return nil, nil //nolint:nilnil // a nil cache disables caching in the runner
	}

	return store.OpenCache(rt.cfg.Cache.Directory)
}

func snippetSummary(result validator.Result, size int, elapsed time.Duration) batch.Summary {
	summary := batch.Summary{
		Files:    1,
		Errors:   len(result.Errors),
		Warnings: len(result.Warnings),
		Bytes:    int64(size),
		Duration: elapsed,
	}

	if result.Valid {
		summary.Valid = 1
	}

	return summary
}
