// Package render formats validation results for the CLI surfaces: plain
// colored text, tables, JSON, YAML, and an HTML chart report for batch
// runs.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/uivet/uivet/internal/batch"
)

// Format selects an output renderer.
type Format string

// Supported output formats.
const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
	FormatHTML  Format = "html"
)

// ErrUnknownFormat reports a format name outside the supported set.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat maps a flag value to a Format.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatText, FormatJSON, FormatTable, FormatYAML, FormatHTML:
		return Format(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// report is the serialized shape for the JSON and YAML formats.
type report struct {
	Results []batch.FileResult `json:"results"         yaml:"results"`
	Summary string             `json:"summary"         yaml:"summary"`
}

// Results renders a batch run in the requested format.
func Results(w io.Writer, format Format, results []batch.FileResult, summary batch.Summary) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, results, summary)
	case FormatYAML:
		return renderYAML(w, results, summary)
	case FormatTable:
		return renderTable(w, results, summary)
	case FormatHTML:
		return renderHTML(w, results, summary)
	case FormatText:
		return renderText(w, results, summary)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderJSON(w io.Writer, results []batch.FileResult, summary batch.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(report{Results: results, Summary: summary.String()})
	if err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}

	return nil
}

func renderYAML(w io.Writer, results []batch.FileResult, summary batch.Summary) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()

	err := enc.Encode(report{Results: results, Summary: summary.String()})
	if err != nil {
		return fmt.Errorf("encode yaml report: %w", err)
	}

	return nil
}

func renderText(w io.Writer, results []batch.FileResult, summary batch.Summary) error {
	okMark := color.New(color.FgGreen)
	failMark := color.New(color.FgRed)
	warnMark := color.New(color.FgYellow)

	for _, fr := range results {
		if fr.Result.Valid {
			okMark.Fprintf(w, "ok    %s", fr.Path)
		} else {
			failMark.Fprintf(w, "FAIL  %s", fr.Path)
		}

		fmt.Fprintf(w, " (%s)\n", fr.Framework)

		for _, msg := range fr.Result.Errors {
			failMark.Fprintf(w, "      error: %s\n", msg)
		}

		for _, msg := range fr.Result.Warnings {
			warnMark.Fprintf(w, "      warning: %s\n", msg)
		}
	}

	fmt.Fprintf(w, "\n%s\n", summary)

	return nil
}

func renderTable(w io.Writer, results []batch.FileResult, summary batch.Summary) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"File", "Framework", "Valid", "Errors", "Warnings"})

	for _, fr := range results {
		tw.AppendRow(table.Row{
			fr.Path,
			fr.Framework,
			fr.Result.Valid,
			len(fr.Result.Errors),
			len(fr.Result.Warnings),
		})
	}

	tw.AppendFooter(table.Row{summary.String(), "", "", "", ""})
	tw.Render()

	return nil
}
