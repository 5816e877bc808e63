package render

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/uivet/uivet/pkg/frameworks"
	"github.com/uivet/uivet/pkg/imports"
)

// FrameworksTable writes the supported frameworks with their import
// vocabulary, in the frameworks' stable order.
func FrameworksTable(w io.Writer, patterns imports.Table) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Framework", "Import patterns"})

	for _, fw := range frameworks.All() {
		names := make([]string, 0, len(patterns[fw]))
		for _, p := range patterns[fw] {
			names = append(names, p.Import)
		}

		vocabulary := strings.Join(names, ", ")
		if vocabulary == "" {
			vocabulary = "(none)"
		}

		tw.AppendRow(table.Row{fw, vocabulary})
	}

	tw.Render()
}
