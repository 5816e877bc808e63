package render

import (
	"io"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// StripDiff writes a character diff between a snippet and its
// expression-stripped form. Removed text (the expression interiors) is
// red; untouched text prints as-is. This exists as a review aid: the
// stripper is a heuristic, and the diff shows exactly what tag matching
// never saw.
func StripDiff(w io.Writer, original, stripped string) {
	removed := color.New(color.FgRed, color.CrossedOut)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, stripped, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			removed.Fprint(w, d.Text)
		case diffmatchpatch.DiffEqual, diffmatchpatch.DiffInsert:
			io.WriteString(w, d.Text)
		}
	}

	io.WriteString(w, "\n")
}
