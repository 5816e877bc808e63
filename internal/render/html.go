package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/uivet/uivet/internal/batch"
)

// Chart colors for the findings series.
const (
	colorErrors   = "#c0392b"
	colorWarnings = "#f39c12"
)

// renderHTML writes a standalone HTML report: a bar chart of errors and
// warnings per file, titled with the run summary.
func renderHTML(w io.Writer, results []batch.FileResult, summary batch.Summary) error {
	labels := make([]string, len(results))
	errorData := make([]opts.BarData, len(results))
	warningData := make([]opts.BarData, len(results))

	for i, fr := range results {
		labels[i] = fr.Path
		errorData[i] = opts.BarData{Value: len(fr.Result.Errors)}
		warningData[i] = opts.BarData{Value: len(fr.Result.Warnings)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "uivet validation report",
			Subtitle: summary.String(),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Rotate: 30}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "findings"}),
	)

	bar.SetXAxis(labels)
	bar.AddSeries("Errors", errorData,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorErrors}),
	)
	bar.AddSeries("Warnings", warningData,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorWarnings}),
	)

	err := bar.Render(w)
	if err != nil {
		return fmt.Errorf("render html report: %w", err)
	}

	return nil
}
