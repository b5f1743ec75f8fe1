package service

import (
	"fmt"
	"io"

	"catalog/scraper/internal/domain"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderReport writes one line per visited offset followed by totals.
func RenderReport(out io.Writer, result *domain.WalkResult) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Start", "Status", "Rows"})

	for _, p := range result.Pages {
		t.AppendRow(table.Row{p.Offset, p.Status.String(), p.Rows})
	}

	t.AppendFooter(table.Row{"Total", fmt.Sprintf("%d skipped", result.SkippedPages()), len(result.Records)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
