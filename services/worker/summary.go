package worker

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderSummary prints a run summary as a table
func RenderSummary(w io.Writer, summary Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Source", "Records", "Elapsed"})

	total := 0
	for _, s := range summary.Sources {
		t.AppendRow(table.Row{s.Name, s.Records, s.Elapsed.Round(time.Millisecond)})
		total += s.Records
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"Scraped", total, summary.Elapsed.Round(time.Millisecond)})
	t.AppendRow(table.Row{"New", len(summary.Merge.Added), ""})
	t.AppendRow(table.Row{"Duplicates", summary.Merge.Duplicates, ""})
	t.AppendRow(table.Row{"Without id", summary.Merge.Unresolved, ""})
	t.AppendRow(table.Row{"Dataset rows", summary.Merge.Written, ""})

	t.SetStyle(table.StyleRounded)
	t.Render()
}
