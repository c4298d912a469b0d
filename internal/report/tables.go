package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

// RenderTables prints the summary views as terminal tables.
func RenderTables(w io.Writer, v View) {
	s := v.Summary
	t := newTable(w, "Summary")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Status", v.Info.Status})
	t.AppendRow(table.Row{"Total reviews", s.TotalReviews})
	if s.RatedReviews > 0 {
		t.AppendRow(table.Row{"Average rating", fmt.Sprintf("%.2f (%d rated)", s.AvgRating, s.RatedReviews)})
	} else {
		t.AppendRow(table.Row{"Average rating", "N/A"})
	}
	t.AppendRow(table.Row{"Average sentiment", fmt.Sprintf("%.3f", s.AvgSentiment)})
	if dr := v.Info.DateRange; dr != nil {
		t.AppendRow(table.Row{"Date range", dr.Start.Format("2006-01-02") + " to " + dr.End.Format("2006-01-02")})
	}
	for _, c := range v.Sentiment {
		t.AppendRow(table.Row{c.Category.String(), fmt.Sprintf("%d (%.1f%%)", c.Count, c.Pct)})
	}
	t.Render()

	t = newTable(w, "Sources")
	t.AppendHeader(table.Row{"Source", "Reviews", "Avg rating", "1★", "2★", "3★", "4★", "5★"})
	for _, src := range v.Sources {
		row := table.Row{src.Name, src.Reviews}
		if src.Rating == nil {
			row = append(row, "N/A", 0, 0, 0, 0, 0)
		} else {
			row = append(row, fmt.Sprintf("%.2f", src.Rating.AvgRating))
			for stars := 1; stars <= 5; stars++ {
				row = append(row, src.Rating.Distribution[stars])
			}
		}
		t.AppendRow(row)
	}
	t.Render()

	t = newTable(w, "Aspects")
	t.AppendHeader(table.Row{"Aspect", "Mean sentiment", "Mentions"})
	for _, a := range v.Aspects {
		t.AppendRow(table.Row{a.Aspect, fmt.Sprintf("%.3f", a.Mean), a.Samples})
	}
	t.Render()

	t = newTable(w, "Top keywords")
	t.AppendHeader(table.Row{"#", "Keyword", "Count"})
	for i, k := range s.TopKeywords {
		t.AppendRow(table.Row{i + 1, k.Word, k.Count})
	}
	t.Render()

	t = newTable(w, "Monthly trend")
	t.AppendHeader(table.Row{"Month", "Mean sentiment", "Std dev", "Reviews"})
	for _, b := range v.Monthly.Sentiment {
		t.AppendRow(table.Row{b.Bucket, fmt.Sprintf("%.3f", b.Mean), fmt.Sprintf("%.3f", b.StdDev), b.Count})
	}
	t.Render()
}

// RenderLoadReport prints per-file source attribution and load problems.
func RenderLoadReport(w io.Writer, v View) {
	rep := v.Info.Load
	t := newTable(w, "Files in "+rep.DataDir)
	t.AppendHeader(table.Row{"File", "Source", "Reviews kept"})
	for _, fs := range rep.SourcesPerFile {
		t.AppendRow(table.Row{fs.File, fs.Source, fs.Records})
	}
	for _, fe := range rep.FileErrors {
		t.AppendRow(table.Row{fe.File, "error", fe.Err})
	}
	t.AppendFooter(table.Row{"records read", rep.RecordsRead, ""})
	t.AppendFooter(table.Row{"empty text", rep.EmptyText, ""})
	t.AppendFooter(table.Row{"malformed", rep.RecordErrors, ""})
	t.AppendFooter(table.Row{"field issues", rep.FieldIssues, ""})
	t.Render()
	if rep.DirError != "" {
		fmt.Fprintf(w, "data directory: %s\n", rep.DirError)
	}
}
