package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary  = "Summary"
	sheetSources  = "Sources"
	sheetAspects  = "Aspects"
	sheetScores   = "Scores"
	sheetKeywords = "Keywords"
	sheetTrends   = "Trends"
	sheetReviews  = "Reviews"
)

// WriteWorkbook writes an XLSX export of v with one sheet per view and
// native charts for ratings, sentiment, polarity, aspects and the monthly trend.
func WriteWorkbook(w io.Writer, v View) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}
	for _, name := range []string{sheetSources, sheetAspects, sheetScores, sheetKeywords, sheetTrends, sheetReviews} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	steps := []func(*excelize.File, View, int) error{
		writeSummary, writeSources, writeAspects, writeScores, writeKeywords, writeTrends, writeReviews,
	}
	for _, step := range steps {
		if err := step(f, v, bold); err != nil {
			return err
		}
	}
	_, err = f.WriteTo(w)
	return err
}

// setRows writes rows starting at A<firstRow>; the first row is styled as a header.
func setRows(f *excelize.File, sheet string, firstRow int, header []any, rows [][]any, headerStyle int) error {
	return setRowsAt(f, sheet, "A", firstRow, header, rows, headerStyle)
}

func chartSeries(sheet, name string, catCol, valCol string, from, to int) []excelize.ChartSeries {
	return []excelize.ChartSeries{{
		Name:       name,
		Categories: fmt.Sprintf("'%s'!$%s$%d:$%s$%d", sheet, catCol, from, catCol, to),
		Values:     fmt.Sprintf("'%s'!$%s$%d:$%s$%d", sheet, valCol, from, valCol, to),
	}}
}

func title(s string) []excelize.RichTextRun { return []excelize.RichTextRun{{Text: s}} }

func writeSummary(f *excelize.File, v View, bold int) error {
	s := v.Summary
	avgRating := any("N/A")
	if s.RatedReviews > 0 {
		avgRating = s.AvgRating
	}
	rows := [][]any{
		{"Total reviews", s.TotalReviews},
		{"Rated reviews", s.RatedReviews},
		{"Average rating", avgRating},
		{"Average sentiment", s.AvgSentiment},
		{"Status", v.Info.Status},
		{"Snapshot", v.Info.SnapshotID},
	}
	if err := setRows(f, sheetSummary, 1, []any{"Metric", "Value"}, rows, bold); err != nil {
		return err
	}

	// rating histogram at D1, sentiment distribution at D9
	var ratingRows [][]any
	for _, b := range v.Ratings {
		ratingRows = append(ratingRows, []any{fmt.Sprintf("%d stars", b.Stars), b.Count})
	}
	if err := setRowsAt(f, sheetSummary, "D", 1, []any{"Rating", "Reviews"}, ratingRows, bold); err != nil {
		return err
	}
	var sentRows [][]any
	for _, c := range v.Sentiment {
		sentRows = append(sentRows, []any{c.Category.String(), c.Count})
	}
	if err := setRowsAt(f, sheetSummary, "D", 9, []any{"Sentiment", "Reviews"}, sentRows, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetSummary, "A", "A", 20); err != nil {
		return err
	}

	if err := f.AddChart(sheetSummary, "H1", &excelize.Chart{
		Type:   excelize.Col,
		Series: chartSeries(sheetSummary, "Reviews", "D", "E", 2, 1+len(ratingRows)),
		Title:  title("Rating distribution"),
		Legend: excelize.ChartLegend{Position: "none"},
	}); err != nil {
		return err
	}
	return f.AddChart(sheetSummary, "H17", &excelize.Chart{
		Type:   excelize.Pie,
		Series: chartSeries(sheetSummary, "Reviews", "D", "E", 10, 9+len(sentRows)),
		Title:  title("Sentiment distribution"),
		Legend: excelize.ChartLegend{Position: "right"},
	})
}

// setRowsAt is setRows anchored at an arbitrary column.
func setRowsAt(f *excelize.File, sheet, col string, firstRow int, header []any, rows [][]any, headerStyle int) error {
	colNum, err := excelize.ColumnNameToNumber(col)
	if err != nil {
		return err
	}
	put := func(rowIdx int, vals []any) error {
		cell, err := excelize.CoordinatesToCellName(colNum, rowIdx)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &vals)
	}
	if err := put(firstRow, header); err != nil {
		return err
	}
	h1, _ := excelize.CoordinatesToCellName(colNum, firstRow)
	h2, _ := excelize.CoordinatesToCellName(colNum+len(header)-1, firstRow)
	if err := f.SetCellStyle(sheet, h1, h2, headerStyle); err != nil {
		return err
	}
	for i, r := range rows {
		if err := put(firstRow+1+i, r); err != nil {
			return err
		}
	}
	return nil
}

func writeSources(f *excelize.File, v View, bold int) error {
	var rows [][]any
	for _, s := range v.Sources {
		row := []any{s.Name, s.Reviews, "N/A", 0}
		if s.Rating != nil {
			row[2] = s.Rating.AvgRating
			row[3] = s.Rating.TotalRatings
		}
		for stars := 1; stars <= 5; stars++ {
			n := 0
			if s.Rating != nil {
				n = s.Rating.Distribution[stars]
			}
			row = append(row, n)
		}
		rows = append(rows, row)
	}
	header := []any{"Source", "Reviews", "Avg rating", "Rated", "1★", "2★", "3★", "4★", "5★"}
	if err := setRows(f, sheetSources, 1, header, rows, bold); err != nil {
		return err
	}
	return f.SetColWidth(sheetSources, "A", "A", 18)
}

func writeAspects(f *excelize.File, v View, bold int) error {
	var rows [][]any
	for _, a := range v.Aspects {
		rows = append(rows, []any{a.Aspect, a.Mean, a.Samples})
	}
	if err := setRows(f, sheetAspects, 1, []any{"Aspect", "Mean sentiment", "Mentions"}, rows, bold); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return f.AddChart(sheetAspects, "E1", &excelize.Chart{
		Type:   excelize.Bar,
		Series: chartSeries(sheetAspects, "Mean sentiment", "A", "B", 2, 1+len(rows)),
		Title:  title("Sentiment by aspect"),
		Legend: excelize.ChartLegend{Position: "none"},
	})
}

func writeScores(f *excelize.File, v View, bold int) error {
	var rows [][]any
	for _, r := range v.Scores {
		rows = append(rows, []any{r.Label, r.Count})
	}
	if err := setRows(f, sheetScores, 1, []any{"Polarity", "Reviews"}, rows, bold); err != nil {
		return err
	}
	if v.Summary.TotalReviews == 0 {
		return nil
	}
	return f.AddChart(sheetScores, "D1", &excelize.Chart{
		Type:   excelize.Col,
		Series: chartSeries(sheetScores, "Reviews", "A", "B", 2, 1+len(rows)),
		Title:  title("Distribution of review polarity"),
		Legend: excelize.ChartLegend{Position: "none"},
	})
}

func writeKeywords(f *excelize.File, v View, bold int) error {
	var rows [][]any
	for _, k := range v.Summary.TopKeywords {
		rows = append(rows, []any{k.Word, k.Count})
	}
	return setRows(f, sheetKeywords, 1, []any{"Keyword", "Count"}, rows, bold)
}

func writeTrends(f *excelize.File, v View, bold int) error {
	ratings := map[string]float64{}
	for _, b := range v.Monthly.Rating {
		ratings[b.Bucket] = b.Mean
	}
	var rows [][]any
	for _, b := range v.Monthly.Sentiment {
		var avg any = ""
		if r, ok := ratings[b.Bucket]; ok {
			avg = r
		}
		rows = append(rows, []any{b.Bucket, b.Mean, b.StdDev, b.Count, avg})
	}
	header := []any{"Month", "Mean sentiment", "Std dev", "Reviews", "Avg rating"}
	if err := setRows(f, sheetTrends, 1, header, rows, bold); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return f.AddChart(sheetTrends, "G1", &excelize.Chart{
		Type:   excelize.Line,
		Series: chartSeries(sheetTrends, "Mean sentiment", "A", "B", 2, 1+len(rows)),
		Title:  title("Monthly sentiment"),
		Legend: excelize.ChartLegend{Position: "bottom"},
	})
}

func writeReviews(f *excelize.File, v View, bold int) error {
	var rows [][]any
	for _, s := range v.Sources {
		for _, l := range s.Listing {
			rows = append(rows, []any{s.Name, l.Date, l.Author, l.RatingLabel, l.Sentiment.String(), l.Score, l.Helpful, l.Text})
		}
	}
	header := []any{"Source", "Date", "Author", "Rating", "Sentiment", "Score", "Helpful", "Review"}
	if err := setRows(f, sheetReviews, 1, header, rows, bold); err != nil {
		return err
	}
	return f.SetColWidth(sheetReviews, "H", "H", 80)
}
