package report_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"review_dashboard/internal/analysis"
	"review_dashboard/internal/app"
	"review_dashboard/internal/report"
	"review_dashboard/internal/storage/files"
)

func snapshotFrom(t *testing.T, fixtures map[string]string) *app.Snapshot {
	t.Helper()
	dir := t.TempDir()
	for name, body := range fixtures {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	p := app.NewPipeline(files.New(dir), analysis.DefaultProfile(), analysis.NewScorer())
	return p.Build(context.Background())
}

func scenario(t *testing.T) report.View {
	return report.NewView(snapshotFrom(t, map[string]string{
		"google_play.json": `[{"review":"Great battery life and comfortable fit","rating":5,"date":"2024-01-15","userName":"Ann"}]`,
		"trustpilot.json":  `[{"review":"Terrible customer service, broken and awful after a week","rating":1,"date":"2024-02-03T09:00:00Z"}]`,
	}))
}

func TestNewView_Ordering(t *testing.T) {
	v := scenario(t)
	require.Len(t, v.Sources, 2)
	require.Len(t, v.Ratings, 5)
	assert.Equal(t, 5, v.Ratings[0].Stars)
	assert.InDelta(t, 50.0, v.Ratings[0].Pct, 1e-9)
	require.Len(t, v.Sentiment, 3)
	assert.Equal(t, 2, v.Monthly.Sentiment[0].Count+v.Monthly.Sentiment[1].Count)

	require.Len(t, v.Scores, 20)
	assert.Equal(t, "-1.0 to -0.9", v.Scores[0].Label)
	assert.Equal(t, "0.9 to 1.0", v.Scores[19].Label)
	peak := 0.0
	for _, r := range v.Scores {
		peak = max(peak, r.Pct)
	}
	assert.InDelta(t, 100.0, peak, 1e-9)
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.RenderHTML(&buf, scenario(t)))
	out := buf.String()
	for _, want := range []string{"Google Play", "Trustpilot", "battery", "2024-01", "2024-02", "Anonymous", "★★★★★", "Polarity distribution"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderNoData(t *testing.T) {
	snap := snapshotFrom(t, nil)
	var buf bytes.Buffer
	require.NoError(t, report.RenderNoData(&buf, snap.Info()))
	assert.Contains(t, buf.String(), "No Data Found")
	assert.Contains(t, buf.String(), snap.Load.DataDir)
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteWorkbook(&buf, scenario(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Summary", "Sources", "Aspects", "Scores", "Keywords", "Trends", "Reviews"}, f.GetSheetList())
	total, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	rows, err := f.GetRows("Reviews")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	aspects, err := f.GetRows("Aspects")
	require.NoError(t, err)
	assert.Len(t, aspects, 9)

	scores, err := f.GetRows("Scores")
	require.NoError(t, err)
	require.Len(t, scores, 21)
	assert.Equal(t, []string{"Polarity", "Reviews"}, scores[0])
}

func TestWorkbook_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteWorkbook(&buf, report.NewView(snapshotFrom(t, nil))))
	assert.NotZero(t, buf.Len())
}

func TestRenderTables(t *testing.T) {
	var buf bytes.Buffer
	v := scenario(t)
	report.RenderTables(&buf, v)
	report.RenderLoadReport(&buf, v)
	out := buf.String()
	assert.Contains(t, out, "Trustpilot")
	assert.Contains(t, out, "comfort")
	assert.True(t, strings.Contains(out, "google_play.json"))
}
