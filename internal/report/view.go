// Package report renders snapshot views for people: an HTML dashboard, an
// XLSX workbook with charts and terminal tables.
package report

import (
	"fmt"
	"sort"
	"time"

	"review_dashboard/internal/app"
	"review_dashboard/internal/domain"
)

// MaxListed caps the reviews shown per source on the dashboard.
const MaxListed = 100

type Bar struct {
	Stars int
	Count int
	Pct   float64
}

type SourceRow struct {
	Name    string
	Reviews int
	Rating  *domain.SourceRatingStats
	Bars    []Bar                  // 5 down to 1
	Listing []domain.ReviewListing // complete, newest first
	Shown   []domain.ReviewListing // at most MaxListed
	Hidden  int
}

// ScoreRow is one polarity histogram bar; Pct is relative to the fullest bin.
type ScoreRow struct {
	Label string
	Count int
	Pct   float64
}

type CategoryRow struct {
	Category domain.Category
	Count    int
	Pct      float64
}

// View is everything a renderer needs, in display order.
type View struct {
	Title       string
	GeneratedAt time.Time
	Info        domain.DataInfo
	Summary     domain.SummaryStats
	Sources     []SourceRow
	Sentiment   []CategoryRow
	Scores      []ScoreRow
	Ratings     []Bar // overall, 5 down to 1
	Aspects     []domain.AspectSentiment
	Monthly     domain.TrendTable
}

func NewView(s *app.Snapshot) View {
	v := View{
		Title:       "Review Dashboard",
		GeneratedAt: time.Now().UTC(),
		Info:        s.Info(),
		Summary:     s.Summary,
		Aspects:     s.Aspects,
		Monthly:     s.Trends[domain.Month],
	}
	names := append([]string(nil), s.Sources...)
	sort.SliceStable(names, func(i, j int) bool { return s.Summary.Sources[names[i]] > s.Summary.Sources[names[j]] })
	for _, name := range names {
		row := SourceRow{Name: name, Reviews: s.Summary.Sources[name]}
		if st, ok := s.Ratings[name]; ok {
			st := st
			row.Rating = &st
			row.Bars = bars(st.Distribution)
		}
		row.Listing = s.Listings[name]
		row.Shown = row.Listing
		if len(row.Shown) > MaxListed {
			row.Hidden = len(row.Shown) - MaxListed
			row.Shown = row.Shown[:MaxListed]
		}
		v.Sources = append(v.Sources, row)
	}
	total := s.Summary.TotalReviews
	for _, c := range domain.Categories {
		n := s.Summary.SentimentDist[c]
		v.Sentiment = append(v.Sentiment, CategoryRow{Category: c, Count: n, Pct: pct(n, total)})
	}
	v.Ratings = bars(s.Summary.RatingDist)
	v.Scores = scoreRows(s.Scores)
	return v
}

func scoreRows(bins []domain.ScoreBin) []ScoreRow {
	peak := 0
	for _, b := range bins {
		peak = max(peak, b.Count)
	}
	out := make([]ScoreRow, 0, len(bins))
	for _, b := range bins {
		out = append(out, ScoreRow{
			Label: fmt.Sprintf("%.1f to %.1f", b.Lo, b.Hi),
			Count: b.Count,
			Pct:   pct(b.Count, peak),
		})
	}
	return out
}

func bars(h domain.RatingHistogram) []Bar {
	total := h.Total()
	out := make([]Bar, 0, 5)
	for stars := 5; stars >= 1; stars-- {
		out = append(out, Bar{Stars: stars, Count: h[stars], Pct: pct(h[stars], total)})
	}
	return out
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}
