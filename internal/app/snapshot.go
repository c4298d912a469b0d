package app

import (
	"fmt"
	"time"

	"review_dashboard/internal/analysis"
	"review_dashboard/internal/domain"
)

const (
	statusLoaded = "Data loaded"
	statusEmpty  = "No data loaded"
)

// Snapshot is an immutable, fully aggregated working set. Nothing mutates
// it after Build returns.
type Snapshot struct {
	ID       string
	BuiltAt  time.Time
	Reviews  []domain.Review
	Samples  []domain.AspectSample
	Summary  domain.SummaryStats
	Ratings  map[string]domain.SourceRatingStats
	Listings map[string][]domain.ReviewListing
	Aspects  []domain.AspectSentiment
	Scores   []domain.ScoreBin
	Trends   map[domain.Period]domain.TrendTable
	Sources  []string
	Load     domain.LoadReport
}

func (s *Snapshot) Empty() bool { return len(s.Reviews) == 0 }

func (s *Snapshot) Info() domain.DataInfo {
	info := domain.DataInfo{
		Status:       statusEmpty,
		SnapshotID:   s.ID,
		BuiltAt:      s.BuiltAt,
		TotalReviews: len(s.Reviews),
		Sources:      s.Sources,
		Load:         s.Load,
	}
	if !s.Empty() {
		info.Status = statusLoaded
		info.DateRange = analysis.DateRange(s.Reviews)
	}
	return info
}

// SourceReviews returns the listing for one source.
func (s *Snapshot) SourceReviews(source string) ([]domain.ReviewListing, error) {
	l, ok := s.Listings[source]
	if !ok {
		return nil, fmt.Errorf("source %q: %w", source, domain.ErrNotFound)
	}
	return l, nil
}

func (s *Snapshot) Trend(p domain.Period) (domain.TrendTable, error) {
	t, ok := s.Trends[p]
	if !ok {
		return domain.TrendTable{}, fmt.Errorf("%w: %q", domain.ErrInvalidPeriod, p)
	}
	return t, nil
}
