package analysis

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"review_dashboard/internal/domain"
)

// BucketOf returns the label and calendar start of the period containing t.
func BucketOf(t time.Time, p domain.Period) (string, time.Time) {
	y, m, _ := t.Date()
	if p == domain.Quarter {
		q := (int(m)-1)/3 + 1
		start := time.Date(y, time.Month((q-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		return fmt.Sprintf("%d-Q%d", y, q), start
	}
	return fmt.Sprintf("%d-%02d", y, int(m)), time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

type bucketAcc struct {
	label     string
	start     time.Time
	sentiment []float64
	ratings   []float64
}

// Trend groups dated reviews by period. Sentiment and rating series are
// computed independently; buckets are ordered by start date.
func Trend(reviews []domain.Review, p domain.Period) domain.TrendTable {
	out := domain.TrendTable{Period: p, Sentiment: []domain.BucketStats{}, Rating: []domain.BucketStats{}}
	buckets := map[time.Time]*bucketAcc{}
	for _, r := range reviews {
		if r.Date == nil {
			continue
		}
		label, start := BucketOf(*r.Date, p)
		b, ok := buckets[start]
		if !ok {
			b = &bucketAcc{label: label, start: start}
			buckets[start] = b
		}
		b.sentiment = append(b.sentiment, r.SentimentScore)
		if r.Rating != nil {
			b.ratings = append(b.ratings, float64(*r.Rating))
		}
	}

	ordered := make([]*bucketAcc, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].start.Before(ordered[j].start) })

	for _, b := range ordered {
		out.Sentiment = append(out.Sentiment, domain.BucketStats{
			Bucket: b.label, Start: b.start, SeriesStats: seriesStats(b.sentiment),
		})
		if len(b.ratings) > 0 {
			out.Rating = append(out.Rating, domain.BucketStats{
				Bucket: b.label, Start: b.start, SeriesStats: seriesStats(b.ratings),
			})
		}
	}
	return out
}

// seriesStats computes mean and population standard deviation.
func seriesStats(xs []float64) domain.SeriesStats {
	switch len(xs) {
	case 0:
		return domain.SeriesStats{}
	case 1:
		return domain.SeriesStats{Mean: xs[0], Count: 1}
	}
	m, sd := stat.PopMeanStdDev(xs, nil)
	return domain.SeriesStats{Mean: m, StdDev: sd, Count: len(xs)}
}
