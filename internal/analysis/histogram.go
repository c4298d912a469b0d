package analysis

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"review_dashboard/internal/domain"
)

// ScoreBins is the bar count of the polarity histogram.
const ScoreBins = 20

// ScoreHistogram counts scores into ScoreBins equal-width bins over [-1, 1].
// Bins are always returned, zero-filled when there are no reviews.
func ScoreHistogram(reviews []domain.Review) []domain.ScoreBin {
	edges := floats.Span(make([]float64, ScoreBins+1), -1, 1)
	out := make([]domain.ScoreBin, ScoreBins)
	for i := range out {
		out[i] = domain.ScoreBin{Lo: edges[i], Hi: edges[i+1]}
	}
	if len(reviews) == 0 {
		return out
	}

	scores := make([]float64, len(reviews))
	for i, r := range reviews {
		scores[i] = clamp(r.SentimentScore)
	}
	slices.Sort(scores)

	// stat.Histogram treats the upper divider as exclusive.
	dividers := slices.Clone(edges)
	dividers[ScoreBins] = math.Nextafter(1, 2)
	for i, c := range stat.Histogram(nil, dividers, scores, nil) {
		out[i].Count = int(c)
	}
	return out
}
