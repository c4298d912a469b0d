package analysis

import (
	"sort"
	"strconv"

	"review_dashboard/internal/domain"
)

// Aggregator turns a scored working set into read models. Empty input
// yields zero-valued results, never an error.
type Aggregator struct {
	aspects     []string
	stop        map[string]struct{}
	topKeywords int
}

func NewAggregator(p Profile) *Aggregator {
	return &Aggregator{
		aspects:     p.AspectNames(),
		stop:        stopSet(p.StopWords),
		topKeywords: p.TopKeywords,
	}
}

func (a *Aggregator) Summary(reviews []domain.Review) domain.SummaryStats {
	s := domain.SummaryStats{
		TotalReviews:  len(reviews),
		Sources:       map[string]int{},
		SentimentDist: map[domain.Category]int{},
		RatingDist:    domain.NewRatingHistogram(),
	}
	for _, c := range domain.Categories {
		s.SentimentDist[c] = 0
	}

	var sentSum, ratingSum float64
	texts := make([]string, 0, len(reviews))
	for _, r := range reviews {
		sentSum += r.SentimentScore
		s.Sources[r.Source]++
		s.SentimentDist[r.Category]++
		if r.Rating != nil {
			s.RatedReviews++
			ratingSum += float64(*r.Rating)
			s.RatingDist[*r.Rating]++
		}
		texts = append(texts, r.Text)
	}
	if len(reviews) > 0 {
		s.AvgSentiment = sentSum / float64(len(reviews))
	}
	if s.RatedReviews > 0 {
		s.AvgRating = ratingSum / float64(s.RatedReviews)
	}
	s.TopKeywords = TopKeywords(texts, a.stop, a.topKeywords)
	return s
}

// RatingsBySource covers only sources with at least one rated review.
func (a *Aggregator) RatingsBySource(reviews []domain.Review) map[string]domain.SourceRatingStats {
	out := map[string]domain.SourceRatingStats{}
	sums := map[string]float64{}
	for _, r := range reviews {
		if r.Rating == nil {
			continue
		}
		st, ok := out[r.Source]
		if !ok {
			st.Distribution = domain.NewRatingHistogram()
		}
		st.TotalRatings++
		st.Distribution[*r.Rating]++
		sums[r.Source] += float64(*r.Rating)
		out[r.Source] = st
	}
	for src, st := range out {
		st.AvgRating = sums[src] / float64(st.TotalRatings)
		out[src] = st
	}
	return out
}

// ReviewsBySource lists reviews per source, newest first, undated last.
func (a *Aggregator) ReviewsBySource(reviews []domain.Review) map[string][]domain.ReviewListing {
	grouped := map[string][]domain.Review{}
	for _, r := range reviews {
		grouped[r.Source] = append(grouped[r.Source], r)
	}
	out := make(map[string][]domain.ReviewListing, len(grouped))
	for src, rs := range grouped {
		sort.SliceStable(rs, func(i, j int) bool { return newerFirst(rs[i], rs[j]) })
		list := make([]domain.ReviewListing, 0, len(rs))
		for _, r := range rs {
			list = append(list, listing(r))
		}
		out[src] = list
	}
	return out
}

func newerFirst(a, b domain.Review) bool {
	switch {
	case a.Date == nil:
		return false
	case b.Date == nil:
		return true
	default:
		return a.Date.After(*b.Date)
	}
}

func listing(r domain.Review) domain.ReviewListing {
	l := domain.ReviewListing{
		Author:      r.Author,
		Rating:      r.Rating,
		RatingLabel: domain.MissingValueLabel,
		Date:        r.DateLabel(),
		Text:        r.Text,
		Sentiment:   r.Category,
		Score:       r.SentimentScore,
		Helpful:     r.HelpfulCount,
	}
	if r.Rating != nil {
		l.RatingLabel = strconv.Itoa(*r.Rating)
	}
	return l
}

// AspectSentiment averages samples per configured aspect. Aspects without
// samples are reported with Mean 0 and Samples 0.
func (a *Aggregator) AspectSentiment(samples []domain.AspectSample) []domain.AspectSentiment {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, s := range samples {
		sums[s.Aspect] += s.Score
		counts[s.Aspect]++
	}
	out := make([]domain.AspectSentiment, 0, len(a.aspects))
	for _, name := range a.aspects {
		as := domain.AspectSentiment{Aspect: name, Samples: counts[name]}
		if as.Samples > 0 {
			as.Mean = sums[name] / float64(as.Samples)
		}
		out = append(out, as)
	}
	return out
}

// SourceOrder returns sources in first-seen order.
func SourceOrder(reviews []domain.Review) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range reviews {
		if !seen[r.Source] {
			seen[r.Source] = true
			out = append(out, r.Source)
		}
	}
	return out
}

// DateRange returns the earliest and latest review dates, or nil.
func DateRange(reviews []domain.Review) *domain.DateRange {
	var dr *domain.DateRange
	for _, r := range reviews {
		if r.Date == nil {
			continue
		}
		if dr == nil {
			dr = &domain.DateRange{Start: *r.Date, End: *r.Date}
			continue
		}
		if r.Date.Before(dr.Start) {
			dr.Start = *r.Date
		}
		if r.Date.After(dr.End) {
			dr.End = *r.Date
		}
	}
	return dr
}
