package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"review_dashboard/internal/adapters/observability"
	"review_dashboard/internal/analysis"
	"review_dashboard/internal/domain"
)

// Pipeline runs load → normalize → score → tag → aggregate on one goroutine.
type Pipeline struct {
	src         domain.RecordSource
	detector    *analysis.SourceDetector
	scorer      domain.Polarity
	thresholds  analysis.Thresholds
	tagger      *analysis.Tagger
	agg         *analysis.Aggregator
	placeholder string
}

func NewPipeline(src domain.RecordSource, p analysis.Profile, scorer domain.Polarity) *Pipeline {
	return &Pipeline{
		src:         src,
		detector:    analysis.NewSourceDetector(p.Sources),
		scorer:      scorer,
		thresholds:  p.Thresholds,
		tagger:      analysis.NewTagger(p.Aspects),
		agg:         analysis.NewAggregator(p),
		placeholder: p.AuthorPlaceholder,
	}
}

// Build always returns a snapshot; load problems end up in its LoadReport.
func (p *Pipeline) Build(ctx context.Context) *Snapshot {
	start := time.Now()
	files, rep := p.src.Load(ctx)

	var reviews []domain.Review
	for _, f := range files {
		source := p.detector.Detect(f.Name)
		rs, st := mapReviews(f, source, p.placeholder)
		rep.RecordsRead += st.read
		rep.RecordsKept += st.kept
		rep.RecordErrors += st.recordErrors
		rep.EmptyText += st.emptyText
		rep.FieldIssues += st.fieldIssues
		rep.SourcesPerFile = append(rep.SourcesPerFile, domain.FileSource{File: f.Name, Source: source, Records: st.kept})
		reviews = append(reviews, rs...)
	}
	observability.ObserveRecords("kept", rep.RecordsKept)
	observability.ObserveRecords("empty_text", rep.EmptyText)
	observability.ObserveRecords("malformed", rep.RecordErrors)

	// Scored exactly once; every view reads these values.
	for i := range reviews {
		reviews[i].SentimentScore = p.scorer.Score(reviews[i].Text)
		reviews[i].Category = p.thresholds.Classify(reviews[i].SentimentScore)
	}

	snap := p.assemble(reviews, rep)
	dur := time.Since(start)
	observability.ObserveSnapshot(len(reviews), dur)
	log.Info().
		Str("snapshot", snap.ID).
		Int("files", rep.FilesLoaded).
		Int("file_errors", len(rep.FileErrors)).
		Int("reviews", len(reviews)).
		Int("record_errors", rep.RecordErrors).
		Int("empty_text", rep.EmptyText).
		Int("field_issues", rep.FieldIssues).
		Dur("took", dur).
		Msg("snapshot built")
	return snap
}

func (p *Pipeline) assemble(reviews []domain.Review, rep domain.LoadReport) *Snapshot {
	samples := p.tagger.Tag(reviews)
	return &Snapshot{
		ID:       uuid.NewString(),
		BuiltAt:  time.Now().UTC(),
		Reviews:  reviews,
		Samples:  samples,
		Summary:  p.agg.Summary(reviews),
		Ratings:  p.agg.RatingsBySource(reviews),
		Listings: p.agg.ReviewsBySource(reviews),
		Aspects:  p.agg.AspectSentiment(samples),
		Scores:   analysis.ScoreHistogram(reviews),
		Trends: map[domain.Period]domain.TrendTable{
			domain.Month:   analysis.Trend(reviews, domain.Month),
			domain.Quarter: analysis.Trend(reviews, domain.Quarter),
		},
		Sources: analysis.SourceOrder(reviews),
		Load:    rep,
	}
}
