package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"review_dashboard/internal/domain"
)

// QueryService serves snapshot views through a cache. Keys carry the
// snapshot ID, so a swap never serves stale views.
type QueryService struct {
	store    *Store
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(s *Store, c domain.Cache, ttl time.Duration) *QueryService {
	if c == nil {
		c = NopCache{}
	}
	return &QueryService{store: s, cache: c, cacheTTL: ttl}
}

func cacheKey(snapID, view string) string { return fmt.Sprintf("snap:%s:%s", snapID, view) }

// cached is the cache-aside read shared by every view.
func cached[T any](ctx context.Context, s *QueryService, view string, build func(*Snapshot) (T, error)) (T, error) {
	var out T
	snap, err := s.store.Current()
	if err != nil {
		return out, err
	}
	key := cacheKey(snap.ID, view)
	if ok, err := s.cache.Get(ctx, key, &out); ok && err == nil {
		return out, nil
	} else if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	out, err = build(snap)
	if err != nil {
		return out, err
	}
	// optional size guard
	if b, _ := json.Marshal(out); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

func (s *QueryService) Snapshot() (*Snapshot, error) { return s.store.Current() }

func (s *QueryService) Summary(ctx context.Context) (domain.SummaryStats, error) {
	return cached(ctx, s, "summary", func(sn *Snapshot) (domain.SummaryStats, error) { return sn.Summary, nil })
}

func (s *QueryService) RatingsBySource(ctx context.Context) (map[string]domain.SourceRatingStats, error) {
	return cached(ctx, s, "ratings", func(sn *Snapshot) (map[string]domain.SourceRatingStats, error) { return sn.Ratings, nil })
}

func (s *QueryService) ReviewsBySource(ctx context.Context, source string) ([]domain.ReviewListing, error) {
	return cached(ctx, s, "reviews:"+source, func(sn *Snapshot) ([]domain.ReviewListing, error) {
		l, err := sn.SourceReviews(source)
		if err != nil {
			return nil, err
		}
		// copy so callers can't alias the snapshot
		return append([]domain.ReviewListing(nil), l...), nil
	})
}

func (s *QueryService) Aspects(ctx context.Context) ([]domain.AspectSentiment, error) {
	return cached(ctx, s, "aspects", func(sn *Snapshot) ([]domain.AspectSentiment, error) { return sn.Aspects, nil })
}

// Scores is the polarity histogram.
func (s *QueryService) Scores(ctx context.Context) ([]domain.ScoreBin, error) {
	return cached(ctx, s, "scores", func(sn *Snapshot) ([]domain.ScoreBin, error) { return sn.Scores, nil })
}

func (s *QueryService) Trend(ctx context.Context, p domain.Period) (domain.TrendTable, error) {
	return cached(ctx, s, "trends:"+string(p), func(sn *Snapshot) (domain.TrendTable, error) { return sn.Trend(p) })
}

func (s *QueryService) Info(ctx context.Context) (domain.DataInfo, error) {
	return cached(ctx, s, "info", func(sn *Snapshot) (domain.DataInfo, error) { return sn.Info(), nil })
}

// Evict drops the cached views of a replaced snapshot.
func (s *QueryService) Evict(ctx context.Context, old *Snapshot) {
	if old == nil {
		return
	}
	views := []string{"summary", "ratings", "aspects", "scores", "info",
		"trends:" + string(domain.Month), "trends:" + string(domain.Quarter)}
	for _, src := range old.Sources {
		views = append(views, "reviews:"+src)
	}
	for _, v := range views {
		_ = s.cache.Del(ctx, cacheKey(old.ID, v))
	}
}

// NopCache is used when no Redis address is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NopCache) Set(context.Context, string, any, int) error    { return nil }
func (NopCache) Del(context.Context, string) error              { return nil }
