//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "review_dashboard/internal/adapters/http_server"
	redisad "review_dashboard/internal/adapters/redis"
	"review_dashboard/internal/analysis"
	"review_dashboard/internal/app"
	"review_dashboard/internal/domain"
	"review_dashboard/internal/storage/files"
)

// ---------- helpers ----------

func startRedis(t *testing.T) string {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run redis: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	addr := "127.0.0.1:" + resource.GetPort("6379/tcp")
	if err := pool.Retry(func() error {
		c := redis.NewClient(&redis.Options{Addr: addr})
		defer c.Close()
		return c.Ping(context.Background()).Err()
	}); err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	return addr
}

func writeJSON(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func getSummary(t *testing.T, h http.Handler) domain.SummaryStats {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/summary", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var s domain.SummaryStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &s))
	return s
}

// ---------- the test ----------

func TestHTTP_EndToEnd_RedisBackedViews(t *testing.T) {
	addr := startRedis(t)
	cache := redisad.New(addr, "", 0)
	t.Cleanup(func() { _ = cache.Close() })
	raw := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = raw.Close() })
	ctx := context.Background()

	dir := t.TempDir()
	writeJSON(t, dir, "google_play.json", `[{"review":"Great battery life and comfortable fit","rating":5,"date":"2024-01-15"}]`)

	pipeline := app.NewPipeline(files.New(dir), analysis.DefaultProfile(), analysis.NewScorer())
	store := app.NewStore(pipeline)
	q := app.NewQueryService(store, cache, time.Minute)
	store.OnSwap(func(old *app.Snapshot) { q.Evict(ctx, old) })

	srv := server.New(nil)
	srv.MountHandlers(server.NewHandlers(q, store, 0))
	h := srv.Mux()

	first := store.Reload(ctx)
	s := getSummary(t, h)
	assert.Equal(t, 1, s.TotalReviews)

	key := "reviews:snap:" + first.ID + ":summary"
	n, err := raw.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "summary cached under snapshot key")

	// second read is a cache hit and must decode to the same view
	assert.Equal(t, s.RatingDist, getSummary(t, h).RatingDist)

	writeJSON(t, dir, "trustpilot.json", `[{"review":"Terrible customer service, broken and awful after a week","rating":1,"date":"2024-02-03"}]`)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/v1/reload", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	s = getSummary(t, h)
	assert.Equal(t, 2, s.TotalReviews)
	assert.Equal(t, 1, s.RatingDist[1])

	n, err = raw.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "old snapshot views evicted")
}
