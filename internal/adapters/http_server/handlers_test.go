package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "review_dashboard/internal/adapters/http_server"
	"review_dashboard/internal/analysis"
	"review_dashboard/internal/app"
	"review_dashboard/internal/domain"
	"review_dashboard/internal/storage/files"
)

type harness struct {
	h     http.Handler
	store *app.Store
}

func newHarness(t *testing.T, fixtures map[string]string, reloadRPS float64) harness {
	t.Helper()
	dir := t.TempDir()
	for name, body := range fixtures {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	p := app.NewPipeline(files.New(dir), analysis.DefaultProfile(), analysis.NewScorer())
	st := app.NewStore(p)
	q := app.NewQueryService(st, nil, time.Minute)
	srv := httpserver.New(nil)
	srv.MountHandlers(httpserver.NewHandlers(q, st, reloadRPS))
	return harness{h: srv.Mux(), store: st}
}

var scenario = map[string]string{
	"google_play.json": `[{"review":"Great battery life and comfortable fit","rating":5,"date":"2024-01-15"}]`,
	"trustpilot.json":  `{"reviews":[{"review":"Terrible customer service, broken and awful after a week","rating":1,"date":"2024-02-03"}]}`,
}

func (h harness) do(t *testing.T, method, target string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.h.ServeHTTP(rr, req)
	return rr
}

func TestNotReadyBeforeFirstBuild(t *testing.T) {
	h := newHarness(t, scenario, 0)
	rr := h.do(t, "GET", "/v1/summary", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
}

func TestSummary_ETag(t *testing.T) {
	h := newHarness(t, scenario, 0)
	h.store.Reload(context.Background())

	rr := h.do(t, "GET", "/v1/summary", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var s domain.SummaryStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &s))
	assert.Equal(t, 2, s.TotalReviews)
	assert.Equal(t, 1, s.RatingDist[5])

	etag := rr.Header().Get("ETag")
	require.NotEmpty(t, etag)
	rr = h.do(t, "GET", "/v1/summary", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, rr.Code)
}

func TestSourceReviews(t *testing.T) {
	h := newHarness(t, scenario, 0)
	h.store.Reload(context.Background())

	rr := h.do(t, "GET", "/v1/sources/Google%20Play/reviews", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var l []domain.ReviewListing
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &l))
	require.Len(t, l, 1)
	assert.Equal(t, domain.Positive, l[0].Sentiment)

	rr = h.do(t, "GET", "/v1/sources/Nowhere/reviews", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTrends(t *testing.T) {
	h := newHarness(t, scenario, 0)
	h.store.Reload(context.Background())

	rr := h.do(t, "GET", "/v1/trends", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var tt domain.TrendTable
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tt))
	assert.Equal(t, domain.Month, tt.Period)
	assert.Len(t, tt.Sentiment, 2)

	rr = h.do(t, "GET", "/v1/trends?period=quarter", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tt))
	assert.Len(t, tt.Sentiment, 1)

	rr = h.do(t, "GET", "/v1/trends?period=week", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAspectsAndInfo(t *testing.T) {
	h := newHarness(t, scenario, 0)
	h.store.Reload(context.Background())

	rr := h.do(t, "GET", "/v1/aspects", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var as []domain.AspectSentiment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &as))
	assert.Len(t, as, 8)

	rr = h.do(t, "GET", "/v1/scores", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var bins []domain.ScoreBin
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &bins))
	require.Len(t, bins, 20)
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 2, total)

	rr = h.do(t, "GET", "/v1/info", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var info domain.DataInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, "Data loaded", info.Status)
	assert.Equal(t, 2, info.Load.FilesLoaded)
}

func TestReload_RateLimited(t *testing.T) {
	h := newHarness(t, scenario, 0.001)
	rr := h.do(t, "POST", "/v1/reload", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = h.do(t, "POST", "/v1/reload", nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
}

func TestDashboardPages(t *testing.T) {
	h := newHarness(t, scenario, 0)
	h.store.Reload(context.Background())
	rr := h.do(t, "GET", "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rr.Body.String(), "Trustpilot")

	rr = h.do(t, "GET", "/export.xlsx", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotZero(t, rr.Body.Len())

	empty := newHarness(t, nil, 0)
	empty.store.Reload(context.Background())
	rr = empty.do(t, "GET", "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No Data Found")
	rr = empty.do(t, "GET", "/export.xlsx", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t, scenario, 0)
	rr := h.do(t, "OPTIONS", "/v1/summary", map[string]string{
		"Origin":                        "http://example.com",
		"Access-Control-Request-Method": "GET",
	})
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
