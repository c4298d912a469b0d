package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampler_WritesLoadableFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	paths, err := NewSampler(7, now).Write(dir, DefaultSamplePlatforms)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	got, rep := New(dir).Load(context.Background())
	require.Len(t, got, 3)
	assert.Empty(t, rep.FileErrors)

	counts := map[string]int{}
	for _, f := range got {
		counts[f.Name] = len(f.Records)
		for _, r := range f.Records {
			m := r.(map[string]any)
			rating := m["rating"].(float64)
			assert.GreaterOrEqual(t, rating, 1.0)
			assert.LessOrEqual(t, rating, 5.0)
			d, err := time.Parse("2006-01-02", m["date"].(string))
			require.NoError(t, err)
			assert.False(t, d.After(now))
			assert.False(t, d.Before(now.AddDate(0, 0, -365)))
			assert.NotEmpty(t, m["review"])
		}
	}
	assert.Equal(t, map[string]int{
		"app_store_reviews.json":   80,
		"google_play_reviews.json": 100,
		"trustpilot_reviews.json":  120,
	}, counts)
}

func TestSampler_Deterministic(t *testing.T) {
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	a, b := t.TempDir(), t.TempDir()
	_, err := NewSampler(42, now).Write(a, DefaultSamplePlatforms)
	require.NoError(t, err)
	_, err = NewSampler(42, now).Write(b, DefaultSamplePlatforms)
	require.NoError(t, err)

	for _, p := range DefaultSamplePlatforms {
		x, err := os.ReadFile(filepath.Join(a, p.File))
		require.NoError(t, err)
		y, err := os.ReadFile(filepath.Join(b, p.File))
		require.NoError(t, err)
		assert.Equal(t, x, y, p.File)
	}
}
