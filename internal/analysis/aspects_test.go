package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_dashboard/internal/analysis"
	"review_dashboard/internal/domain"
)

func TestMatch(t *testing.T) {
	tg := analysis.NewTagger(analysis.DefaultProfile().Aspects)
	cases := []struct {
		text string
		want []string
	}{
		{"Great battery life and comfortable fit", []string{"comfort", "battery"}},
		{"Terrible customer service, broken and awful after a week", []string{"support", "quality"}},
		{"PRICE is fair", []string{"price"}},
		{"Reliable", []string{"quality", "performance"}}, // keyword shared by two aspects
		{"nothing to see", nil},
		{"", nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tg.Match(tc.text), tc.text)
	}
}

func TestTag_OneSamplePerAspect(t *testing.T) {
	tg := analysis.NewTagger(analysis.DefaultProfile().Aspects)
	reviews := []domain.Review{
		{Source: "Trustpilot", Text: "battery battery charge", SentimentScore: -0.2},
		{Source: "Google Play", Text: "comfortable, and the price is right", SentimentScore: 0.5},
	}
	got := tg.Tag(reviews)
	require.Len(t, got, 3)
	assert.Equal(t, domain.AspectSample{Aspect: "battery", Score: -0.2, Source: "Trustpilot"}, got[0])
	assert.Equal(t, "comfort", got[1].Aspect)
	assert.Equal(t, "price", got[2].Aspect)
	assert.Equal(t, 0.5, got[2].Score)
}

func TestTagger_Empty(t *testing.T) {
	tg := analysis.NewTagger(nil)
	assert.Nil(t, tg.Match("battery"))
	assert.Empty(t, tg.Aspects())
}
