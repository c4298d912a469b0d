package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"review_dashboard/internal/analysis"
	"review_dashboard/internal/domain"
)

func TestScore_Sign(t *testing.T) {
	s := analysis.NewScorer()
	cases := []struct {
		name string
		text string
		sign int
	}{
		{"empty", "", 0},
		{"whitespace", "   \n", 0},
		{"no polar words", "the box arrived on tuesday", 0},
		{"positive", "Great battery life and comfortable fit", 1},
		{"negative", "Terrible customer service, broken and awful after a week", -1},
		{"negation flips", "not good at all", -1},
		{"case insensitive", "GREAT", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Score(tc.text)
			switch tc.sign {
			case 1:
				assert.Greater(t, got, 0.0)
			case -1:
				assert.Less(t, got, 0.0)
			default:
				assert.Zero(t, got)
			}
		})
	}
}

func TestScore_BoundedAndDeterministic(t *testing.T) {
	s := analysis.NewScorer()
	texts := []string{
		"absolutely perfect, extremely awesome, best ever!!!",
		"WORST, awful, terrible, absolutely useless!!!",
		"don't love it",
		"Great battery life and comfortable fit",
	}
	for _, text := range texts {
		got := s.Score(text)
		assert.GreaterOrEqual(t, got, -1.0)
		assert.LessOrEqual(t, got, 1.0)
		assert.Equal(t, got, s.Score(text))
	}
}

func TestScore_Intensity(t *testing.T) {
	s := analysis.NewScorer()
	assert.Greater(t, s.Score("extremely good!!"), s.Score("good"))
}

func TestClassify_Boundaries(t *testing.T) {
	th := analysis.Thresholds{PositiveMin: 0.1, NegativeMax: -0.1}
	cases := []struct {
		score float64
		want  domain.Category
	}{
		{0.1, domain.Neutral},
		{0.1000001, domain.Positive},
		{-0.1, domain.Neutral},
		{-0.1000001, domain.Negative},
		{0, domain.Neutral},
		{1, domain.Positive},
		{-1, domain.Negative},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, th.Classify(tc.score), "score %v", tc.score)
	}
}
