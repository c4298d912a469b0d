package analysis

import (
	"strings"

	"github.com/jonreiter/govader"
)

// Scorer wraps the VADER analyzer. It is the polarity black box behind
// domain.Polarity; nothing else depends on how it reaches a score.
type Scorer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// NewScorer loads the VADER lexicon once.
func NewScorer() *Scorer {
	return &Scorer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the VADER compound score in [-1, 1]. Blank text scores 0
// without touching the analyzer.
func (s *Scorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return clamp(s.vader.PolarityScores(text).Compound)
}

func clamp(v float64) float64 {
	return max(-1, min(1, v))
}
