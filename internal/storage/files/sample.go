package files

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	samplePositive = []string{
		"Amazing product! Really helps with meditation and focus.",
		"Great app, very user-friendly interface. Highly recommend!",
		"Excellent customer service and fast shipping.",
		"Love the comfort and build quality. Worth every penny!",
		"The battery life is impressive and the device is very reliable.",
		"Perfect for daily meditation practice. Seeing real improvements!",
		"The app is intuitive and the data insights are valuable.",
		"Comfortable to wear and easy to use. Great investment!",
		"Outstanding performance and very accurate readings.",
		"Fantastic product that actually works as advertised.",
	}
	sampleNeutral = []string{
		"It's okay, does what it's supposed to do.",
		"Average product, nothing special but works fine.",
		"Decent app but could use some improvements.",
		"The device is alright, meets basic expectations.",
		"Works as expected, nothing more nothing less.",
		"It's fine for the price point.",
		"Does the job but room for improvement.",
		"Adequate performance, could be better.",
		"Standard quality, meets minimum requirements.",
		"Fair product, gets the basics right.",
	}
	sampleNegative = []string{
		"Terrible app, constantly crashes and bugs everywhere.",
		"Waste of money, doesn't work as advertised.",
		"Poor customer service, no response to my complaints.",
		"Uncomfortable to wear, cheap build quality.",
		"Battery dies too quickly, very disappointed.",
		"The app is confusing and difficult to navigate.",
		"Overpriced for what you get, not worth it.",
		"Many technical issues, very frustrating experience.",
		"Product broke after just a few weeks of use.",
		"Completely useless, total disappointment.",
	}
	sampleAuthors = []string{
		"John D.", "Sarah M.", "Mike R.", "Emily S.", "David L.",
		"Lisa K.", "Tom W.", "Anna B.", "Chris P.", "Jessica T.",
		"Mark H.", "Rachel C.", "Alex J.", "Nicole V.", "Ryan F.",
	}
)

// SamplePlatform describes one synthetic export file.
type SamplePlatform struct {
	File       string
	IDPrefix   string
	Platform   string
	Count      int
	MaxHelpful int
}

// DefaultSamplePlatforms mirrors the three platforms the dashboard knows.
var DefaultSamplePlatforms = []SamplePlatform{
	{File: "google_play_reviews.json", IDPrefix: "gp", Platform: "google_play", Count: 100, MaxHelpful: 20},
	{File: "app_store_reviews.json", IDPrefix: "as", Platform: "app_store", Count: 80, MaxHelpful: 15},
	{File: "trustpilot_reviews.json", IDPrefix: "tp", Platform: "trustpilot", Count: 120, MaxHelpful: 25},
}

type sampleReview struct {
	ID       string `json:"id"`
	Author   string `json:"author"`
	Rating   int    `json:"rating"`
	Review   string `json:"review"`
	Date     string `json:"date"`
	Helpful  int    `json:"helpful"`
	Platform string `json:"platform"`
}

// Sampler writes synthetic review exports. The same seed and clock give
// byte-identical files.
type Sampler struct {
	rng *rand.Rand
	now time.Time
}

func NewSampler(seed uint64, now time.Time) *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), now: now}
}

func (s *Sampler) pick(xs []string) string { return xs[s.rng.IntN(len(xs))] }

func (s *Sampler) reviews(p SamplePlatform) []sampleReview {
	base := s.now.AddDate(0, 0, -365)
	out := make([]sampleReview, 0, p.Count)
	for i := range p.Count {
		var text string
		var rating int
		switch s.rng.IntN(3) {
		case 0:
			text, rating = s.pick(samplePositive), 4+s.rng.IntN(2)
		case 1:
			text, rating = s.pick(sampleNeutral), 3
		default:
			text, rating = s.pick(sampleNegative), 1+s.rng.IntN(2)
		}
		out = append(out, sampleReview{
			ID:       fmt.Sprintf("%s_%d", p.IDPrefix, i+1),
			Author:   s.pick(sampleAuthors),
			Rating:   rating,
			Review:   text,
			Date:     base.AddDate(0, 0, s.rng.IntN(366)).Format("2006-01-02"),
			Helpful:  s.rng.IntN(p.MaxHelpful + 1),
			Platform: p.Platform,
		})
	}
	return out
}

// Write creates dir if needed and writes one JSON array per platform. It
// returns the paths written, in platform order.
func (s *Sampler) Write(dir string, platforms []SamplePlatform) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	var paths []string
	for _, p := range platforms {
		b, err := json.MarshalIndent(s.reviews(p), "", "  ")
		if err != nil {
			return paths, fmt.Errorf("encode %s: %w", p.File, err)
		}
		path := filepath.Join(dir, p.File)
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		log.Info().Str("file", path).Int("reviews", p.Count).Msg("sample data written")
		paths = append(paths, path)
	}
	return paths, nil
}
