// Package analysis holds the review scoring and aggregation core: source
// detection, lexicon sentiment, aspect tagging and summary statistics.
// Everything here is pure and driven by an explicit Profile.
package analysis

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"review_dashboard/internal/domain"
)

type Thresholds struct {
	PositiveMin float64 `yaml:"positive_min" json:"positive_min"`
	NegativeMax float64 `yaml:"negative_max" json:"negative_max"`
}

// Classify maps a score to a category. Both comparisons are strict, so a
// score equal to a threshold is Neutral.
func (t Thresholds) Classify(score float64) domain.Category {
	switch {
	case score > t.PositiveMin:
		return domain.Positive
	case score < t.NegativeMax:
		return domain.Negative
	default:
		return domain.Neutral
	}
}

type SourcePattern struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

type Aspect struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Profile is the analysis configuration. Treat it as a value: constructors
// copy what they keep.
type Profile struct {
	Thresholds        Thresholds      `yaml:"thresholds"`
	Sources           []SourcePattern `yaml:"sources"`
	Aspects           []Aspect        `yaml:"aspects"`
	StopWords         []string        `yaml:"stop_words"`
	TopKeywords       int             `yaml:"top_keywords"`
	AuthorPlaceholder string          `yaml:"author_placeholder"`
}

func DefaultProfile() Profile {
	return Profile{
		Thresholds: Thresholds{PositiveMin: 0.1, NegativeMax: -0.1},
		Sources: []SourcePattern{
			{Name: "Google Play", Patterns: []string{"google", "play"}},
			{Name: "App Store", Patterns: []string{"apple", "app_store"}},
			{Name: "Trustpilot", Patterns: []string{"trustpilot"}},
		},
		Aspects: []Aspect{
			{Name: "comfort", Keywords: []string{"comfort", "comfortable", "fit", "headband", "ergonomic", "wearable", "snug", "tight", "loose", "padding"}},
			{Name: "battery", Keywords: []string{"battery", "battery life", "power", "charge", "charging", "runtime", "lasting", "battery drain", "battery indicator", "battery performance"}},
			{Name: "shipping", Keywords: []string{"shipping", "delivery", "arrival", "package", "tracking", "shipment", "received", "shipping time", "shipping cost", "shipping speed"}},
			{Name: "app", Keywords: []string{"app", "application", "software", "interface", "mobile", "connectivity", "connection", "bluetooth", "pairing", "sync", "crashes", "bugs"}},
			{Name: "support", Keywords: []string{"support", "customer service", "warranty", "help", "assistance", "response", "service", "customer support", "technical support", "replacement"}},
			{Name: "quality", Keywords: []string{"quality", "build", "durability", "material", "construction", "reliable", "sturdy", "flimsy", "robust", "defective", "broken"}},
			{Name: "price", Keywords: []string{"price", "cost", "value", "worth", "expensive", "cheap", "affordable", "overpriced", "reasonable price", "price point"}},
			{Name: "performance", Keywords: []string{"performance", "works", "working", "effective", "results", "improvement", "efficiency", "accuracy", "reliable", "consistent", "impact"}},
		},
		StopWords: []string{
			"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
			"of", "with", "by", "is", "it", "that", "this", "are", "was", "were",
			"be", "been", "have", "has", "had", "do", "does", "did", "will", "would",
			"could", "should", "may", "might", "must", "can", "shall",
		},
		TopKeywords:       20,
		AuthorPlaceholder: domain.DefaultAuthor,
	}
}

// LoadProfile reads a YAML profile. Sections left out of the file keep
// their defaults; an empty path returns DefaultProfile.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	var file struct {
		Thresholds        *Thresholds     `yaml:"thresholds"`
		Sources           []SourcePattern `yaml:"sources"`
		Aspects           []Aspect        `yaml:"aspects"`
		StopWords         []string        `yaml:"stop_words"`
		TopKeywords       int             `yaml:"top_keywords"`
		AuthorPlaceholder string          `yaml:"author_placeholder"`
	}
	if err := yaml.Unmarshal(b, &file); err != nil {
		return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if file.Thresholds != nil {
		p.Thresholds = *file.Thresholds
	}
	if len(file.Sources) > 0 {
		p.Sources = file.Sources
	}
	if len(file.Aspects) > 0 {
		p.Aspects = file.Aspects
	}
	if file.StopWords != nil {
		p.StopWords = file.StopWords
	}
	if file.TopKeywords > 0 {
		p.TopKeywords = file.TopKeywords
	}
	if file.AuthorPlaceholder != "" {
		p.AuthorPlaceholder = file.AuthorPlaceholder
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// WithThresholds returns a copy with the given thresholds.
func (p Profile) WithThresholds(t Thresholds) Profile {
	p.Thresholds = t
	return p
}

func (p Profile) Validate() error {
	var errs []error
	if p.Thresholds.NegativeMax > p.Thresholds.PositiveMin {
		errs = append(errs, fmt.Errorf("negative_max %.3f is above positive_min %.3f",
			p.Thresholds.NegativeMax, p.Thresholds.PositiveMin))
	}
	seen := map[string]bool{}
	for i, a := range p.Aspects {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("aspect #%d has no name", i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("aspect %q declared twice", name))
		}
		seen[name] = true
		if len(a.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("aspect %q has no keywords", name))
		}
	}
	for i, s := range p.Sources {
		if strings.TrimSpace(s.Name) == "" {
			errs = append(errs, fmt.Errorf("source #%d has no name", i))
		}
	}
	return errors.Join(errs...)
}

// AspectNames returns aspect names in profile order.
func (p Profile) AspectNames() []string {
	out := make([]string, 0, len(p.Aspects))
	for _, a := range p.Aspects {
		out = append(out, a.Name)
	}
	return out
}
