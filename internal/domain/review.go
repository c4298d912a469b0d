package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	UnknownSource     = "Unknown"
	DefaultAuthor     = "Anonymous"
	DateLayout        = "2006-01-02"
	MissingValueLabel = "N/A"
)

// Review is the canonical record after normalization. Derived fields
// (SentimentScore, Category) are filled once by the pipeline.
type Review struct {
	Source       string
	Author       string
	Rating       *int // 1..5, nil when absent
	Text         string
	Date         *time.Time // UTC midnight, nil when absent
	HelpfulCount int
	File         string
	Issues       []FieldIssue

	SentimentScore float64
	Category       Category
}

// DateLabel formats the date for listings, or N/A.
func (r Review) DateLabel() string {
	if r.Date == nil {
		return MissingValueLabel
	}
	return r.Date.Format(DateLayout)
}

// FieldIssue records why a field ended up absent or defaulted.
type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
	Raw    string `json:"raw,omitempty"`
}

func (f FieldIssue) String() string {
	if f.Raw == "" {
		return fmt.Sprintf("%s: %s", f.Field, f.Reason)
	}
	return fmt.Sprintf("%s: %s (%q)", f.Field, f.Reason, f.Raw)
}

// Category is the discrete sentiment class of a review.
type Category int

const (
	Neutral Category = iota
	Positive
	Negative
)

// Categories in display order.
var Categories = []Category{Positive, Neutral, Negative}

var categoryNames = map[Category]string{
	Positive: "Positive",
	Neutral:  "Neutral",
	Negative: "Negative",
}

var categoryFromName = map[string]Category{
	"Positive": Positive,
	"Neutral":  Neutral,
	"Negative": Negative,
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Category) UnmarshalText(b []byte) error {
	v, ok := categoryFromName[string(b)]
	if !ok {
		return fmt.Errorf("domain: unknown category %q", string(b))
	}
	*c = v
	return nil
}

func (c Category) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return c.UnmarshalText([]byte(s))
}

// AspectSample ties one review's score to one matched aspect.
type AspectSample struct {
	Aspect string
	Score  float64
	Source string
}
