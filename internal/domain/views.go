package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrNotReady      = errors.New("snapshot not ready")
	ErrInvalidPeriod = errors.New("invalid period")
	ErrNoData        = errors.New("no review data loaded")
)

// Read models handed to report and chart consumers.

type SummaryStats struct {
	TotalReviews  int              `json:"total_reviews"`
	AvgRating     float64          `json:"avg_rating"`
	RatedReviews  int              `json:"rated_reviews"`
	AvgSentiment  float64          `json:"avg_sentiment"`
	Sources       map[string]int   `json:"sources"`
	SentimentDist map[Category]int `json:"sentiment_dist"`
	RatingDist    RatingHistogram  `json:"rating_dist"`
	TopKeywords   []KeywordCount   `json:"top_keywords"`
}

// RatingHistogram always carries the keys 1..5.
type RatingHistogram map[int]int

func NewRatingHistogram() RatingHistogram {
	return RatingHistogram{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
}

func (h RatingHistogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type SourceRatingStats struct {
	AvgRating    float64         `json:"avg_rating"`
	TotalRatings int             `json:"total_ratings"`
	Distribution RatingHistogram `json:"distribution"`
}

type ReviewListing struct {
	Author      string   `json:"author"`
	Rating      *int     `json:"rating"`
	RatingLabel string   `json:"rating_label"`
	Date        string   `json:"date"`
	Text        string   `json:"text"`
	Sentiment   Category `json:"sentiment"`
	Score       float64  `json:"score"`
	Helpful     int      `json:"helpful"`
}

type AspectSentiment struct {
	Aspect  string  `json:"aspect"`
	Mean    float64 `json:"mean"`
	Samples int     `json:"samples"` // 0 means no review matched; Mean is then 0
}

// ScoreBin is one bar of the polarity histogram. Lo is inclusive, Hi is
// exclusive except for the last bin, which also holds a score of exactly 1.
type ScoreBin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Period selects the calendar bucket used for trends.
type Period string

const (
	Month   Period = "month"
	Quarter Period = "quarter"
)

func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case "", Month:
		return Month, nil
	case Quarter:
		return Quarter, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
}

type SeriesStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"` // population
	Count  int     `json:"count"`
}

type BucketStats struct {
	Bucket string    `json:"bucket"`
	Start  time.Time `json:"start"`
	SeriesStats
}

// TrendTable holds independent sentiment and rating series; the rating
// series only has buckets with at least one rated review.
type TrendTable struct {
	Period    Period        `json:"period"`
	Sentiment []BucketStats `json:"sentiment"`
	Rating    []BucketStats `json:"rating"`
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type DataInfo struct {
	Status       string     `json:"status"`
	SnapshotID   string     `json:"snapshot_id"`
	BuiltAt      time.Time  `json:"built_at"`
	TotalReviews int        `json:"total_reviews"`
	Sources      []string   `json:"sources"`
	DateRange    *DateRange `json:"date_range"`
	Load         LoadReport `json:"load"`
}

// LoadReport makes every recovered load problem inspectable.
type LoadReport struct {
	DataDir        string       `json:"data_dir"`
	DirError       string       `json:"dir_error,omitempty"`
	FilesSeen      int          `json:"files_seen"`
	FilesLoaded    int          `json:"files_loaded"`
	FileErrors     []FileError  `json:"file_errors,omitempty"`
	RecordsRead    int          `json:"records_read"`
	RecordsKept    int          `json:"records_kept"`
	RecordErrors   int          `json:"record_errors"`
	EmptyText      int          `json:"empty_text"`
	FieldIssues    int          `json:"field_issues"`
	SourcesPerFile []FileSource `json:"sources_per_file,omitempty"`
}

type FileError struct {
	File string `json:"file"`
	Err  string `json:"error"`
}

type FileSource struct {
	File    string `json:"file"`
	Source  string `json:"source"`
	Records int    `json:"records"`
}
