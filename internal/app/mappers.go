package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"

	"review_dashboard/internal/domain"
)

/********** alias registry (single source of truth) **********/

var reviewAliases = map[string][]string{
	"author":  {"author", "name", "userName", "user_name", "reviewer.name", "reviewer", "user.name"},
	"text":    {"review", "text", "review_text", "content", "comment", "body", "message"},
	"rating":  {"rating", "stars", "score", "rate", "rating.value"},
	"date":    {"date", "published_at", "created_at", "at", "time", "timestamp"},
	"helpful": {"helpful", "helpful_count", "helpfulCount", "thumbsUpCount", "likes", "votes"},
}

var errNotObject = errors.New("record is not a JSON object")

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstNonEmptyAlias returns the first alias path holding a value. Blank
// strings fall through to the next alias.
func firstNonEmptyAlias(m map[string]any, key string) (string, any) {
	for _, p := range reviewAliases[key] {
		v := lookupAny(m, p)
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		return p, v
	}
	return "", nil
}

func rawString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

/********** field parsers: absent + issue, never an error **********/

var ratingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)rated\s+(\d+(?:[.,]\d+)?)`),
	regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*out of`),
	regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*star`),
	regexp.MustCompile(`^\s*(\d+(?:[.,]\d+)?)\s*/\s*5\s*$`),
}

// parseRating accepts numbers and numeric strings ("4", "4,0", "Rated 4 out
// of 5"). Fractions round to the nearest integer; values outside 1..5 are dropped.
func parseRating(v any) (*int, *domain.FieldIssue) {
	if v == nil {
		return nil, nil
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		x, err := t.Float64()
		if err != nil {
			return nil, &domain.FieldIssue{Field: "rating", Reason: "not a number", Raw: t.String()}
		}
		f = x
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		x, ok := ratingFromString(s)
		if !ok {
			return nil, &domain.FieldIssue{Field: "rating", Reason: "not a number", Raw: t}
		}
		f = x
	default:
		return nil, &domain.FieldIssue{Field: "rating", Reason: "unsupported type", Raw: rawString(v)}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &domain.FieldIssue{Field: "rating", Reason: "not a number", Raw: rawString(v)}
	}
	n := int(math.Round(f))
	if n < 1 || n > 5 {
		return nil, &domain.FieldIssue{Field: "rating", Reason: "out of range 1..5", Raw: rawString(v)}
	}
	return &n, nil
}

func ratingFromString(s string) (float64, bool) {
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		return f, true
	}
	for _, re := range ratingPatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			if f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// epochMillisCutoff separates Unix seconds from milliseconds.
const epochMillisCutoff = 1e11

// parseDate returns the UTC calendar date, or nil plus an issue.
func parseDate(v any) (*time.Time, *domain.FieldIssue) {
	if v == nil {
		return nil, nil
	}
	var t time.Time
	switch x := v.(type) {
	case float64:
		t = fromEpoch(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, &domain.FieldIssue{Field: "date", Reason: "unparseable", Raw: x.String()}
		}
		t = fromEpoch(f)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil, nil
		}
		parsed, ok := parseDateString(s)
		if !ok {
			return nil, &domain.FieldIssue{Field: "date", Reason: "unparseable", Raw: x}
		}
		t = parsed
	default:
		return nil, &domain.FieldIssue{Field: "date", Reason: "unsupported type", Raw: rawString(v)}
	}
	// Wall-clock date in the timestamp's own offset.
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d, nil
}

func parseDateString(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func fromEpoch(f float64) time.Time {
	if f >= epochMillisCutoff {
		return time.UnixMilli(int64(f)).UTC()
	}
	return time.Unix(int64(f), 0).UTC()
}

func parseHelpful(v any) (int, *domain.FieldIssue) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		if t < 0 {
			return 0, &domain.FieldIssue{Field: "helpful", Reason: "negative", Raw: rawString(v)}
		}
		return int(t), nil
	case json.Number:
		if n, err := t.Int64(); err == nil && n >= 0 {
			return int(n), nil
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, nil
		}
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			return n, nil
		}
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	}
	return 0, &domain.FieldIssue{Field: "helpful", Reason: "not a count", Raw: rawString(v)}
}

// cleanText NFC-normalizes and trims review text.
func cleanText(v any) (string, *domain.FieldIssue) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(norm.NFC.String(t)), nil
	}
	return "", &domain.FieldIssue{Field: "text", Reason: "not a string", Raw: rawString(v)}
}

/********** review mapper **********/

// mapReview converts one raw record into the canonical review. It is the
// only place where defaults are applied. Unknown keys are ignored.
func mapReview(raw any, source, file, authorPlaceholder string) (domain.Review, error) {
	r, ok := raw.(map[string]any)
	if !ok {
		return domain.Review{}, errNotObject
	}
	rv := domain.Review{Source: source, File: file, Author: authorPlaceholder}
	issue := func(fi *domain.FieldIssue) {
		if fi != nil {
			rv.Issues = append(rv.Issues, *fi)
		}
	}

	// Author → first non-empty alias; otherwise the placeholder.
	if _, v := firstNonEmptyAlias(r, "author"); v != nil {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			rv.Author = strings.TrimSpace(s)
		} else if !ok {
			issue(&domain.FieldIssue{Field: "author", Reason: "not a string", Raw: rawString(v)})
		}
	}

	_, tv := firstNonEmptyAlias(r, "text")
	text, fi := cleanText(tv)
	rv.Text = text
	issue(fi)

	_, rt := firstNonEmptyAlias(r, "rating")
	rating, fi := parseRating(rt)
	rv.Rating = rating
	issue(fi)

	_, dv := firstNonEmptyAlias(r, "date")
	date, fi := parseDate(dv)
	rv.Date = date
	issue(fi)

	_, hv := firstNonEmptyAlias(r, "helpful")
	helpful, fi := parseHelpful(hv)
	rv.HelpfulCount = helpful
	issue(fi)

	return rv, nil
}

type mapStats struct {
	read, kept, recordErrors, emptyText, fieldIssues int
}

// mapReviews normalizes a file's records. A bad record is logged and
// skipped; records with empty text are dropped from the working set.
func mapReviews(file domain.RawFile, source, authorPlaceholder string) ([]domain.Review, mapStats) {
	var st mapStats
	out := make([]domain.Review, 0, len(file.Records))
	for i, raw := range file.Records {
		st.read++
		rv, err := mapReview(raw, source, file.Name, authorPlaceholder)
		if err != nil {
			st.recordErrors++
			log.Warn().Err(err).Str("file", file.Name).Int("index", i).Msg("skipping malformed record")
			continue
		}
		st.fieldIssues += len(rv.Issues)
		for _, fi := range rv.Issues {
			log.Debug().Str("file", file.Name).Int("index", i).
				Str("field", fi.Field).Str("reason", fi.Reason).Str("raw", fi.Raw).
				Msg("field left empty")
		}
		if rv.Text == "" {
			st.emptyText++
			continue
		}
		st.kept++
		out = append(out, rv)
	}
	return out, st
}
