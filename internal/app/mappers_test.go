package app

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_dashboard/internal/domain"
)

func TestMapReview_Aliases(t *testing.T) {
	raw := map[string]any{
		"userName":      "  Jo  ",
		"content":       "Café was fine",
		"score":         "4",
		"at":            "2024-03-05 10:11:12",
		"thumbsUpCount": 7.0,
		"extra":         "ignored",
	}
	r, err := mapReview(raw, "Google Play", "gp.json", domain.DefaultAuthor)
	require.NoError(t, err)
	assert.Equal(t, "Jo", r.Author)
	assert.Equal(t, "Café was fine", r.Text)
	require.NotNil(t, r.Rating)
	assert.Equal(t, 4, *r.Rating)
	assert.Equal(t, "2024-03-05", r.DateLabel())
	assert.Equal(t, 7, r.HelpfulCount)
	assert.Empty(t, r.Issues)
}

func TestMapReview_Defaults(t *testing.T) {
	r, err := mapReview(map[string]any{"review": "ok"}, "Unknown", "x.json", "Guest")
	require.NoError(t, err)
	assert.Equal(t, "Guest", r.Author)
	assert.Nil(t, r.Rating)
	assert.Nil(t, r.Date)
	assert.Zero(t, r.HelpfulCount)
	assert.Equal(t, "Unknown", r.Source)
	assert.Equal(t, "x.json", r.File)
}

func TestMapReview_BlankAliasFallsThrough(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{"empty review, text set", map[string]any{"review": "", "text": "Great product"}, "Great product"},
		{"blank review, content set", map[string]any{"review": "  \n", "content": "Solid"}, "Solid"},
		{"all blank", map[string]any{"review": "", "text": " "}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := mapReview(tc.raw, "S", "f", "Anonymous")
			require.NoError(t, err)
			assert.Equal(t, tc.want, r.Text)
		})
	}

	r, err := mapReview(map[string]any{"review": "ok", "rating": "", "stars": 4.0, "date": "", "at": "2024-05-01"}, "S", "f", "Anonymous")
	require.NoError(t, err)
	require.NotNil(t, r.Rating)
	assert.Equal(t, 4, *r.Rating)
	assert.Equal(t, "2024-05-01", r.DateLabel())
	assert.Empty(t, r.Issues)
}

func TestMapReviews_BlankAliasKept(t *testing.T) {
	f := domain.RawFile{Name: "trustpilot.json", Records: []any{
		map[string]any{"review": "", "text": "Great product"},
	}}
	rs, st := mapReviews(f, "Trustpilot", "Anonymous")
	require.Len(t, rs, 1)
	assert.Equal(t, 0, st.emptyText)
	assert.Equal(t, 1, st.kept)
}

func TestMapReview_NestedAuthor(t *testing.T) {
	r, err := mapReview(map[string]any{"review": "ok", "user": map[string]any{"name": "Ana"}}, "S", "f", "Anonymous")
	require.NoError(t, err)
	assert.Equal(t, "Ana", r.Author)
}

func TestMapReview_NotObject(t *testing.T) {
	_, err := mapReview([]any{1, 2}, "S", "f", "Anonymous")
	assert.ErrorIs(t, err, errNotObject)
}

func TestParseRating(t *testing.T) {
	cases := []struct {
		name  string
		in    any
		want  int // 0 means absent
		issue bool
	}{
		{"nil", nil, 0, false},
		{"float", 5.0, 5, false},
		{"rounds down", 3.4, 3, false},
		{"rounds up", 3.6, 4, false},
		{"string", " 2 ", 2, false},
		{"comma decimal", "4,5", 5, false},
		{"rated text", "Rated 4 out of 5 stars", 4, false},
		{"out of", "3 out of 5", 3, false},
		{"stars", "2 stars", 2, false},
		{"slash", "5/5", 5, false},
		{"json number", json.Number("1"), 1, false},
		{"zero", 0.0, 0, true},
		{"too high", 7.0, 0, true},
		{"garbage", "excellent", 0, true},
		{"bool", true, 0, true},
		{"empty string", "", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, fi := parseRating(tc.in)
			if tc.want == 0 {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, tc.want, *got)
			}
			if tc.issue {
				require.NotNil(t, fi)
				assert.Equal(t, "rating", fi.Field)
			} else {
				assert.Nil(t, fi)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	jan15 := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		in    any
		want  time.Time
		issue bool
	}{
		{"iso date", "2024-01-15", jan15, false},
		{"rfc3339 z", "2024-01-15T22:30:00.000Z", jan15, false},
		{"offset keeps wall clock", "2024-01-15T01:00:00+02:00", jan15, false},
		{"late evening west of utc", "2024-01-15T22:00:00-05:00", jan15, false},
		{"space time", "2024-01-15 08:00:00", jan15, false},
		{"long month", "January 15, 2024", jan15, false},
		{"short month", "Jan 15, 2024", jan15, false},
		{"day first", "15 January 2024", jan15, false},
		{"us slashes", "01/15/2024", jan15, false},
		{"epoch seconds", float64(jan15.Unix() + 3600), jan15, false},
		{"epoch millis", float64(jan15.UnixMilli() + 1000), jan15, false},
		{"garbage", "yesterday", time.Time{}, true},
		{"empty", "", time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, fi := parseDate(tc.in)
			if tc.want.IsZero() {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.True(t, tc.want.Equal(*got), "got %s", got)
			}
			assert.Equal(t, tc.issue, fi != nil)
		})
	}
}

func TestMapReviews_Counts(t *testing.T) {
	f := domain.RawFile{Name: "tp.json", Records: []any{
		map[string]any{"review": "good", "rating": 9.0},
		map[string]any{"review": ""},
		map[string]any{"text": "\t\n"},
		42.0,
		map[string]any{"review": "fine", "date": "not a date"},
	}}
	out, st := mapReviews(f, "Trustpilot", domain.DefaultAuthor)
	assert.Len(t, out, 2)
	assert.Equal(t, 5, st.read)
	assert.Equal(t, 2, st.kept)
	assert.Equal(t, 2, st.emptyText)
	assert.Equal(t, 1, st.recordErrors)
	assert.Equal(t, 2, st.fieldIssues)
	assert.Nil(t, out[0].Rating)
}
