package analysis

import (
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"review_dashboard/internal/domain"
)

// Tagger assigns aspects to review text by case-insensitive keyword
// containment, using one Aho-Corasick pass per text.
type Tagger struct {
	mu        sync.Mutex // the matcher keeps per-call state
	matcher   *ahocorasick.Matcher
	aspects   []string
	keywords  []string // unique, lowercased; index = matcher dictionary index
	kwAspects [][]int  // keyword index -> aspect indexes
}

func NewTagger(aspects []Aspect) *Tagger {
	t := &Tagger{aspects: make([]string, 0, len(aspects))}
	kwIndex := map[string]int{}
	for ai, a := range aspects {
		t.aspects = append(t.aspects, a.Name)
		for _, kw := range a.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			ki, ok := kwIndex[kw]
			if !ok {
				ki = len(t.keywords)
				kwIndex[kw] = ki
				t.keywords = append(t.keywords, kw)
				t.kwAspects = append(t.kwAspects, nil)
			}
			t.kwAspects[ki] = appendUnique(t.kwAspects[ki], ai)
		}
	}
	if len(t.keywords) > 0 {
		t.matcher = ahocorasick.NewStringMatcher(t.keywords)
	}
	return t
}

// Aspects returns the configured aspect names in order.
func (t *Tagger) Aspects() []string {
	return append([]string(nil), t.aspects...)
}

// Match returns the aspects whose keywords occur in text, in profile order.
func (t *Tagger) Match(text string) []string {
	if t.matcher == nil || text == "" {
		return nil
	}
	low := strings.ToLower(text)

	t.mu.Lock()
	hits := t.matcher.Match([]byte(low))
	t.mu.Unlock()

	if len(hits) == 0 {
		return nil
	}
	matched := make([]bool, len(t.aspects))
	for _, ki := range hits {
		if ki < 0 || ki >= len(t.kwAspects) {
			continue
		}
		for _, ai := range t.kwAspects[ki] {
			matched[ai] = true
		}
	}
	var out []string
	for ai, ok := range matched {
		if ok {
			out = append(out, t.aspects[ai])
		}
	}
	return out
}

// Tag emits one sample per (review, matched aspect).
func (t *Tagger) Tag(reviews []domain.Review) []domain.AspectSample {
	var out []domain.AspectSample
	for _, r := range reviews {
		for _, a := range t.Match(r.Text) {
			out = append(out, domain.AspectSample{Aspect: a, Score: r.SentimentScore, Source: r.Source})
		}
	}
	return out
}

func appendUnique(xs []int, v int) []int {
	for _, x := range xs {
		if x == v {
			return xs
		}
	}
	return append(xs, v)
}
