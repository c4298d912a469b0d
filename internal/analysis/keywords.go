package analysis

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"review_dashboard/internal/domain"
)

// minKeywordRunes: tokens of this length or shorter are dropped.
const minKeywordRunes = 2

// wordTokens splits lowercased text on word boundaries: runs of letters,
// digits and underscores.
func wordTokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
}

// TopKeywords counts words across texts and returns the n most frequent,
// ties kept in first-seen order.
func TopKeywords(texts []string, stop map[string]struct{}, n int) []domain.KeywordCount {
	if n <= 0 {
		return []domain.KeywordCount{}
	}
	counts := map[string]int{}
	var order []string
	for _, text := range texts {
		for _, w := range wordTokens(text) {
			if utf8.RuneCountInString(w) <= minKeywordRunes {
				continue
			}
			if _, ok := stop[w]; ok {
				continue
			}
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
	}
	out := make([]domain.KeywordCount, 0, len(order))
	for _, w := range order {
		out = append(out, domain.KeywordCount{Word: w, Count: counts[w]})
	}
	// stable: equal counts stay in first-seen order
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func stopSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return m
}
