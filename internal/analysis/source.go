package analysis

import (
	"strings"

	"review_dashboard/internal/domain"
)

// SourceDetector maps file names to platforms by substring, testing sources
// in the order given. It never touches the filesystem.
type SourceDetector struct {
	sources []SourcePattern
}

func NewSourceDetector(patterns []SourcePattern) *SourceDetector {
	cp := make([]SourcePattern, 0, len(patterns))
	for _, sp := range patterns {
		lower := make([]string, 0, len(sp.Patterns))
		for _, p := range sp.Patterns {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				lower = append(lower, p)
			}
		}
		cp = append(cp, SourcePattern{Name: sp.Name, Patterns: lower})
	}
	return &SourceDetector{sources: cp}
}

func (d *SourceDetector) Detect(filename string) string {
	low := strings.ToLower(filename)
	for _, sp := range d.sources {
		for _, p := range sp.Patterns {
			if strings.Contains(low, p) {
				return sp.Name
			}
		}
	}
	return domain.UnknownSource
}

// Names lists the known sources in priority order.
func (d *SourceDetector) Names() []string {
	out := make([]string, 0, len(d.sources))
	for _, sp := range d.sources {
		out = append(out, sp.Name)
	}
	return out
}
