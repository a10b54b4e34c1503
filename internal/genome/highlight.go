package genome

import (
	"fmt"
	"strconv"
	"strings"
)

// Span is a genomic interval without a chromosome.
type Span struct {
	Start int64 `yaml:"start"`
	End   int64 `yaml:"end"`
}

// ParseHighlights parses a comma-separated list of "start-end" regions.
// An empty string yields no regions.
func ParseHighlights(s string) ([]Span, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var spans []Span
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		startStr, endStr, ok := strings.Cut(part, "-")
		if !ok {
			return nil, fmt.Errorf("parse highlight %q: expected start-end", part)
		}
		start, err := strconv.ParseInt(startStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse highlight start: %w", err)
		}
		end, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse highlight end: %w", err)
		}
		spans = append(spans, Span{Start: start, End: end})
	}
	return spans, nil
}
