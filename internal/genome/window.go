// Package genome provides genomic window and coordinate conversions.
//
// Windows use 1-based inclusive coordinates, as GFF3 does. Positions relative
// to a window are 0-based, and relative intervals are half-open.
package genome

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidWindow is returned when a window's start lies after its end.
var ErrInvalidWindow = errors.New("invalid window: start > end")

// Window is a genomic interval on one chromosome (1-based, inclusive).
type Window struct {
	Chrom string // Chromosome name (e.g., Chr1)
	Start int64  // First position (1-based)
	End   int64  // Last position (1-based, inclusive)
}

// NewWindow creates a window, rejecting start > end.
func NewWindow(chrom string, start, end int64) (Window, error) {
	if start > end {
		return Window{}, fmt.Errorf("%w: %s:%d-%d", ErrInvalidWindow, chrom, start, end)
	}
	return Window{Chrom: chrom, Start: start, End: end}, nil
}

// ParseRegion parses a region string of the form "chrom:start-end".
// Thousands separators (commas) in the coordinates are accepted.
func ParseRegion(s string) (Window, error) {
	idx := strings.LastIndex(s, ":")
	if idx <= 0 {
		return Window{}, fmt.Errorf("parse region %q: expected chrom:start-end", s)
	}
	chrom := s[:idx]
	coords := strings.ReplaceAll(s[idx+1:], ",", "")

	startStr, endStr, ok := strings.Cut(coords, "-")
	if !ok {
		return Window{}, fmt.Errorf("parse region %q: expected chrom:start-end", s)
	}
	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil {
		return Window{}, fmt.Errorf("parse region start: %w", err)
	}
	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil {
		return Window{}, fmt.Errorf("parse region end: %w", err)
	}
	return NewWindow(chrom, start, end)
}

// String returns the window as "chrom:start-end".
func (w Window) String() string {
	return fmt.Sprintf("%s:%d-%d", w.Chrom, w.Start, w.End)
}

// Len returns the number of positions in the window.
func (w Window) Len() int64 {
	return w.End - w.Start + 1
}

// Contains returns true if pos lies within the window.
func (w Window) Contains(pos int64) bool {
	return pos >= w.Start && pos <= w.End
}

// Overlaps returns true if the closed interval [start, end] shares at least
// one position with the window.
func (w Window) Overlaps(start, end int64) bool {
	return !(start > w.End || end < w.Start)
}

// ToRelative converts a genomic position to a 0-based index within the window.
func (w Window) ToRelative(pos int64) int64 {
	return pos - w.Start
}

// ToAbsolute converts a 0-based window index back to a genomic position.
func (w Window) ToAbsolute(rel int64) int64 {
	return rel + w.Start
}

// Clip converts the feature [featStart, featEnd] (1-based, inclusive) into a
// half-open interval relative to the window, truncated at both window edges.
// ok is false when nothing of the feature remains inside the window.
func (w Window) Clip(featStart, featEnd int64) (relStart, relEnd int64, ok bool) {
	relStart = max(0, featStart-w.Start)
	relEnd = min(w.Len(), featEnd-w.Start+1)
	return relStart, relEnd, relEnd > relStart
}

// HighlightSpan converts a highlighted genomic region to window-relative
// coordinates, truncated to [0, Len()].
func (w Window) HighlightSpan(start, end int64) (relStart, relEnd int64) {
	return max(0, start-w.Start), min(w.Len(), end-w.Start)
}
