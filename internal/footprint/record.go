// Package footprint converts sparse footprint score records into dense
// radius-by-position matrices and derives their color-scale ceilings.
package footprint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/footprint-viewer/internal/genome"
)

// WideMarker is the column whose presence identifies a wide score table.
const WideMarker = "r2"

// RadiusRange is an inclusive range of footprint radii.
type RadiusRange struct {
	Min int
	Max int
}

// DefaultRadii is the radius range used when none is given.
var DefaultRadii = RadiusRange{Min: 2, Max: 100}

// Count returns the number of radii in the range.
func (r RadiusRange) Count() int {
	return max(0, r.Max-r.Min+1)
}

// Contains returns true if radius lies within the range.
func (r RadiusRange) Contains(radius int) bool {
	return radius >= r.Min && radius <= r.Max
}

// Values returns every radius in the range in ascending order.
func (r RadiusRange) Values() []int {
	radii := make([]int, r.Count())
	for i := range radii {
		radii[i] = r.Min + i
	}
	return radii
}

// Record is one row of a score table.
//
// Long-form rows set Radius and Score. Wide-form rows set Scores, keyed by
// radius; radii without a column are absent from the map, and NaN marks a
// missing value.
type Record struct {
	Chrom  string
	Pos    int64
	Radius int
	Score  float64
	Scores map[int]float64
}

// Table is a set of score records of a single form.
type Table struct {
	Wide    bool
	Records []Record
}

// Len returns the number of records in the table.
func (t Table) Len() int {
	return len(t.Records)
}

// IsWideColumns reports whether a column set describes a wide score table
// (chrom, pos, r2..rN) rather than a long one (chrom, pos, radius, score).
func IsWideColumns(columns []string) bool {
	for _, c := range columns {
		if c == WideMarker {
			return true
		}
	}
	return false
}

// WideColumn returns the wide-table column name for a radius.
func WideColumn(radius int) string {
	return fmt.Sprintf("r%d", radius)
}

// ParseWideColumn returns the radius encoded by a wide-table column name.
func ParseWideColumn(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, "r")
	if !ok || rest == "" {
		return 0, false
	}
	radius, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return radius, true
}

// Filter returns the records on the window's chromosome whose position lies
// within the window.
func Filter(t Table, w genome.Window) Table {
	out := Table{Wide: t.Wide}
	for _, r := range t.Records {
		if r.Chrom == w.Chrom && w.Contains(r.Pos) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}
