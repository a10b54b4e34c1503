package footprint

import (
	"math"

	"github.com/inodb/footprint-viewer/internal/genome"
)

// Matrix is a dense radius-by-position score grid for one window.
// Data[i][j] holds the score at radius Radii.Min+i and position Window.Start+j.
type Matrix struct {
	Window genome.Window
	Radii  RadiusRange
	Data   [][]float64
}

// NewMatrix allocates a zero-filled matrix shaped (radius count, window length).
func NewMatrix(w genome.Window, rr RadiusRange) *Matrix {
	data := make([][]float64, rr.Count())
	for i := range data {
		data[i] = make([]float64, w.Len())
	}
	return &Matrix{Window: w, Radii: rr, Data: data}
}

// Shape returns the number of radii and positions.
func (m *Matrix) Shape() (rows, cols int) {
	return m.Radii.Count(), int(m.Window.Len())
}

// At returns the score at a radius and genomic position.
// ok is false when either lies outside the matrix.
func (m *Matrix) At(radius int, pos int64) (score float64, ok bool) {
	ri, pi, ok := m.index(radius, pos)
	if !ok {
		return 0, false
	}
	return m.Data[ri][pi], true
}

// set writes a score, overwriting any earlier value. Cells outside the
// matrix and NaN scores are ignored.
func (m *Matrix) set(ri int, pi int64, score float64) {
	if ri < 0 || ri >= m.Radii.Count() || pi < 0 || pi >= m.Window.Len() {
		return
	}
	if math.IsNaN(score) {
		return
	}
	m.Data[ri][pi] = score
}

func (m *Matrix) index(radius int, pos int64) (int, int64, bool) {
	ri := radius - m.Radii.Min
	pi := m.Window.ToRelative(pos)
	if ri < 0 || ri >= m.Radii.Count() || pi < 0 || pi >= m.Window.Len() {
		return 0, 0, false
	}
	return ri, pi, true
}

// Max returns the largest value in the matrix, or 0 for an empty matrix.
func (m *Matrix) Max() float64 {
	found := false
	best := 0.0
	for _, row := range m.Data {
		for _, v := range row {
			if !found || v > best {
				best = v
				found = true
			}
		}
	}
	return best
}

// Positions returns the genomic position of every column.
func (m *Matrix) Positions() []int64 {
	pos := make([]int64, m.Window.Len())
	for i := range pos {
		pos[i] = m.Window.ToAbsolute(int64(i))
	}
	return pos
}

// Build converts a score table into a dense matrix over the window.
//
// Wide tables contribute every radius column in range for records whose
// position lies in the window. Long tables contribute one cell per record.
// Cells outside the window or radius range are dropped, NaN scores are
// treated as missing, and a later record for the same cell overwrites an
// earlier one. An empty table yields an all-zero matrix.
func Build(t Table, w genome.Window, rr RadiusRange) *Matrix {
	m := NewMatrix(w, rr)

	if t.Wide {
		radii := rr.Values()
		for _, rec := range t.Records {
			pi := w.ToRelative(rec.Pos)
			if pi < 0 || pi >= w.Len() {
				continue
			}
			for _, radius := range radii {
				score, ok := rec.Scores[radius]
				if !ok {
					continue
				}
				m.set(radius-rr.Min, pi, score)
			}
		}
		return m
	}

	for _, rec := range t.Records {
		m.set(rec.Radius-rr.Min, w.ToRelative(rec.Pos), rec.Score)
	}
	return m
}
