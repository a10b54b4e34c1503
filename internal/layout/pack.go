// Package layout assigns transcripts to non-overlapping display rows.
package layout

import (
	"github.com/biogo/store/interval"

	"github.com/inodb/footprint-viewer/internal/annotation"
)

// Span is a named genomic extent to be placed in a row.
type Span struct {
	Name  string
	Start int64
	End   int64
}

// Overlaps reports whether two spans share a position, treating both as
// closed intervals.
func (s Span) Overlaps(o Span) bool {
	return !(s.End < o.Start || o.End < s.Start)
}

// Spans converts grouped transcripts to packer input, keeping their order.
func Spans(transcripts []*annotation.Transcript) []Span {
	spans := make([]Span, len(transcripts))
	for i, t := range transcripts {
		spans[i] = Span{Name: t.Name, Start: t.Start, End: t.End}
	}
	return spans
}

// Row is an ordered set of transcripts drawn on one display line.
// No two members of a row overlap.
type Row struct {
	Names []string

	spans    []Span
	tree     interval.IntTree
	inverted []Span // spans with Start > End, checked linearly
}

// Pack places spans into rows greedily in input order: each span goes into
// the first row where it overlaps no current occupant, or into a new row.
//
// Input order is significant and is never sorted. Processing by start
// position would minimize the row count; this packer does not, and callers
// depend on the resulting row assignment.
func Pack(spans []Span) []*Row {
	rows := make([]*Row, 0)
	for _, s := range spans {
		placed := false
		for _, row := range rows {
			if !row.overlapsAny(s) {
				row.add(s)
				placed = true
				break
			}
		}
		if !placed {
			row := &Row{}
			row.add(s)
			rows = append(rows, row)
		}
	}
	return rows
}

// PackTranscripts packs grouped transcripts by their spans.
func PackTranscripts(transcripts []*annotation.Transcript) []*Row {
	return Pack(Spans(transcripts))
}

// Spans returns the row members in placement order.
func (r *Row) Spans() []Span {
	return r.spans
}

func (r *Row) add(s Span) {
	r.Names = append(r.Names, s.Name)
	r.spans = append(r.spans, s)

	if s.Start > s.End {
		r.inverted = append(r.inverted, s)
		return
	}
	// IDs are unique within the row, so Insert cannot fail on a valid range.
	_ = r.tree.Insert(member{id: uintptr(len(r.spans)), span: s}, false)
}

// overlapsAny reports whether s overlaps any span already in the row.
func (r *Row) overlapsAny(s Span) bool {
	if s.Start > s.End {
		for _, o := range r.spans {
			if s.Overlaps(o) {
				return true
			}
		}
		return false
	}

	for _, o := range r.inverted {
		if s.Overlaps(o) {
			return true
		}
	}
	return len(r.tree.Get(member{span: s})) > 0
}

// member adapts a Span to the biogo interval tree using closed-interval
// overlap, so spans touching at a single position conflict.
type member struct {
	id   uintptr
	span Span
}

func (m member) Overlap(b interval.IntRange) bool {
	return !(m.span.End < int64(b.Start) || int64(b.End) < m.span.Start)
}

func (m member) ID() uintptr { return m.id }

func (m member) Range() interval.IntRange {
	return interval.IntRange{Start: int(m.span.Start), End: int(m.span.End)}
}
