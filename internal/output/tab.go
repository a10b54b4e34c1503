// Package output provides tab-delimited and YAML writers for assembled
// figures.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/footprint-viewer/internal/annotation"
	"github.com/inodb/footprint-viewer/internal/footprint"
	"github.com/inodb/footprint-viewer/internal/genome"
	"github.com/inodb/footprint-viewer/internal/layout"
	"github.com/inodb/footprint-viewer/internal/style"
)

// FeatureWriter writes transcript components in tab-delimited format.
type FeatureWriter struct {
	w       *bufio.Writer
	styler  style.Styler
	columns []string
}

// NewFeatureWriter creates a new feature writer. Labels and colors come
// from s; a nil s uses style.Default.
func NewFeatureWriter(w io.Writer, s style.Styler) *FeatureWriter {
	if s == nil {
		s = style.Default{}
	}
	return &FeatureWriter{
		w:      bufio.NewWriter(w),
		styler: s,
		columns: []string{
			"#Chrom",
			"Start",
			"End",
			"Strand",
			"Transcript",
			"Component",
			"Kind",
			"Row",
			"Label",
			"Color",
			"Component_color",
		},
	}
}

// WriteHeader writes the header line.
func (fw *FeatureWriter) WriteHeader() error {
	_, err := fw.w.WriteString(strings.Join(fw.columns, "\t") + "\n")
	return err
}

// Write writes a single feature. The feature must carry absolute
// coordinates; row is its packed row or -1 when it has none.
func (fw *FeatureWriter) Write(chrom string, f annotation.Feature, row int) error {
	rowStr := "-"
	if row >= 0 {
		rowStr = strconv.Itoa(row)
	}

	values := []string{
		chrom,
		strconv.FormatInt(f.Start, 10),
		strconv.FormatInt(f.End, 10),
		strand(f.Strand),
		orDash(f.Transcript),
		string(f.Type),
		orDash(f.Kind),
		rowStr,
		fw.styler.Label(f),
		style.Hex(fw.styler.Color(f)),
		style.Hex(style.ComponentColor(f.Type)),
	}

	_, err := fw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (fw *FeatureWriter) Flush() error {
	return fw.w.Flush()
}

// RowWriter writes packed rows, one line per transcript, with absolute
// 1-based inclusive coordinates.
type RowWriter struct {
	w      *bufio.Writer
	window genome.Window
}

// NewRowWriter creates a row writer for spans relative to window.
func NewRowWriter(w io.Writer, window genome.Window) *RowWriter {
	return &RowWriter{w: bufio.NewWriter(w), window: window}
}

// WriteHeader writes the header line.
func (rw *RowWriter) WriteHeader() error {
	_, err := rw.w.WriteString("#Row\tTranscript\tChrom\tStart\tEnd\n")
	return err
}

// Write writes every span of a row.
func (rw *RowWriter) Write(index int, row *layout.Row) error {
	for _, s := range row.Spans() {
		values := []string{
			strconv.Itoa(index),
			s.Name,
			rw.window.Chrom,
			strconv.FormatInt(rw.window.ToAbsolute(s.Start), 10),
			strconv.FormatInt(rw.window.ToAbsolute(s.End-1), 10),
		}
		if _, err := rw.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (rw *RowWriter) Flush() error {
	return rw.w.Flush()
}

// MatrixWriter writes a footprint matrix with one line per radius and one
// column per genomic position.
type MatrixWriter struct {
	w *bufio.Writer
	m *footprint.Matrix
}

// NewMatrixWriter creates a writer for m.
func NewMatrixWriter(w io.Writer, m *footprint.Matrix) *MatrixWriter {
	return &MatrixWriter{w: bufio.NewWriter(w), m: m}
}

// WriteHeader writes the header line listing the positions.
func (mw *MatrixWriter) WriteHeader() error {
	positions := mw.m.Positions()
	cols := make([]string, 0, len(positions)+1)
	cols = append(cols, "#Radius")
	for _, p := range positions {
		cols = append(cols, strconv.FormatInt(p, 10))
	}
	_, err := mw.w.WriteString(strings.Join(cols, "\t") + "\n")
	return err
}

// Write writes every radius row of the matrix.
func (mw *MatrixWriter) Write() error {
	radii := mw.m.Radii.Values()
	for i, row := range mw.m.Data {
		values := make([]string, 0, len(row)+1)
		values = append(values, strconv.Itoa(radii[i]))
		for _, v := range row {
			values = append(values, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if _, err := mw.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (mw *MatrixWriter) Flush() error {
	return mw.w.Flush()
}

func strand(s int8) string {
	switch s {
	case 1:
		return "+"
	case -1:
		return "-"
	}
	return "."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
