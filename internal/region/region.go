// Package region assembles everything drawn for one genomic window: the
// transcript components, their packed rows, the footprint tracks and the
// shared color scale.
package region

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/footprint-viewer/internal/annotation"
	"github.com/inodb/footprint-viewer/internal/footprint"
	"github.com/inodb/footprint-viewer/internal/genome"
	"github.com/inodb/footprint-viewer/internal/gff"
	"github.com/inodb/footprint-viewer/internal/layout"
)

// RecordReader returns the GFF3 records of one chromosome.
type RecordReader interface {
	ReadFile(path, chrom string) ([]*gff.Record, error)
}

// fileReader reads records straight from the GFF3 file.
type fileReader struct {
	logger *zap.Logger
}

func (r fileReader) ReadFile(path, chrom string) ([]*gff.Record, error) {
	return gff.ReadFile(path, chrom, r.logger)
}

// Request describes one window to assemble.
type Request struct {
	Window     genome.Window
	GFFPath    string
	Tracks     []footprint.Source
	Radii      footprint.RadiusRange // zero value means footprint.DefaultRadii
	Highlights []genome.Span         // absolute coordinates
}

// Options controls how a request is assembled.
type Options struct {
	Workers int          // parallel track loads; 0 means runtime.NumCPU()
	Records RecordReader // nil reads the GFF3 file directly
	Logger  *zap.Logger  // nil disables logging
}

// Figure is the renderer handoff for one window.
// All coordinates except Window are window-relative.
type Figure struct {
	Window      genome.Window
	Features    []annotation.Feature
	Transcripts []*annotation.Transcript
	Rows        []*layout.Row
	Tracks      []*footprint.Track
	Scale       footprint.ColorScale
	Highlights  []genome.Span
}

// Build assembles the figure for a request.
func Build(ctx context.Context, req Request, opts Options) (*Figure, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	records := opts.Records
	if records == nil {
		records = fileReader{logger: logger}
	}
	radii := req.Radii
	if radii == (footprint.RadiusRange{}) {
		radii = footprint.DefaultRadii
	}

	recs, err := records.ReadFile(req.GFFPath, req.Window.Chrom)
	if err != nil {
		return nil, fmt.Errorf("read annotations: %w", err)
	}

	extractor := annotation.NewExtractor()
	extractor.SetLogger(logger)
	features := extractor.Extract(recs, req.Window)

	transcripts := annotation.Group(features)
	rows := layout.PackTranscripts(transcripts)
	logger.Info("packed transcripts",
		zap.Stringer("region", req.Window),
		zap.Int("transcripts", len(transcripts)),
		zap.Int("rows", len(rows)))

	builder := footprint.NewBuilder(radii, opts.Workers)
	builder.SetLogger(logger)
	tracks, err := builder.Build(ctx, req.Tracks, req.Window)
	if err != nil {
		return nil, err
	}
	scale := footprint.ScaleFor(tracks)
	logger.Info("color scale",
		zap.Int("tracks", len(tracks)),
		zap.Float64("ceiling", scale.Ceiling))

	return &Figure{
		Window:      req.Window,
		Features:    features,
		Transcripts: transcripts,
		Rows:        rows,
		Tracks:      tracks,
		Scale:       scale,
		Highlights:  relativeHighlights(req.Window, req.Highlights),
	}, nil
}

// relativeHighlights converts highlights to window coordinates and drops
// those that fall entirely outside the window.
func relativeHighlights(w genome.Window, spans []genome.Span) []genome.Span {
	var out []genome.Span
	for _, s := range spans {
		start, end := w.HighlightSpan(s.Start, s.End)
		if end <= start {
			continue
		}
		out = append(out, genome.Span{Start: start, End: end})
	}
	return out
}

// AbsoluteFeatures returns the features with 1-based inclusive genomic
// coordinates.
func (f *Figure) AbsoluteFeatures() []annotation.Feature {
	out := make([]annotation.Feature, len(f.Features))
	for i, feat := range f.Features {
		feat.Start = f.Window.ToAbsolute(feat.Start)
		feat.End = f.Window.ToAbsolute(feat.End - 1)
		out[i] = feat
	}
	return out
}

// RowOf maps each transcript name to the index of its packed row.
func (f *Figure) RowOf() map[string]int {
	rows := make(map[string]int)
	for i, r := range f.Rows {
		for _, name := range r.Names {
			if _, ok := rows[name]; !ok {
				rows[name] = i
			}
		}
	}
	return rows
}
