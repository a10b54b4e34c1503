package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/inodb/footprint-viewer/internal/footprint"
	"github.com/inodb/footprint-viewer/internal/genome"
	"github.com/inodb/footprint-viewer/internal/region"
)

// Summary describes an assembled figure for the renderer.
type Summary struct {
	Region      string           `yaml:"region"`
	Length      int64            `yaml:"length"`
	Transcripts int              `yaml:"transcripts"`
	Ceiling     float64          `yaml:"color_ceiling"`
	Rows        [][]string       `yaml:"rows"`
	Features    []FeatureSummary `yaml:"features"`
	Tracks      []TrackSummary   `yaml:"tracks,omitempty"`
	Highlights  []genome.Span    `yaml:"highlights,omitempty"`
}

// FeatureSummary is one transcript component in absolute 1-based
// inclusive coordinates. Row is -1 for a component whose transcript was
// not packed.
type FeatureSummary struct {
	Transcript string `yaml:"transcript"`
	Component  string `yaml:"component"`
	Start      int64  `yaml:"start"`
	End        int64  `yaml:"end"`
	Strand     int8   `yaml:"strand"`
	Row        int    `yaml:"row"`
	Label      string `yaml:"label"`
}

// TrackSummary describes one footprint track.
type TrackSummary struct {
	Name    string               `yaml:"name"`
	Records int                  `yaml:"records"`
	Max     float64              `yaml:"max"`
	Stats   footprint.Statistics `yaml:"stats"`
}

// Summarize collects the summary of a figure.
func Summarize(fig *region.Figure) Summary {
	s := Summary{
		Region:      fig.Window.String(),
		Length:      fig.Window.Len(),
		Transcripts: len(fig.Transcripts),
		Ceiling:     fig.Scale.Ceiling,
		Rows:        make([][]string, 0, len(fig.Rows)),
		Features:    make([]FeatureSummary, 0, len(fig.Features)),
	}
	for _, r := range fig.Rows {
		s.Rows = append(s.Rows, append([]string(nil), r.Names...))
	}
	rowOf := fig.RowOf()
	for _, f := range fig.AbsoluteFeatures() {
		row, ok := rowOf[f.Transcript]
		if !ok {
			row = -1
		}
		s.Features = append(s.Features, FeatureSummary{
			Transcript: f.Transcript,
			Component:  string(f.Type),
			Start:      f.Start,
			End:        f.End,
			Strand:     f.Strand,
			Row:        row,
			Label:      f.Label,
		})
	}
	for _, t := range fig.Tracks {
		s.Tracks = append(s.Tracks, TrackSummary{
			Name:    t.Name,
			Records: t.Records,
			Max:     t.Max,
			Stats:   footprint.Stats(t.Matrix),
		})
	}
	s.Highlights = fig.Highlights
	return s
}

// WriteSummary writes the figure summary as YAML.
func WriteSummary(w io.Writer, fig *region.Figure) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Summarize(fig)); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return enc.Close()
}
