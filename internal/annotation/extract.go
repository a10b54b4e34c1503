package annotation

import (
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/footprint-viewer/internal/genome"
	"github.com/inodb/footprint-viewer/internal/gff"
)

// TranscriptMap resolves transcript IDs to display names.
// It is built once per extraction and not modified afterwards.
type TranscriptMap struct {
	names map[string]string
}

// BuildTranscriptMap collects ID -> Name (falling back to ID) for mRNA and
// transcript records on the window's chromosome that overlap the window.
func BuildTranscriptMap(records []*gff.Record, w genome.Window) TranscriptMap {
	names := make(map[string]string)
	for _, rec := range records {
		if rec.SeqName != w.Chrom || !transcriptKinds[rec.Kind] {
			continue
		}
		if !w.Overlaps(rec.Start, rec.End) {
			continue
		}

		id := rec.Attributes["ID"]
		name, ok := rec.Attributes["Name"]
		if !ok {
			name = id
		}
		if id != "" && name != "" {
			names[id] = name
		}
	}
	return TranscriptMap{names: names}
}

// Len returns the number of mapped transcripts.
func (m TranscriptMap) Len() int {
	return len(m.names)
}

// Lookup returns the display name for a transcript ID.
func (m TranscriptMap) Lookup(id string) (string, bool) {
	name, ok := m.names[id]
	return name, ok
}

// Resolve returns the transcript name owning a feature with the given
// Parent attribute. The first listed parent present in the map wins;
// otherwise the first parent ID is used up to its first '.'.
func (m TranscriptMap) Resolve(parentAttr string) string {
	if parentAttr == "" {
		return UnknownTranscript
	}

	parents := strings.Split(parentAttr, ",")
	for _, id := range parents {
		if name, ok := m.names[id]; ok {
			return name
		}
	}
	first, _, _ := strings.Cut(parents[0], ".")
	return first
}

// Extract returns the transcript components of records that fall within the
// window, in input order. Records on other chromosomes, of unrecognized
// types, or lying entirely outside the window are dropped.
func Extract(records []*gff.Record, w genome.Window) []Feature {
	features, _ := extract(records, w)
	return features
}

// extractStats counts records seen during component extraction.
type extractStats struct {
	transcripts int // entries in the transcript map
	onChrom     int // records on the window's chromosome
	targets     int // records of a recognized component type
}

func extract(records []*gff.Record, w genome.Window) ([]Feature, extractStats) {
	tmap := BuildTranscriptMap(records, w)
	stats := extractStats{transcripts: tmap.Len()}

	features := make([]Feature, 0)
	for _, rec := range records {
		if rec.SeqName != w.Chrom {
			continue
		}
		stats.onChrom++

		ct, ok := ComponentForKind(rec.Kind)
		if !ok {
			continue
		}
		stats.targets++

		if !w.Overlaps(rec.Start, rec.End) {
			continue
		}
		relStart, relEnd, ok := w.Clip(rec.Start, rec.End)
		if !ok {
			continue
		}

		transcript := tmap.Resolve(rec.Attributes["Parent"])
		features = append(features, Feature{
			Transcript: transcript,
			Type:       ct,
			Kind:       rec.Kind,
			Start:      relStart,
			End:        relEnd,
			Strand:     parseStrand(rec.Strand),
			Label:      transcript + "-" + string(ct),
			ID:         rec.Attributes["ID"],
			Name:       rec.Attributes["Name"],
			Parent:     rec.Attributes["Parent"],
		})
	}
	return features, stats
}

// Extractor wraps Extract with progress logging.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates an extractor that logs nothing.
func NewExtractor() *Extractor {
	return &Extractor{logger: zap.NewNop()}
}

// SetLogger sets the logger for progress messages.
func (e *Extractor) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Extract returns the transcript components within the window.
func (e *Extractor) Extract(records []*gff.Record, w genome.Window) []Feature {
	e.logger.Debug("extracting features", zap.Stringer("region", w))

	features, stats := extract(records, w)

	e.logger.Info("extracted transcript components",
		zap.Stringer("region", w),
		zap.Int("transcripts", stats.transcripts),
		zap.Int("chrom_features", stats.onChrom),
		zap.Int("target_features", stats.targets),
		zap.Int("emitted", len(features)))
	return features
}
