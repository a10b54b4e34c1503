// Package annotation extracts transcript component features from GFF3 records.
package annotation

// ComponentType is the kind of transcript sub-region a feature covers.
type ComponentType string

// Recognized transcript components.
const (
	UTR5 ComponentType = "5UTR"
	CDS  ComponentType = "CDS"
	UTR3 ComponentType = "3UTR"
)

// componentKinds maps GFF3 feature types to components.
// Matching is case-sensitive; only the listed spellings are recognized.
var componentKinds = map[string]ComponentType{
	"five_prime_UTR":  UTR5,
	"five_prime_utr":  UTR5,
	"5UTR":            UTR5,
	"CDS":             CDS,
	"cds":             CDS,
	"three_prime_UTR": UTR3,
	"three_prime_utr": UTR3,
	"3UTR":            UTR3,
}

// ComponentForKind returns the component type for a GFF3 feature type.
func ComponentForKind(kind string) (ComponentType, bool) {
	ct, ok := componentKinds[kind]
	return ct, ok
}

// transcriptKinds are the GFF3 feature types that define transcript identity.
var transcriptKinds = map[string]bool{
	"mRNA":       true,
	"transcript": true,
}

// UnknownTranscript names features whose record has no Parent attribute.
const UnknownTranscript = "Unknown"

// Feature is a transcript component clipped to a window.
// Start and End are window-relative, 0-based, half-open.
type Feature struct {
	Transcript string        // Owning transcript name
	Type       ComponentType // Component type
	Kind       string        // Original GFF3 feature type
	Start      int64         // Relative start (0-based, inclusive)
	End        int64         // Relative end (0-based, exclusive)
	Strand     int8          // +1, -1, or 0 when unstranded
	Label      string        // "<transcript>-<type>"
	ID         string        // GFF3 ID attribute, if any
	Name       string        // GFF3 Name attribute, if any
	Parent     string        // GFF3 Parent attribute, verbatim
}

// Len returns the number of positions covered by the feature.
func (f Feature) Len() int64 {
	return f.End - f.Start
}

// parseStrand converts a GFF3 strand column to +1, -1 or 0.
func parseStrand(s string) int8 {
	switch s {
	case "+":
		return 1
	case "-":
		return -1
	}
	return 0
}
