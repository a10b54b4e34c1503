// Package gff provides GFF3 record parsing.
package gff

import (
	"fmt"
	"strconv"
	"strings"
)

// Record represents a parsed GFF3 line.
type Record struct {
	SeqName    string            // Sequence (chromosome) name
	Source     string            // Annotation source
	Kind       string            // Feature type (e.g., mRNA, CDS)
	Start      int64             // Start (1-based)
	End        int64             // End (1-based, inclusive)
	Score      string            // Score column, kept verbatim
	Strand     string            // "+", "-", "." or "?"
	Phase      string            // Phase column, kept verbatim
	Attributes map[string]string // Column 9 key=value pairs
}

// Attr returns the value of an attribute, or "" if absent.
func (r *Record) Attr(key string) string {
	return r.Attributes[key]
}

// ParseLine parses a single GFF3 line.
// The line must have at least 9 tab-separated fields with integer coordinates.
func ParseLine(line string) (*Record, error) {
	fields := strings.Split(strings.TrimSpace(line), "\t")
	if len(fields) < 9 {
		return nil, fmt.Errorf("invalid GFF3 line: expected 9 fields, got %d", len(fields))
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}

	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse end: %w", err)
	}

	return &Record{
		SeqName:    fields[0],
		Source:     fields[1],
		Kind:       fields[2],
		Start:      start,
		End:        end,
		Score:      fields[5],
		Strand:     fields[6],
		Phase:      fields[7],
		Attributes: ParseAttributes(fields[8]),
	}, nil
}

// ParseAttributes parses the GFF3 attribute column.
// Format: key=value;key=value;...
// Values are split at the first '='; pieces without '=' are ignored.
// Values are kept verbatim (no percent-decoding, no trimming).
func ParseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)
	for _, part := range strings.Split(attrStr, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		attrs[key] = value
	}
	return attrs
}
