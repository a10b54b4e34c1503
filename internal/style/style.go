// Package style assigns display labels and colors to transcript components.
package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/inodb/footprint-viewer/internal/annotation"
)

// Styler computes the label and fill color drawn for a feature.
type Styler interface {
	Label(f annotation.Feature) string
	Color(f annotation.Feature) color.RGBA
}

// labelKinds maps lowercased GFF3 kinds to display labels.
var labelKinds = map[string]string{
	"five_prime_utr":                  "5UTR",
	"five_prime_untranslated_region":  "5UTR",
	"5utr":                            "5UTR",
	"three_prime_utr":                 "3UTR",
	"three_prime_untranslated_region": "3UTR",
	"3utr":                            "3UTR",
	"cds":                             "CDS",
	"exon":                            "exon",
	"mrna":                            "mRNA",
	"gene":                            "gene",
}

// kindColors maps lowercased GFF3 kinds to fill colors.
var kindColors = map[string]color.RGBA{
	"gene":            MustParseHex("#ff9999"),
	"mrna":            MustParseHex("#99ff99"),
	"cds":             MustParseHex("#9999ff"),
	"exon":            MustParseHex("#ffff99"),
	"five_prime_utr":  MustParseHex("#ff99ff"),
	"5utr":            MustParseHex("#ff99ff"),
	"three_prime_utr": MustParseHex("#99ffff"),
	"3utr":            MustParseHex("#99ffff"),
	"utr":             MustParseHex("#f0f0f0"),
}

// DefaultColor is used for kinds and components without a palette entry.
var DefaultColor = MustParseHex("#cccccc")

// componentColors is the palette used when drawing packed transcript rows.
var componentColors = map[annotation.ComponentType]color.RGBA{
	annotation.UTR5: colornames.Lightpink,
	annotation.CDS:  colornames.Skyblue,
	annotation.UTR3: colornames.Palegreen,
	"EXON":          colornames.Khaki,
	"INTRON":        colornames.Lightgrey,
	"MOTIF":         colornames.Plum,
}

// Default labels features by kind and owner and colors them by kind.
type Default struct{}

var _ Styler = Default{}

// Label returns the feature's own label when set. Otherwise it returns the
// kind label followed by the Name, ID or last dotted segment of Parent.
func (Default) Label(f annotation.Feature) string {
	if f.Label != "" {
		return f.Label
	}

	base := f.Kind
	if l, ok := labelKinds[strings.ToLower(f.Kind)]; ok {
		base = l
	} else if base == "" {
		base = "feature"
	}

	switch {
	case f.Name != "":
		return base + ":" + f.Name
	case f.ID != "":
		return base + ":" + f.ID
	case f.Parent != "":
		parent, _, _ := strings.Cut(f.Parent, ",")
		if i := strings.LastIndex(parent, "."); i >= 0 {
			parent = parent[i+1:]
		}
		return base + ":" + parent
	}
	return base
}

// Color returns the fill color for the feature's GFF3 kind.
func (Default) Color(f annotation.Feature) color.RGBA {
	if c, ok := kindColors[strings.ToLower(f.Kind)]; ok {
		return c
	}
	return DefaultColor
}

// ComponentColor returns the row-drawing color for a component type.
func ComponentColor(t annotation.ComponentType) color.RGBA {
	if c, ok := componentColors[t]; ok {
		return c
	}
	return DefaultColor
}

// ParseHex parses a "#RGB" or "#RRGGBB" color. The leading '#' is optional.
func ParseHex(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")

	var digits int
	switch len(hex) {
	case 3:
		digits = 1
	case 6:
		digits = 2
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(hex[i*digits:(i+1)*digits], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		if digits == 1 {
			v *= 17
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 0xff}, nil
}

// MustParseHex is like ParseHex but panics on malformed input.
func MustParseHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats a color as "#rrggbb".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
