package footprint

import "math"

// ScaleCap is the largest color-scale ceiling ever used.
const ScaleCap = 5.0

// ColorScale is the value range mapped onto the heatmap colormap, from 0 to
// Ceiling.
type ColorScale struct {
	Ceiling float64
}

// Ceiling returns the color-scale ceiling for a track drawn on its own:
// the matrix maximum capped at ScaleCap, or 1.0 when the matrix holds no
// positive score.
func Ceiling(m *Matrix) float64 {
	peak := m.Max()
	if peak <= 0 {
		peak = 1.0
	}
	return math.Min(peak, ScaleCap)
}

// TrackMax returns a track's contribution to a shared ceiling: the matrix
// maximum capped at ScaleCap, or 0 when the matrix holds no positive score.
func TrackMax(m *Matrix) float64 {
	peak := m.Max()
	if peak <= 0 {
		return 0
	}
	return math.Min(peak, ScaleCap)
}

// Reconcile returns the ceiling shared by several tracks given their
// TrackMax values. It defaults to 1.0 when no track has a positive maximum.
func Reconcile(maxes []float64) float64 {
	global := 0.0
	for _, v := range maxes {
		global = math.Max(global, v)
	}
	if global <= 0 {
		global = 1.0
	}
	return math.Min(global, ScaleCap)
}

// ScaleFor returns the color scale for a set of tracks. A single track uses
// Ceiling; several tracks share the Reconcile of their maxima.
func ScaleFor(tracks []*Track) ColorScale {
	if len(tracks) == 1 {
		return ColorScale{Ceiling: Ceiling(tracks[0].Matrix)}
	}
	maxes := make([]float64, len(tracks))
	for i, t := range tracks {
		maxes[i] = t.Max
	}
	return ColorScale{Ceiling: Reconcile(maxes)}
}
