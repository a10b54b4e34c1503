package footprint

import "math"

// Statistics summarizes the values of a matrix.
// Mean and Std cover positive cells only.
type Statistics struct {
	TotalPoints   int     `yaml:"total_points"`
	NonZeroPoints int     `yaml:"non_zero_points"`
	ZeroRatio     float64 `yaml:"zero_ratio"`
	Min           float64 `yaml:"min"`
	Max           float64 `yaml:"max"`
	Mean          float64 `yaml:"mean"`
	Std           float64 `yaml:"std"`
}

// Stats computes summary statistics for a matrix.
func Stats(m *Matrix) Statistics {
	var s Statistics
	var sum float64
	first := true

	for _, row := range m.Data {
		for _, v := range row {
			s.TotalPoints++
			if first || v < s.Min {
				s.Min = v
			}
			if first || v > s.Max {
				s.Max = v
			}
			first = false
			if v > 0 {
				s.NonZeroPoints++
				sum += v
			}
		}
	}

	if s.TotalPoints == 0 {
		return s
	}
	s.ZeroRatio = float64(s.TotalPoints-s.NonZeroPoints) / float64(s.TotalPoints)

	if s.NonZeroPoints > 0 {
		s.Mean = sum / float64(s.NonZeroPoints)
		var sq float64
		for _, row := range m.Data {
			for _, v := range row {
				if v > 0 {
					d := v - s.Mean
					sq += d * d
				}
			}
		}
		s.Std = math.Sqrt(sq / float64(s.NonZeroPoints))
	}
	return s
}
