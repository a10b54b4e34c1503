package annotation

// Transcript is a set of components sharing a transcript name.
// Start and End span all components (window-relative, half-open).
type Transcript struct {
	Name       string
	Components []Feature
	Start      int64
	End        int64
}

// Strand returns the strand of the first component.
func (t *Transcript) Strand() int8 {
	if len(t.Components) == 0 {
		return 0
	}
	return t.Components[0].Strand
}

// Group collects features into transcripts, ordered by the first appearance
// of each transcript name. A feature without a transcript name is grouped
// under its label.
func Group(features []Feature) []*Transcript {
	var order []*Transcript
	byName := make(map[string]*Transcript)

	for _, f := range features {
		name := f.Transcript
		if name == "" {
			name = f.Label
		}

		t, seen := byName[name]
		if !seen {
			t = &Transcript{Name: name, Start: f.Start, End: f.End}
			byName[name] = t
			order = append(order, t)
		}
		t.Components = append(t.Components, f)
		t.Start = min(t.Start, f.Start)
		t.End = max(t.End, f.End)
	}
	return order
}
