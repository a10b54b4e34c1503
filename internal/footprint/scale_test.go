package footprint

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/footprint-viewer/internal/genome"
)

func TestCeiling(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    float64
	}{
		{"no data defaults to 1", nil, 1.0},
		{"below cap", []Record{long(150, 2, 3.2)}, 3.2},
		{"capped", []Record{long(150, 2, 12.0)}, ScaleCap},
		{"negative only defaults to 1", []Record{long(150, 2, -1)}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Build(Table{Records: tt.records}, testWindow, DefaultRadii)
			assert.Equal(t, tt.want, Ceiling(m))
		})
	}
}

func TestTrackMax(t *testing.T) {
	empty := Build(Table{}, testWindow, DefaultRadii)
	assert.Zero(t, TrackMax(empty))

	m := Build(Table{Records: []Record{long(150, 2, 7.5)}}, testWindow, DefaultRadii)
	assert.Equal(t, ScaleCap, TrackMax(m))

	m = Build(Table{Records: []Record{long(150, 2, 3.2)}}, testWindow, DefaultRadii)
	assert.Equal(t, 3.2, TrackMax(m))
}

func TestReconcile(t *testing.T) {
	assert.Equal(t, 3.2, Reconcile([]float64{0, 3.2}))
	assert.Equal(t, 1.0, Reconcile([]float64{0, 0}))
	assert.Equal(t, 1.0, Reconcile(nil))
	assert.Equal(t, ScaleCap, Reconcile([]float64{2, 9}))
	assert.Equal(t, 0.4, Reconcile([]float64{0.4, 0.1}))
}

func TestScaleFor(t *testing.T) {
	empty := NewTrack("leaf", Table{}, testWindow, DefaultRadii)
	root := NewTrack("root", Table{Records: []Record{long(150, 2, 3.2)}}, testWindow, DefaultRadii)

	// A track without data contributes 0 to a shared scale but gets 1.0 alone.
	assert.Zero(t, empty.Max)
	assert.Equal(t, 1.0, ScaleFor([]*Track{empty}).Ceiling)
	assert.Equal(t, 3.2, ScaleFor([]*Track{empty, root}).Ceiling)
	assert.Equal(t, 1.0, ScaleFor([]*Track{empty, empty}).Ceiling)
}

func TestStats(t *testing.T) {
	w := genome.Window{Chrom: "Chr1", Start: 1, End: 2}
	m := Build(Table{Records: []Record{long(1, 2, 1.0), long(2, 2, 3.0)}}, w, RadiusRange{Min: 2, Max: 3})

	s := Stats(m)
	assert.Equal(t, 4, s.TotalPoints)
	assert.Equal(t, 2, s.NonZeroPoints)
	assert.Equal(t, 0.5, s.ZeroRatio)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 3.0, s.Max)
	assert.Equal(t, 2.0, s.Mean)
	assert.InDelta(t, 1.0, s.Std, 1e-12)

	empty := Stats(NewMatrix(w, RadiusRange{Min: 2, Max: 1}))
	assert.Zero(t, empty.TotalPoints)
	assert.Zero(t, empty.ZeroRatio)
}

type staticSource struct {
	name  string
	table Table
	err   error
}

func (s staticSource) Name() string { return s.name }

func (s staticSource) Load(_ context.Context, w genome.Window) (Table, error) {
	if s.err != nil {
		return Table{}, s.err
	}
	return Filter(s.table, w), nil
}

func TestBuilder_OrderAndScale(t *testing.T) {
	sources := []Source{
		staticSource{name: "leaf"},
		staticSource{name: "root", table: Table{Records: []Record{long(150, 2, 3.2)}}},
		staticSource{name: "inflorescence", table: Table{Wide: true, Records: []Record{
			wide(120, map[int]float64{2: 1.0, 3: math.NaN()}),
		}}},
	}

	b := NewBuilder(DefaultRadii, 2)
	tracks, err := b.Build(context.Background(), sources, testWindow)
	require.NoError(t, err)
	require.Len(t, tracks, 3)

	assert.Equal(t, "leaf", tracks[0].Name)
	assert.Equal(t, "root", tracks[1].Name)
	assert.Equal(t, "inflorescence", tracks[2].Name)

	assert.Zero(t, tracks[0].Max)
	assert.Equal(t, 3.2, tracks[1].Max)
	assert.Equal(t, 1, tracks[2].Records)
	assert.Equal(t, 3.2, ScaleFor(tracks).Ceiling)
}

func TestBuilder_Error(t *testing.T) {
	boom := errors.New("boom")
	sources := []Source{
		staticSource{name: "ok"},
		staticSource{name: "bad", err: boom},
		staticSource{name: "ok2"},
	}

	_, err := NewBuilder(DefaultRadii, 0).Build(context.Background(), sources, testWindow)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "bad")
}

func TestBuilder_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(DefaultRadii, 1).Build(ctx, []Source{staticSource{name: "a"}}, testWindow)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuilder_NoSources(t *testing.T) {
	tracks, err := NewBuilder(DefaultRadii, 1).Build(context.Background(), nil, testWindow)
	require.NoError(t, err)
	assert.Empty(t, tracks)
}
