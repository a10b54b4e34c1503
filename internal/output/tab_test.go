package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/footprint-viewer/internal/annotation"
	"github.com/inodb/footprint-viewer/internal/footprint"
	"github.com/inodb/footprint-viewer/internal/genome"
	"github.com/inodb/footprint-viewer/internal/layout"
)

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestFeatureWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewFeatureWriter(&buf, nil)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	header := buf.String()
	for _, col := range []string{"#Chrom", "Start", "End", "Transcript", "Component", "Row", "Label", "Color"} {
		assert.Contains(t, header, col)
	}
}

func TestFeatureWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewFeatureWriter(&buf, nil)

	f := annotation.Feature{
		Transcript: "GeneA",
		Type:       annotation.CDS,
		Kind:       "CDS",
		Start:      150,
		End:        180,
		Strand:     -1,
		Label:      "GeneA-CDS",
	}
	require.NoError(t, w.Write("Chr1", f, 0))
	require.NoError(t, w.Write("Chr1", annotation.Feature{Type: annotation.UTR5}, -1))
	require.NoError(t, w.Flush())

	out := lines(&buf)
	require.Len(t, out, 2)
	assert.Equal(t, "Chr1\t150\t180\t-\tGeneA\tCDS\tCDS\t0\tGeneA-CDS\t#9999ff\t#87ceeb", out[0])

	fields := strings.Split(out[1], "\t")
	assert.Equal(t, ".", fields[3])
	assert.Equal(t, "-", fields[4])
	assert.Equal(t, "-", fields[7])
	assert.Equal(t, "feature", fields[8])
	assert.Equal(t, "#ffb6c1", fields[10])
}

func TestRowWriter(t *testing.T) {
	var buf bytes.Buffer
	w := genome.Window{Chrom: "Chr1", Start: 100, End: 200}
	rows := layout.Pack([]layout.Span{
		{Name: "GeneA", Start: 0, End: 81},
		{Name: "GeneB", Start: 70, End: 101},
		{Name: "GeneC", Start: 90, End: 95},
	})
	require.Len(t, rows, 2)

	rw := NewRowWriter(&buf, w)
	require.NoError(t, rw.WriteHeader())
	for i, r := range rows {
		require.NoError(t, rw.Write(i, r))
	}
	require.NoError(t, rw.Flush())

	assert.Equal(t, []string{
		"#Row\tTranscript\tChrom\tStart\tEnd",
		"0\tGeneA\tChr1\t100\t180",
		"0\tGeneC\tChr1\t190\t194",
		"1\tGeneB\tChr1\t170\t200",
	}, lines(&buf))
}

func TestMatrixWriter(t *testing.T) {
	var buf bytes.Buffer
	w := genome.Window{Chrom: "Chr1", Start: 10, End: 12}
	m := footprint.Build(footprint.Table{Records: []footprint.Record{
		{Chrom: "Chr1", Pos: 11, Radius: 3, Score: 1.5},
	}}, w, footprint.RadiusRange{Min: 2, Max: 3})

	mw := NewMatrixWriter(&buf, m)
	require.NoError(t, mw.WriteHeader())
	require.NoError(t, mw.Write())
	require.NoError(t, mw.Flush())

	assert.Equal(t, []string{
		"#Radius\t10\t11\t12",
		"2\t0\t0\t0",
		"3\t0\t1.5\t0",
	}, lines(&buf))
}
