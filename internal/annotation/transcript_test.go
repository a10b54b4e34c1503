package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup(t *testing.T) {
	features := []Feature{
		{Transcript: "B", Type: CDS, Start: 50, End: 60, Strand: -1, Label: "B-CDS"},
		{Transcript: "A", Type: UTR5, Start: 0, End: 10, Strand: 1, Label: "A-5UTR"},
		{Transcript: "B", Type: UTR3, Start: 40, End: 50, Strand: -1, Label: "B-3UTR"},
		{Transcript: "A", Type: CDS, Start: 10, End: 30, Strand: 1, Label: "A-CDS"},
	}

	transcripts := Group(features)
	require.Len(t, transcripts, 2)

	// First-appearance order, not sorted.
	assert.Equal(t, "B", transcripts[0].Name)
	assert.Equal(t, "A", transcripts[1].Name)

	assert.Equal(t, int64(40), transcripts[0].Start)
	assert.Equal(t, int64(60), transcripts[0].End)
	assert.Len(t, transcripts[0].Components, 2)
	assert.Equal(t, int8(-1), transcripts[0].Strand())

	assert.Equal(t, int64(0), transcripts[1].Start)
	assert.Equal(t, int64(30), transcripts[1].End)
	assert.Equal(t, "A-5UTR", transcripts[1].Components[0].Label)
	assert.Equal(t, "A-CDS", transcripts[1].Components[1].Label)
}

func TestGroup_NameWithHyphen(t *testing.T) {
	features := []Feature{
		{Transcript: "DDX11L2-202", Type: CDS, Start: 0, End: 10, Label: "DDX11L2-202-CDS"},
		{Transcript: "DDX11L2-201", Type: CDS, Start: 5, End: 15, Label: "DDX11L2-201-CDS"},
	}

	transcripts := Group(features)
	require.Len(t, transcripts, 2)
	assert.Equal(t, "DDX11L2-202", transcripts[0].Name)
	assert.Equal(t, "DDX11L2-201", transcripts[1].Name)
}

func TestGroup_Empty(t *testing.T) {
	assert.Empty(t, Group(nil))

	var tr Transcript
	assert.Equal(t, int8(0), tr.Strand())
}
