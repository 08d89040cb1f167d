package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VictorCaricatte/panvita/internal/matrix"
	"github.com/VictorCaricatte/panvita/internal/refdb"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testMatrix(t *testing.T) (*matrix.Matrix, map[string]matrix.Class, *refdb.Map) {
	t.Helper()
	b := matrix.NewBuilder()
	b.AddGenome("strain1")
	b.AddGenome("strain2")

	r1 := matrix.NewGenomeResult("strain1")
	r1.Record("geneA", "loc1", 95)
	r1.Record("geneB", "loc2", 72.5)
	b.Merge(r1)

	r2 := matrix.NewGenomeResult("strain2")
	r2.Record("geneA", "loc3", 88)
	b.Merge(r2)

	m := b.Freeze()

	am := refdb.NewMap(refdb.CARD)
	am.SetAttrs("geneA", "carbapenem", "antibiotic efflux")

	return m, m.Classify(), am
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestWriteRun(t *testing.T) {
	s := openInMemory(t)
	m, classes, am := testMatrix(t)

	runID, err := s.WriteRun(m, classes, am)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.Equal(t, refdb.CARD, runs[0].Kind)
	assert.Equal(t, 2, runs[0].Genomes)
	assert.Equal(t, 2, runs[0].Genes)

	// strain2 lacks geneB, so only three present cells are stored.
	n, err := s.CellCount(runID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSearchGene(t *testing.T) {
	s := openInMemory(t)
	m, classes, am := testMatrix(t)

	runID, err := s.WriteRun(m, classes, am)
	require.NoError(t, err)

	rows, err := s.SearchGene("geneA")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, runID, r.RunID)
		assert.Equal(t, "geneA", r.Gene)
		assert.Equal(t, "Core", r.Category)
		assert.Equal(t, "carbapenem", r.Attr1)
		assert.Equal(t, "antibiotic efflux", r.Attr2)
	}

	// geneB has no attributes in the map, so rows fall back to Unknown.
	rows, err = s.SearchGene("geneB")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "strain1", rows[0].Genome)
	assert.Equal(t, "Exclusive", rows[0].Category)
	assert.Equal(t, "Unknown", rows[0].Attr1)
}

func TestDeleteRun(t *testing.T) {
	s := openInMemory(t)
	m, classes, am := testMatrix(t)

	runID, err := s.WriteRun(m, classes, am)
	require.NoError(t, err)

	require.NoError(t, s.DeleteRun(runID))

	runs, err := s.Runs()
	require.NoError(t, err)
	assert.Empty(t, runs)

	n, err := s.CellCount(runID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
