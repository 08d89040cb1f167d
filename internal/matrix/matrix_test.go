package matrix

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenomeResult_MaxRetention(t *testing.T) {
	r := NewGenomeResult("strain1")
	r.Record("geneA", "LOC_1", 80.0)
	r.Record("geneA", "LOC_2", 95.0)
	r.Record("geneA", "LOC_3", 88.0)

	assert.InDelta(t, 95.0, r.Identity("geneA"), 1e-9,
		"a gene already above a hit's identity is never downgraded")
	assert.Equal(t, 1, r.Genes())
}

func TestBuilder_TwoGenomeScenario(t *testing.T) {
	// geneA in both genomes (95, 88), geneB only in genome 1 (72).
	b := NewBuilder()

	r1 := NewGenomeResult("genome1")
	r1.Record("geneA", "L1", 95.0)
	r1.Record("geneB", "L2", 72.0)
	b.Merge(r1)

	r2 := NewGenomeResult("genome2")
	r2.Record("geneA", "L3", 88.0)
	b.Merge(r2)

	m := b.Freeze()
	assert.Equal(t, []string{"geneA", "geneB"}, m.Genes())
	assert.Equal(t, []float64{95.0, 72.0}, m.Row("genome1"))
	assert.Equal(t, []float64{88.0, 0}, m.Row("genome2"))

	classes := m.Classify()
	assert.Equal(t, ClassCore, classes["geneA"])
	assert.Equal(t, ClassExclusive, classes["geneB"])
}

func TestBuilder_MergeIsCommutative(t *testing.T) {
	build := func(order []*GenomeResult, genomes []string) *Matrix {
		b := NewBuilder()
		for _, g := range genomes {
			b.AddGenome(g)
		}
		for _, r := range order {
			b.Merge(r)
		}
		return b.Freeze()
	}

	r1 := NewGenomeResult("s1")
	r1.Record("g1", "L1", 90)
	r2 := NewGenomeResult("s1")
	r2.Record("g1", "L2", 85)
	r3 := NewGenomeResult("s2")
	r3.Record("g2", "L3", 75)

	genomes := []string{"s1", "s2"}
	a := build([]*GenomeResult{r1, r2, r3}, genomes)
	b := build([]*GenomeResult{r3, r2, r1}, genomes)

	for _, genome := range genomes {
		assert.Equal(t, a.Row(genome), b.Row(genome), "row %s", genome)
	}
	assert.Equal(t, a.Genes(), b.Genes())
}

func TestBuilder_ConcurrentMerge(t *testing.T) {
	b := NewBuilder()
	b.AddGenome("s1")

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(identity float64) {
			defer wg.Done()
			r := NewGenomeResult("s1")
			r.Record("geneA", "L", identity)
			b.Merge(r)
		}(float64(i))
	}
	wg.Wait()

	m := b.Freeze()
	assert.InDelta(t, 99.0, m.Identity("s1", "geneA"), 1e-9)
}

func TestBuilder_EmptyGenomeRow(t *testing.T) {
	b := NewBuilder()
	b.AddGenome("empty_strain")

	r := NewGenomeResult("full_strain")
	r.Record("geneA", "L1", 90)
	b.Merge(r)

	m := b.Freeze()
	assert.Equal(t, []string{"empty_strain", "full_strain"}, m.Genomes())
	assert.Equal(t, []float64{0}, m.Row("empty_strain"))
}

func TestClassify_Accessory(t *testing.T) {
	b := NewBuilder()
	for _, g := range []string{"s1", "s2", "s3"} {
		b.AddGenome(g)
	}
	for _, g := range []string{"s1", "s2"} {
		r := NewGenomeResult(g)
		r.Record("geneX", "L", 80)
		b.Merge(r)
	}

	classes := b.Freeze().Classify()
	assert.Equal(t, ClassAccessory, classes["geneX"])
}

func TestPresenceCount(t *testing.T) {
	b := NewBuilder()
	for i, g := range []string{"s1", "s2", "s3"} {
		r := NewGenomeResult(g)
		if i < 2 {
			r.Record("geneA", "L", 90)
		}
		r.Record("geneB", "L", 85)
		b.Merge(r)
	}

	m := b.Freeze()
	assert.Equal(t, 2, m.PresenceCount("geneA"))
	assert.Equal(t, 3, m.PresenceCount("geneB"))
	assert.Equal(t, 0, m.PresenceCount("missing"))
}

func TestPanCurve(t *testing.T) {
	b := NewBuilder()

	r1 := NewGenomeResult("s1")
	r1.Record("g1", "L", 90)
	r1.Record("g2", "L", 90)
	b.Merge(r1)

	r2 := NewGenomeResult("s2")
	r2.Record("g2", "L", 90)
	r2.Record("g3", "L", 90)
	b.Merge(r2)

	points := b.Freeze().PanCurve()
	require.Len(t, points, 2)
	assert.Equal(t, PanPoint{Genome: "s1", Core: 2, Pan: 2}, points[0])
	assert.Equal(t, PanPoint{Genome: "s2", Core: 1, Pan: 3}, points[1])
}

func TestGeneAndGenomePresences(t *testing.T) {
	b := NewBuilder()
	r1 := NewGenomeResult("s1")
	r1.Record("g1", "L1", 90)
	r1.Record("g2", "L2", 80)
	b.Merge(r1)
	r2 := NewGenomeResult("s2")
	r2.Record("g1", "L3", 70)
	b.Merge(r2)

	m := b.Freeze()

	genes := m.GenePresences()
	require.Len(t, genes, 2)
	assert.Equal(t, GenePresence{Gene: "g1", Count: 2, Genomes: []string{"s1", "s2"}}, genes[0])
	assert.Equal(t, GenePresence{Gene: "g2", Count: 1, Genomes: []string{"s1"}}, genes[1])

	strains := m.GenomePresences()
	require.Len(t, strains, 2)
	assert.Equal(t, 2, strains[0].Count)
	assert.Equal(t, []string{"g1"}, strains[1].Genes)
}

func TestLoci(t *testing.T) {
	b := NewBuilder()
	r := NewGenomeResult("s1")
	r.Record("geneA", "LOC_1", 80)
	r.Record("geneA", "LOC_2", 95)
	b.Merge(r)

	m := b.Freeze()
	assert.Equal(t, []string{"LOC_1", "LOC_2"}, m.Loci("s1", "geneA"))
	assert.Nil(t, m.Loci("s2", "geneA"))
}
