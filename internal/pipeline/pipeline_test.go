package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VictorCaricatte/panvita/internal/hits"
	"github.com/VictorCaricatte/panvita/internal/refdb"
)

func testMap(t *testing.T) *refdb.Map {
	t.Helper()
	am := refdb.NewMap(refdb.CARD)
	am.AddID("subjA", "geneA")
	am.AddID("subjB", "geneB")
	am.SetAttrs("geneA", "carbapenem", "antibiotic efflux")
	am.SetAttrs("geneB", "tetracycline", "target protection")
	return am
}

func writeHits(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	am := testMap(t)

	// strain1: two kept hits against geneA (max retained), one below
	// identity, one unresolved subject.
	s1 := writeHits(t, dir, "strain1.tab",
		"loc1\tsubjA\t95.0\t90.0\t.\t.\t.\t.\t.\t.\t1e-20\t.\n"+
			"loc2\tsubjA\t88.0\t90.0\t.\t.\t.\t.\t.\t.\t1e-20\t.\n"+
			"loc3\tsubjB\t50.0\t90.0\t.\t.\t.\t.\t.\t.\t1e-20\t.\n"+
			"loc4\tnosuch\t99.0\t99.0\t.\t.\t.\t.\t.\t.\t1e-20\t.\n")
	// strain2: one kept hit.
	s2 := writeHits(t, dir, "strain2.tab",
		"loc9\tsubjB\t72.5\t80.0\t.\t.\t.\t.\t.\t.\t1e-10\t.\n")

	m, stats, err := Run(context.Background(),
		am,
		[]GenomeHits{{Genome: "strain1", Path: s1}, {Genome: "strain2", Path: s2}},
		Options{Thresholds: hits.DefaultThresholds(), Workers: 2},
		nil)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Genomes)
	assert.Equal(t, 0, stats.SkippedGenomes)
	assert.Equal(t, 5, stats.RawHits)
	assert.Equal(t, 4, stats.KeptHits)
	assert.Equal(t, 1, stats.Unresolved)

	assert.Equal(t, []string{"strain1", "strain2"}, m.Genomes())
	assert.Equal(t, []string{"geneA", "geneB"}, m.Genes())
	assert.Equal(t, []float64{95, 0}, m.Row("strain1"))
	assert.Equal(t, []float64{0, 72.5}, m.Row("strain2"))
	assert.Equal(t, []string{"loc1", "loc2"}, m.Loci("strain1", "geneA"))
}

func TestRun_MissingHitFileGetsZeroRow(t *testing.T) {
	dir := t.TempDir()
	am := testMap(t)

	s1 := writeHits(t, dir, "strain1.tab",
		"loc1\tsubjA\t95.0\t90.0\t.\t.\t.\t.\t.\t.\t1e-20\t.\n")

	m, stats, err := Run(context.Background(),
		am,
		[]GenomeHits{
			{Genome: "strain1", Path: s1},
			{Genome: "ghost", Path: filepath.Join(dir, "missing.tab")},
		},
		Options{Thresholds: hits.DefaultThresholds()},
		nil)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.SkippedGenomes)
	assert.Equal(t, []string{"strain1", "ghost"}, m.Genomes())
	assert.Equal(t, []float64{0}, m.Row("ghost"))
	assert.Equal(t, []float64{95}, m.Row("strain1"))
}

func TestRun_NoGenomes(t *testing.T) {
	m, stats, err := Run(context.Background(), testMap(t), nil,
		Options{Thresholds: hits.DefaultThresholds()}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Genomes)
	assert.True(t, m.Empty())
	assert.Empty(t, m.Genomes())
}

func TestRun_DeterministicAcrossWorkerCounts(t *testing.T) {
	dir := t.TempDir()
	am := testMap(t)

	var genomes []GenomeHits
	for _, name := range []string{"s1", "s2", "s3", "s4", "s5"} {
		p := writeHits(t, dir, name+".tab",
			"loc\tsubjA\t90.0\t90.0\t.\t.\t.\t.\t.\t.\t1e-20\t.\n")
		genomes = append(genomes, GenomeHits{Genome: name, Path: p})
	}

	opts := Options{Thresholds: hits.DefaultThresholds(), Workers: 1}
	base, _, err := Run(context.Background(), am, genomes, opts, nil)
	require.NoError(t, err)

	opts.Workers = 4
	again, _, err := Run(context.Background(), am, genomes, opts, nil)
	require.NoError(t, err)

	assert.Equal(t, base.Genomes(), again.Genomes())
	assert.Equal(t, base.Genes(), again.Genes())
	for _, g := range base.Genomes() {
		assert.Equal(t, base.Row(g), again.Row(g))
	}
}
