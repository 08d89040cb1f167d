package genbank

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleCDS = `LOCUS       TEST0001             5000 bp    DNA     linear   BCT
FEATURES             Location/Qualifiers
     source          1..5000
     gene            100..600
     CDS             100..600
                     /locus_tag="TEST_0001"
                     /product="hypothetical protein"
                     /translation="MKLVINT"
ORIGIN
        1 atgaccatga
//
`

func TestExtractProteins_SingleLine(t *testing.T) {
	records := ExtractProteins(strings.Split(singleCDS, "\n"))
	require.Len(t, records, 1)
	assert.Equal(t, "TEST_0001", records[0].LocusTag)
	assert.Equal(t, "hypothetical protein", records[0].Product)
	assert.Equal(t, "MKLVINT", records[0].Sequence)
}

func TestExtractProteins_SplitTranslationRoundTrip(t *testing.T) {
	unsplit := `     CDS             100..600
                     /locus_tag="TEST_0001"
                     /product="hypothetical protein"
                     /translation="MKLVINTSDRETAAGYQWLKNIVAQ"
`
	split := `     CDS             100..600
                     /locus_tag="TEST_0001"
                     /product="hypothetical protein"
                     /translation="MKLVINTSDR
                     ETAAGYQWLK
                     NIVAQ"
`
	a := ExtractProteins(strings.Split(unsplit, "\n"))
	b := ExtractProteins(strings.Split(split, "\n"))
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0].Sequence, b[0].Sequence,
		"wrapped translation must reconstruct the unsplit amino-acid string")
}

func TestExtractProteins_SplitLocusTag(t *testing.T) {
	lines := strings.Split(`     CDS             100..600
                     /locus_tag="VERYLONGPREFIX_
                     0001"
                     /translation="MK"
`, "\n")
	records := ExtractProteins(lines)
	require.Len(t, records, 1)
	assert.Equal(t, "VERYLONGPREFIX_0001", records[0].LocusTag)
}

func TestExtractProteins_NoTranslationSkipped(t *testing.T) {
	lines := strings.Split(`     CDS             100..600
                     /locus_tag="PSEUDO_0001"
                     /product="pseudogene fragment"
     CDS             700..900
                     /locus_tag="TEST_0002"
                     /translation="MTTK"
`, "\n")
	records := ExtractProteins(lines)
	require.Len(t, records, 1)
	assert.Equal(t, "TEST_0002", records[0].LocusTag)
	assert.Equal(t, "MTTK", records[0].Sequence)
}

func TestExtractProteins_TranslationNotStolenAcrossBlocks(t *testing.T) {
	// The first CDS has no translation; the second CDS's translation must
	// not be attributed to it.
	lines := strings.Split(`     CDS             100..600
                     /locus_tag="PSEUDO_0001"
     gene            700..900
     CDS             700..900
                     /locus_tag="TEST_0002"
                     /translation="MAAA"
`, "\n")
	records := ExtractProteins(lines)
	require.Len(t, records, 1)
	assert.Equal(t, "TEST_0002", records[0].LocusTag)
}

func TestExtractCoordinates_Forms(t *testing.T) {
	lines := strings.Split(`     CDS             100..600
                     /locus_tag="A"
     CDS             complement(700..900)
                     /locus_tag="B"
     CDS             join(1000..1200,1300..1400)
                     /locus_tag="C"
     CDS             complement(join(1500..1600,1700..1800))
                     /locus_tag="D"
     CDS             <1900..>2000
                     /locus_tag="E"
`, "\n")
	entries := ExtractCoordinates(lines)
	require.Len(t, entries, 5)

	want := map[string][2]int{
		"A": {100, 600},
		"B": {700, 900},
		"C": {1000, 1200},
		"D": {1500, 1600},
		"E": {1900, 2000},
	}
	for _, e := range entries {
		span, ok := want[e.LocusTag]
		require.True(t, ok, "unexpected locus tag %q", e.LocusTag)
		assert.Equal(t, span[0], e.Start, "start of %s", e.LocusTag)
		assert.Equal(t, span[1], e.End, "end of %s", e.LocusTag)
	}
}

func TestExtractCoordinates_ContigOffsets(t *testing.T) {
	lines := strings.Split(`     CDS             100..600
                     /locus_tag="A"
CONTIG      join(CM000001.1:1..1000)
     CDS             50..80
                     /locus_tag="B"
CONTIG      join(CM000002.1:1..500)
     CDS             10..40
                     /locus_tag="C"
`, "\n")
	entries := ExtractCoordinates(lines)
	require.Len(t, entries, 3)

	assert.Equal(t, CoordinateEntry{"A", 100, 600}, entries[0])
	assert.Equal(t, CoordinateEntry{"B", 1050, 1080}, entries[1])
	assert.Equal(t, CoordinateEntry{"C", 1510, 1540}, entries[2])

	// Offsets accumulate monotonically: no CDS may start below the total
	// length of the contigs preceding it.
	assert.GreaterOrEqual(t, entries[1].Start, 1000)
	assert.GreaterOrEqual(t, entries[2].Start, 1500)
}

func TestExtractCoordinates_ComplementJoinWithOffset(t *testing.T) {
	lines := strings.Split(`CONTIG      join(CM000001.1:1..1000)
     CDS             complement(join(10..20,1..5))
                     /locus_tag="X"
`, "\n")
	entries := ExtractCoordinates(lines)
	require.Len(t, entries, 1)
	assert.Equal(t, 1010, entries[0].Start)
	assert.Equal(t, 1020, entries[0].End)
}

func TestExtractCoordinates_MalformedRangeSkipsFeature(t *testing.T) {
	lines := strings.Split(`     CDS             garbage
                     /locus_tag="BAD"
     CDS             100..200
                     /locus_tag="GOOD"
`, "\n")
	entries := ExtractCoordinates(lines)
	require.Len(t, entries, 1)
	assert.Equal(t, "GOOD", entries[0].LocusTag)
}

func TestWriteFASTA(t *testing.T) {
	var sb strings.Builder
	err := WriteFASTA(&sb, []ProteinRecord{
		{LocusTag: "A_0001", Product: "porin", Sequence: "MKL"},
		{LocusTag: "A_0002", Product: "efflux pump", Sequence: "MTT"},
	})
	require.NoError(t, err)
	assert.Equal(t, ">A_0001 porin\nMKL\n>A_0002 efflux pump\nMTT\n", sb.String())
}
