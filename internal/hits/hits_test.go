package hits

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawHits = "LOC_0001\tBAC0001|abeM|tr|Q5FAM9|Q5FAM9_ACIBA\t95.5\t98.2\t100\t0\t0\t1\t100\t1\t1e-50\t200\n" +
	"LOC_0002\tBAC0002|copA|sp|P12374|COPA_ECOLI\t65.0\t90.0\t100\t0\t0\t1\t100\t1\t1e-30\t150\n" +
	"LOC_0003\tBAC0003|merA|sp|P00000|MERA_ECOLI\t88.0\t60.0\t100\t0\t0\t1\t100\t1\t1e-40\t180\n" +
	"LOC_0004\tBAC0004|arsB|sp|P11111|ARSB_ECOLI\t92.0\t95.0\t100\t0\t0\t1\t100\t1\t0.5\t90\n"

func TestParse(t *testing.T) {
	rows, err := Parse(strings.NewReader(rawHits))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "LOC_0001", rows[0].Query)
	assert.Equal(t, "BAC0001|abeM|tr|Q5FAM9|Q5FAM9_ACIBA", rows[0].Subject)
	assert.InDelta(t, 95.5, rows[0].Identity, 1e-9)
	assert.InDelta(t, 98.2, rows[0].Coverage, 1e-9)
	assert.InDelta(t, 1e-50, rows[0].EValue, 1e-60)
}

func TestParse_SkipsMalformedRows(t *testing.T) {
	input := "only_two\tcolumns\n" +
		"\n" +
		"LOC_1\tSUBJ\tnot_a_number\textra\n" +
		"LOC_2\tSUBJ\t90.0\t95.0\t.\t.\t.\t.\t.\t.\t1e-20\t.\n"
	rows, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "LOC_2", rows[0].Query)
}

func TestFilter(t *testing.T) {
	rows, err := Parse(strings.NewReader(rawHits))
	require.NoError(t, err)

	kept := Filter(rows, DefaultThresholds())
	require.Len(t, kept, 1, "low identity, low coverage and high e-value rows must all drop")
	assert.Equal(t, "LOC_0001", kept[0].Query)
}

func TestThresholds_Keep(t *testing.T) {
	th := Thresholds{Identity: 70, Coverage: 70, EValue: 5e-06}

	tests := []struct {
		name string
		row  Row
		want bool
	}{
		{"passes all", Row{Identity: 70, Coverage: 70, EValue: 5e-06}, true},
		{"identity below", Row{Identity: 69.9, Coverage: 99, EValue: 1e-10}, false},
		{"coverage below", Row{Identity: 99, Coverage: 69.9, EValue: 1e-10}, false},
		{"evalue above", Row{Identity: 99, Coverage: 99, EValue: 1e-05}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, th.Keep(tt.row))
		})
	}
}

func TestWriteRowsRoundTrip(t *testing.T) {
	in := []Row{
		{Query: "L1", Subject: "S1", Identity: 95.5, Coverage: 98.2, EValue: 1e-50},
		{Query: "L2", Subject: "S2", Identity: 88, Coverage: 70, EValue: 0},
	}
	var sb strings.Builder
	require.NoError(t, WriteRows(&sb, in))

	out, err := Parse(strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, in[0].Subject, out[0].Subject)
	assert.InDelta(t, in[0].Identity, out[0].Identity, 1e-9)
	assert.InDelta(t, in[1].EValue, out[1].EValue, 1e-12)
}
