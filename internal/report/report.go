// Package report writes the matrix and annotated report files.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/VictorCaricatte/panvita/internal/matrix"
	"github.com/VictorCaricatte/panvita/internal/refdb"
)

// formatIdentity renders an identity percentage without trailing zeros,
// and absent cells as a bare "0".
func formatIdentity(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteMatrix writes the semicolon-separated presence/identity matrix:
// header "Strains;<gene1>;<gene2>;..." and one row per genome. A matrix
// with no genes still lists the genome names.
func WriteMatrix(w io.Writer, m *matrix.Matrix) error {
	bw := bufio.NewWriter(w)

	if m.Empty() {
		if _, err := bw.WriteString("Strains\n"); err != nil {
			return err
		}
		for _, genome := range m.Genomes() {
			if _, err := bw.WriteString(genome + "\n"); err != nil {
				return err
			}
		}
		return bw.Flush()
	}

	if _, err := bw.WriteString("Strains;" + strings.Join(m.Genes(), ";") + "\n"); err != nil {
		return err
	}
	for _, genome := range m.Genomes() {
		if _, err := bw.WriteString(genome); err != nil {
			return err
		}
		for _, v := range m.Row(genome) {
			if _, err := bw.WriteString(";" + formatIdentity(v)); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteDetailed writes the long-form annotated report: one row per
// (genome, gene) pair with identity > 0, joined with the pan-genome class
// and the database's classification attributes.
func WriteDetailed(w io.Writer, m *matrix.Matrix, classes map[string]matrix.Class, am *refdb.Map) error {
	bw := bufio.NewWriter(w)

	label1, label2 := am.Kind().AttrLabels()
	if _, err := fmt.Fprintf(bw, "Genome,Gene,Identity,Category,%s,%s\n", label1, label2); err != nil {
		return err
	}

	for _, genome := range m.Genomes() {
		for _, gene := range m.Genes() {
			identity := m.Identity(genome, gene)
			if identity == 0 {
				continue
			}
			_, err := fmt.Fprintf(bw, "%s,%s,%s,%s,%s,%s\n",
				csvField(genome), csvField(gene), formatIdentity(identity),
				string(classes[gene]), csvField(am.Attr1(gene)), csvField(am.Attr2(gene)))
			if err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// csvField quotes a comma-separated field when it contains a delimiter.
func csvField(s string) string {
	if strings.ContainsAny(s, ",\"") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// WriteGeneCounts writes the per-gene presence summary:
// "Genes;Presence Number;Strains".
func WriteGeneCounts(w io.Writer, m *matrix.Matrix) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("Genes;Presence Number;Strains\n"); err != nil {
		return err
	}
	for _, p := range m.GenePresences() {
		if _, err := fmt.Fprintf(bw, "%s;%d;%s\n", p.Gene, p.Count, strings.Join(p.Genomes, ",")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteGenomeCounts writes the per-genome presence summary:
// "Strains;Presence Number;Genes".
func WriteGenomeCounts(w io.Writer, m *matrix.Matrix) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("Strains;Presence Number;Genes\n"); err != nil {
		return err
	}
	for _, p := range m.GenomePresences() {
		if _, err := fmt.Fprintf(bw, "%s;%d;%s\n", p.Genome, p.Count, strings.Join(p.Genes, ",")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WritePanCurve writes the cumulative pan/core development:
// "Strains;Core;Pan".
func WritePanCurve(w io.Writer, m *matrix.Matrix) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("Strains;Core;Pan\n"); err != nil {
		return err
	}
	for _, p := range m.PanCurve() {
		if _, err := fmt.Fprintf(bw, "%s;%d;%d\n", p.Genome, p.Core, p.Pan); err != nil {
			return err
		}
	}
	return bw.Flush()
}
