// Package matrix builds the genomes × genes identity matrix and derives
// the pan-genome classification.
package matrix

import (
	"sort"
	"sync"
)

// Class is the pan-genome classification of one gene.
type Class string

const (
	ClassCore      Class = "Core"
	ClassAccessory Class = "Accessory"
	ClassExclusive Class = "Exclusive"
)

// GenomeResult is one genome's resolved hits against a single reference
// database. Results are immutable once handed to a Builder, which makes
// the merge step safe to run from concurrent per-genome workers.
type GenomeResult struct {
	Genome   string
	identity map[string]float64
	loci     map[string][]string
}

// NewGenomeResult creates an empty result for one genome.
func NewGenomeResult(genome string) *GenomeResult {
	return &GenomeResult{
		Genome:   genome,
		identity: make(map[string]float64),
		loci:     make(map[string][]string),
	}
}

// Record notes one resolved hit. For a repeated gene only the maximum
// identity is retained; every contributing locus tag is kept.
func (g *GenomeResult) Record(gene, locusTag string, identity float64) {
	if identity > g.identity[gene] {
		g.identity[gene] = identity
	}
	if locusTag != "" {
		g.loci[gene] = append(g.loci[gene], locusTag)
	}
}

// Identity returns the best identity recorded for a gene, 0 if absent.
func (g *GenomeResult) Identity(gene string) float64 {
	return g.identity[gene]
}

// Genes returns the number of distinct genes observed.
func (g *GenomeResult) Genes() int { return len(g.identity) }

// Builder accumulates per-genome results. Merges serialize on an internal
// mutex; the max aggregation is commutative and associative, so partial
// results may arrive in any order.
type Builder struct {
	mu       sync.Mutex
	genomes  []string
	byGenome map[string]*GenomeResult
}

// NewBuilder creates an empty matrix builder.
func NewBuilder() *Builder {
	return &Builder{byGenome: make(map[string]*GenomeResult)}
}

// AddGenome registers a genome with no hits. A genome directory with zero
// hit files is not an error; it yields an all-zero row.
func (b *Builder) AddGenome(genome string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ensure(genome)
}

// Merge folds one genome's partial result into the builder.
func (b *Builder) Merge(r *GenomeResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	dst := b.ensure(r.Genome)
	for gene, identity := range r.identity {
		if identity > dst.identity[gene] {
			dst.identity[gene] = identity
		}
	}
	for gene, tags := range r.loci {
		dst.loci[gene] = append(dst.loci[gene], tags...)
	}
}

func (b *Builder) ensure(genome string) *GenomeResult {
	if r, ok := b.byGenome[genome]; ok {
		return r
	}
	r := NewGenomeResult(genome)
	b.genomes = append(b.genomes, genome)
	b.byGenome[genome] = r
	return r
}

// Freeze fixes the gene set and column order and returns the completed
// matrix. Classification is only available on the frozen matrix, never on
// a builder still accepting merges.
func (b *Builder) Freeze() *Matrix {
	b.mu.Lock()
	defer b.mu.Unlock()

	geneSet := make(map[string]struct{})
	for _, r := range b.byGenome {
		for gene := range r.identity {
			geneSet[gene] = struct{}{}
		}
	}
	genes := make([]string, 0, len(geneSet))
	for gene := range geneSet {
		genes = append(genes, gene)
	}
	sort.Strings(genes)

	m := &Matrix{
		genomes:  append([]string(nil), b.genomes...),
		genes:    genes,
		byGenome: make(map[string]*GenomeResult, len(b.byGenome)),
	}
	for name, r := range b.byGenome {
		m.byGenome[name] = r
	}
	return m
}

// Matrix is the frozen genomes × genes identity table. Row order follows
// genome registration order; column order is lexicographic for
// deterministic output.
type Matrix struct {
	genomes  []string
	genes    []string
	byGenome map[string]*GenomeResult
}

// Genomes returns genome names in row order.
func (m *Matrix) Genomes() []string { return m.genomes }

// Genes returns gene names in column order.
func (m *Matrix) Genes() []string { return m.genes }

// Empty reports whether no genes resolved across all genomes.
func (m *Matrix) Empty() bool { return len(m.genes) == 0 }

// Identity returns the cell value for (genome, gene), 0 if absent.
func (m *Matrix) Identity(genome, gene string) float64 {
	r, ok := m.byGenome[genome]
	if !ok {
		return 0
	}
	return r.Identity(gene)
}

// Row returns one genome's identities in column order.
func (m *Matrix) Row(genome string) []float64 {
	row := make([]float64, len(m.genes))
	for i, gene := range m.genes {
		row[i] = m.Identity(genome, gene)
	}
	return row
}

// Loci returns the locus tags whose hits resolved to gene in genome.
func (m *Matrix) Loci(genome, gene string) []string {
	r, ok := m.byGenome[genome]
	if !ok {
		return nil
	}
	return r.loci[gene]
}

// PresenceCount returns in how many genomes the gene is present.
func (m *Matrix) PresenceCount(gene string) int {
	n := 0
	for _, genome := range m.genomes {
		if m.Identity(genome, gene) > 0 {
			n++
		}
	}
	return n
}

// Classify derives the pan-genome class of every gene: Core when present
// in all genomes, Exclusive when present in exactly one, Accessory
// otherwise.
func (m *Matrix) Classify() map[string]Class {
	classes := make(map[string]Class, len(m.genes))
	total := len(m.genomes)
	for _, gene := range m.genes {
		switch n := m.PresenceCount(gene); {
		case n == total:
			classes[gene] = ClassCore
		case n == 1:
			classes[gene] = ClassExclusive
		default:
			classes[gene] = ClassAccessory
		}
	}
	return classes
}
