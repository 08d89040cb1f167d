package matrix

// PanPoint is one step of the cumulative pan/core development curve:
// after consuming the first N genomes in row order, Pan is the size of
// the union of their gene sets and Core the size of the intersection.
type PanPoint struct {
	Genome string
	Core   int
	Pan    int
}

// PanCurve computes the cumulative pan/core development over genomes in
// row order.
func (m *Matrix) PanCurve() []PanPoint {
	points := make([]PanPoint, 0, len(m.genomes))
	union := make(map[string]struct{})
	var intersection map[string]struct{}

	for _, genome := range m.genomes {
		present := make(map[string]struct{})
		for _, gene := range m.genes {
			if m.Identity(genome, gene) > 0 {
				present[gene] = struct{}{}
			}
		}

		for gene := range present {
			union[gene] = struct{}{}
		}
		if intersection == nil {
			intersection = present
		} else {
			next := make(map[string]struct{})
			for gene := range intersection {
				if _, ok := present[gene]; ok {
					next[gene] = struct{}{}
				}
			}
			intersection = next
		}

		points = append(points, PanPoint{
			Genome: genome,
			Core:   len(intersection),
			Pan:    len(union),
		})
	}
	return points
}

// GenePresence summarizes one gene across all genomes.
type GenePresence struct {
	Gene    string
	Count   int
	Genomes []string
}

// GenePresences returns, per gene in column order, the genomes carrying it.
func (m *Matrix) GenePresences() []GenePresence {
	out := make([]GenePresence, 0, len(m.genes))
	for _, gene := range m.genes {
		p := GenePresence{Gene: gene}
		for _, genome := range m.genomes {
			if m.Identity(genome, gene) > 0 {
				p.Genomes = append(p.Genomes, genome)
			}
		}
		p.Count = len(p.Genomes)
		out = append(out, p)
	}
	return out
}

// GenomePresence summarizes one genome across all genes.
type GenomePresence struct {
	Genome string
	Count  int
	Genes  []string
}

// GenomePresences returns, per genome in row order, the genes it carries.
func (m *Matrix) GenomePresences() []GenomePresence {
	out := make([]GenomePresence, 0, len(m.genomes))
	for _, genome := range m.genomes {
		p := GenomePresence{Genome: genome}
		for _, gene := range m.genes {
			if m.Identity(genome, gene) > 0 {
				p.Genes = append(p.Genes, gene)
			}
		}
		p.Count = len(p.Genes)
		out = append(out, p)
	}
	return out
}
