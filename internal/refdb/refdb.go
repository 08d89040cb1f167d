// Package refdb parses curated reference databases into annotation maps
// and resolves aligner subject identifiers to canonical gene names.
package refdb

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Kind names one supported reference database family. Each family has its
// own FASTA header grammar and, for some, a paired tabular index file.
type Kind string

const (
	BacMet    Kind = "bacmet"
	CARD      Kind = "card"
	VFDB      Kind = "vfdb"
	MEGARes   Kind = "megares"
	ResFinder Kind = "resfinder"
	ARGANNOT  Kind = "argannot"
)

// Kinds lists the supported database families in a stable order.
func Kinds() []Kind {
	return []Kind{BacMet, CARD, VFDB, MEGARes, ResFinder, ARGANNOT}
}

// ParseKind converts a user-supplied database name into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimPrefix(s, "-")))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown reference database %q", s)
}

// Nucleotide reports whether the database stores nucleotide rather than
// protein sequences, which selects the aligner's sequence-type argument.
// ARG-ANNOT is distributed here as its amino-acid variant and aligns as
// protein.
func (k Kind) Nucleotide() bool {
	switch k {
	case MEGARes, ResFinder:
		return true
	}
	return false
}

// AttrLabels returns the report column labels for the database's primary
// and secondary classification attributes.
func (k Kind) AttrLabels() (string, string) {
	switch k {
	case BacMet:
		return "Compound", "Description"
	case CARD:
		return "Drug_Class", "Resistance_Mechanism"
	case VFDB:
		return "Mechanism", "VF_Category"
	case MEGARes:
		return "Drug_Class", "Mechanism"
	case ResFinder:
		return "Resistance_Type", "Phenotype_Mechanism"
	case ARGANNOT:
		return "Antibiotic_Class", "Mechanism"
	}
	return "Attr1", "Attr2"
}

// Map holds the three parallel mappings built from one reference database:
// sequence identifier to canonical gene name, gene name to primary
// attribute, and gene name to secondary attribute. A Map is read-only once
// built and safe for concurrent readers.
type Map struct {
	kind     Kind
	idToGene map[string]string
	idOrder  []string // insertion order of idToGene keys
	attr1    map[string]string
	attr2    map[string]string

	// subjectHook runs before the generic fallback chain for databases
	// whose aligner subject identifiers are themselves compound keys.
	subjectHook func(m *Map, subject string) (string, bool)
}

// NewMap returns an empty annotation map for a database family. The
// standard families are built with Load; NewMap is the entry point for
// custom databases assembled by the caller.
func NewMap(kind Kind) *Map {
	return &Map{
		kind:     kind,
		idToGene: make(map[string]string),
		attr1:    make(map[string]string),
		attr2:    make(map[string]string),
	}
}

// Kind returns the database family this map was built from.
func (m *Map) Kind() Kind { return m.kind }

// Len returns the number of identifier mappings.
func (m *Map) Len() int { return len(m.idToGene) }

// Genes returns the number of genes with at least one attribute.
func (m *Map) Genes() int { return len(m.attr1) }

// AddID records one identifier variant for a gene. The first occurrence of
// an identifier fixes its position in the substring-fallback scan order.
func (m *Map) AddID(id, gene string) {
	if _, seen := m.idToGene[id]; !seen {
		m.idOrder = append(m.idOrder, id)
	}
	m.idToGene[id] = gene
}

// SetAttrs records the classification attributes for a gene. Later
// duplicates overwrite earlier ones; databases define exactly one value
// per gene, so repeated writes are idempotent.
func (m *Map) SetAttrs(gene, a1, a2 string) {
	m.attr1[gene] = a1
	m.attr2[gene] = a2
}

// Gene returns the canonical gene name for an exact identifier match.
func (m *Map) Gene(id string) (string, bool) {
	g, ok := m.idToGene[id]
	return g, ok
}

// Attr1 returns the primary classification attribute for a gene, or
// "Unknown" when the database did not define one.
func (m *Map) Attr1(gene string) string {
	if v, ok := m.attr1[gene]; ok && v != "" {
		return v
	}
	return "Unknown"
}

// Attr2 returns the secondary classification attribute for a gene, or
// "Unknown" when the database did not define one.
func (m *Map) Attr2(gene string) string {
	if v, ok := m.attr2[gene]; ok && v != "" {
		return v
	}
	return "Unknown"
}

// Resolve maps an aligner-reported subject identifier to a gene name.
// The fallback order is fixed: an exact match, then the identifier with
// its trailing version suffix stripped, then a substring containment scan
// over all known identifiers in insertion order. The scan order must stay
// deterministic; identifiers that are substrings of each other would
// otherwise resolve nondeterministically.
func (m *Map) Resolve(subject string) (string, bool) {
	if m.subjectHook != nil {
		if gene, ok := m.subjectHook(m, subject); ok {
			return gene, true
		}
	}

	if gene, ok := m.idToGene[subject]; ok {
		return gene, true
	}

	if stripped := stripVersion(subject); stripped != subject {
		if gene, ok := m.idToGene[stripped]; ok {
			return gene, true
		}
	}

	for _, id := range m.idOrder {
		if strings.Contains(subject, id) {
			return m.idToGene[id], true
		}
	}

	return "", false
}

// stripVersion removes a trailing numeric version suffix from an
// accession, e.g. "ACT97415.1" -> "ACT97415". Identifiers whose final
// dot-separated element is not numeric are returned unchanged.
func stripVersion(id string) string {
	idx := strings.LastIndex(id, ".")
	if idx <= 0 || idx == len(id)-1 {
		return id
	}
	for _, r := range id[idx+1:] {
		if r < '0' || r > '9' {
			return id
		}
	}
	return id[:idx]
}

// Load builds the annotation map for a database family from its native
// files under dir. Missing tabular index files degrade gracefully: the
// map is built from the sequence file alone and downstream consumers see
// "Unknown" attributes.
func Load(kind Kind, dir string, logger *zap.Logger) (*Map, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch kind {
	case BacMet:
		return loadBacMet(dir, logger)
	case CARD:
		return loadCARD(dir, logger)
	case VFDB:
		return loadVFDB(dir, logger)
	case MEGARes:
		return loadMEGARes(dir, logger)
	case ResFinder:
		return loadResFinder(dir, logger)
	case ARGANNOT:
		return loadARGANNOT(dir, logger)
	}
	return nil, fmt.Errorf("unknown reference database %q", kind)
}
