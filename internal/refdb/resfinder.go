package refdb

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const resfinderFASTA = "resfinder.fasta"

// loadResFinder parses the acquired-resistance gene database. Headers are
// underscore-delimited, optionally followed by a free-text phenotype:
//
//	>blaTEM-1_1_AB123456 Beta-lactam resistance
//
// The part before the first underscore is the gene name; variant and
// accession follow; the remaining words describe the resistance phenotype.
func loadResFinder(dir string, logger *zap.Logger) (*Map, error) {
	m := NewMap(ResFinder)

	headers, err := fastaHeaders(filepath.Join(dir, resfinderFASTA))
	if err != nil {
		return nil, fmt.Errorf("read ResFinder sequence file: %w", err)
	}

	for _, h := range headers {
		words := strings.Fields(h)
		if len(words) == 0 {
			continue
		}
		id := words[0]
		parts := strings.Split(id, "_")
		gene := parts[0]
		if gene == "" {
			continue
		}

		variant := "Unknown"
		resistance := "Unknown"
		rest := parts[1:]
		switch {
		case len(rest) >= 2:
			variant = rest[0] + " " + rest[1]
			if len(rest) > 2 {
				resistance = strings.Join(rest[2:], " ")
			}
		case len(rest) == 1:
			variant = rest[0]
		}
		if resistance == "Unknown" && len(words) > 1 {
			resistance = strings.Join(words[1:], " ")
		}
		if resistance == "Unknown" {
			resistance = "Unspecified Resistance"
		}

		m.AddID(id, gene)
		m.SetAttrs(gene, resistance, variant)
	}

	if m.Len() == 0 {
		logger.Warn("no gene mappings parsed from ResFinder sequence file",
			zap.String("path", filepath.Join(dir, resfinderFASTA)))
	}
	return m, nil
}
