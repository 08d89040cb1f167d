package refdb

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	cardFASTA = "card_protein_homolog_model.fasta"
	cardIndex = "aro_index.tsv"
)

// loadCARD parses the antibiotic-resistance ontology database. Headers are
// ARO-style pipe-delimited:
//
//	>gb|ACT97415.1|ARO:3002999|CblA-1 [mixed culture bacterium AX_gF3SD01_15]
//
// Field 1 is the accession, the first token of field 3 the gene name. Drug
// class and resistance mechanism come from aro_index.tsv, joined by the
// ARO gene name.
func loadCARD(dir string, logger *zap.Logger) (*Map, error) {
	m := NewMap(CARD)

	headers, err := fastaHeaders(filepath.Join(dir, cardFASTA))
	if err != nil {
		return nil, fmt.Errorf("read CARD sequence file: %w", err)
	}
	for _, h := range headers {
		parts := strings.Split(h, "|")
		if len(parts) < 4 {
			continue
		}
		fields := strings.Fields(parts[3])
		if len(fields) == 0 {
			continue
		}
		m.AddID(strings.TrimSpace(parts[1]), fields[0])
	}

	indexPath := filepath.Join(dir, cardIndex)
	header, rows, err := tsvRows(indexPath)
	if err != nil {
		logger.Warn("CARD annotation index unavailable, attributes degrade to Unknown",
			zap.String("path", indexPath), zap.Error(err))
		return m, nil
	}

	nameCol := columnIndex(header, "ARO Name")
	drugCol := columnIndex(header, "Drug Class")
	mechCol := columnIndex(header, "Resistance Mechanism")
	for _, row := range rows {
		gene := cell(row, nameCol, "")
		if gene == "" {
			continue
		}
		m.SetAttrs(gene,
			cell(row, drugCol, "Unknown"),
			cell(row, mechCol, "Unknown"))
	}

	return m, nil
}
