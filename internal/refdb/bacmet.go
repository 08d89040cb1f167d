package refdb

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	bacmetFASTA = "bacmet_2.fasta"
	bacmetIndex = "bacmet_2.txt"
)

// loadBacMet parses the biocide/metal resistance database. Headers are
// pipe-delimited with a fixed field count:
//
//	>BAC0001|abeM|tr|Q5FAM9|Q5FAM9_ACIBA
//
// Field 0 is the identifier, field 1 the gene name. Compound and
// description come from the external tab-separated index, joined by gene
// name.
func loadBacMet(dir string, logger *zap.Logger) (*Map, error) {
	m := NewMap(BacMet)

	headers, err := fastaHeaders(filepath.Join(dir, bacmetFASTA))
	if err != nil {
		return nil, fmt.Errorf("read BacMet sequence file: %w", err)
	}
	for _, h := range headers {
		parts := strings.Split(h, "|")
		if len(parts) < 2 {
			continue
		}
		m.AddID(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}

	indexPath := filepath.Join(dir, bacmetIndex)
	header, rows, err := tsvRows(indexPath)
	if err != nil {
		logger.Warn("BacMet annotation index unavailable, attributes degrade to Unknown",
			zap.String("path", indexPath), zap.Error(err))
		return m, nil
	}

	geneCol := columnIndex(header, "Gene_name")
	compoundCol := columnIndex(header, "Compound")
	descCol := columnIndex(header, "Description")
	for _, row := range rows {
		gene := cell(row, geneCol, "")
		if gene == "" {
			continue
		}
		m.SetAttrs(gene,
			cell(row, compoundCol, "Unknown"),
			cell(row, descCol, "Biocide/Metal Resistance"))
	}

	return m, nil
}
