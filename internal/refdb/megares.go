package refdb

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const megaresFASTA = "megares_v3.fasta"

// loadMEGARes parses the nucleotide antimicrobial-resistance database.
// Headers are pipe-delimited with at least five fields:
//
//	>MEG_1|Drugs|Aminoglycosides|Aminoglycoside-resistant_16S_ribosomal_subunit_protein|A16S|RequiresSNPConfirmation
//
// Field 0 is the identifier, field 2 the drug class, field 3 the
// mechanism, field 4 the gene name.
func loadMEGARes(dir string, logger *zap.Logger) (*Map, error) {
	m := NewMap(MEGARes)
	m.subjectHook = megaresSubject

	headers, err := fastaHeaders(filepath.Join(dir, megaresFASTA))
	if err != nil {
		return nil, fmt.Errorf("read MEGARes sequence file: %w", err)
	}
	for _, h := range headers {
		parts := strings.Split(h, "|")
		if len(parts) < 5 {
			continue
		}
		gene := strings.TrimSpace(parts[4])
		if gene == "" {
			continue
		}
		m.AddID(strings.TrimSpace(parts[0]), gene)
		m.SetAttrs(gene, strings.TrimSpace(parts[2]), strings.TrimSpace(parts[3]))
	}

	if m.Len() == 0 {
		logger.Warn("no gene mappings parsed from MEGARes sequence file",
			zap.String("path", filepath.Join(dir, megaresFASTA)))
	}
	return m, nil
}

// megaresSubject resolves MEGARes subject identifiers, which are the full
// pipe-delimited headers. The MEG accession (field 0) is tried against the
// map first; when it is unknown the gene name embedded in field 4 of the
// subject itself is used directly.
func megaresSubject(m *Map, subject string) (string, bool) {
	if !strings.Contains(subject, "MEG_") || !strings.Contains(subject, "|") {
		return "", false
	}
	parts := strings.Split(subject, "|")
	if len(parts) < 5 {
		return "", false
	}
	if gene, ok := m.idToGene[parts[0]]; ok {
		return gene, true
	}
	if gene := strings.TrimSpace(parts[4]); gene != "" {
		return gene, true
	}
	return "", false
}
