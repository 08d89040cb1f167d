package refdb

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const vfdbFASTA = "vfdb_core.fasta"

var vfdbBracketRe = regexp.MustCompile(`\[(.*?)\]`)

// loadVFDB parses the virulence-factor database. Headers carry the
// annotation inside brackets and the identifiers in parentheses:
//
//	>VFG037176(gb|WP_001081735) (plc1) phospholipase C [Phospholipase C (VF0470) - Exotoxin (VFC0235)] [Acinetobacter baumannii ACICU]
//
// The identifier is the token inside the first parenthesis pair (after a
// pipe the last segment), the gene name the token inside the second pair.
// Mechanism and category come from the ") - (" bracket expression; headers
// without one degrade to Unknown.
func loadVFDB(dir string, logger *zap.Logger) (*Map, error) {
	m := NewMap(VFDB)

	headers, err := fastaHeaders(filepath.Join(dir, vfdbFASTA))
	if err != nil {
		return nil, fmt.Errorf("read VFDB sequence file: %w", err)
	}

	for _, h := range headers {
		id, gene, ok := vfdbIdentifiers(h)
		if !ok {
			continue
		}
		mech, category := vfdbAnnotation(h)
		m.AddID(id, gene)
		m.SetAttrs(gene, mech, category)
	}

	if m.Len() == 0 {
		logger.Warn("no gene mappings parsed from VFDB sequence file",
			zap.String("path", filepath.Join(dir, vfdbFASTA)))
	}
	return m, nil
}

// vfdbIdentifiers extracts the sequence identifier and gene name from the
// parenthesised tokens of a VFDB header.
func vfdbIdentifiers(h string) (id, gene string, ok bool) {
	open := strings.Index(h, "(")
	if open == -1 {
		return "", "", false
	}
	closing := strings.Index(h[open+1:], ")")
	if closing == -1 {
		return "", "", false
	}
	closing += open + 1

	id = h[open+1 : closing]
	if idx := strings.LastIndex(id, "|"); idx != -1 {
		id = id[idx+1:]
	}
	if id == "" {
		return "", "", false
	}

	gene = id
	if second := strings.Index(h[closing:], "("); second != -1 {
		second += closing
		if end := strings.Index(h[second:], ")"); end != -1 {
			gene = h[second+1 : second+end]
		}
	}
	return id, gene, true
}

// vfdbAnnotation pulls mechanism and virulence-factor category from the
// bracket expression "[Mechanism (VFxxxx) - Category (VFCxxxx)]".
func vfdbAnnotation(h string) (mech, category string) {
	mech, category = "Unknown", "Unknown"
	for _, match := range vfdbBracketRe.FindAllStringSubmatch(h, -1) {
		content := match[1]
		if !strings.Contains(content, " - ") || !strings.Contains(content, "VF") {
			continue
		}
		parts := strings.SplitN(content, " - ", 2)
		mech = trimParenSuffix(parts[0])
		category = trimParenSuffix(parts[1])
		return mech, category
	}
	return mech, category
}

// trimParenSuffix drops a trailing " (...)" qualifier from a bracket part.
func trimParenSuffix(s string) string {
	if idx := strings.Index(s, " ("); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
