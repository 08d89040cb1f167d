package refdb

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const argannotFASTA = "argannot.fasta"

var argannotHeaderRe = regexp.MustCompile(`^\((.*?)\)(.*)`)

// argannotClasses expands the parenthesised class code of an ARG-ANNOT
// header into its mechanism name.
var argannotClasses = map[string]string{
	"Bla":  "Beta-Lactam",
	"Tet":  "Tetracycline",
	"AGly": "Aminoglycoside",
	"MLS":  "Macrolide",
	"Phe":  "Phenicol",
	"Sul":  "Sulfonamide",
	"Dfr":  "Trimethoprim",
	"Qui":  "Quinolone",
	"Gly":  "Glycopeptide",
}

// loadARGANNOT parses the ARG-ANNOT resistance database. Headers start
// with the antibiotic class in parentheses, then the gene name up to the
// first colon:
//
//	>(Bla)blaTEM-1:AF188200:1-861:861
func loadARGANNOT(dir string, logger *zap.Logger) (*Map, error) {
	m := NewMap(ARGANNOT)

	headers, err := fastaHeaders(filepath.Join(dir, argannotFASTA))
	if err != nil {
		return nil, fmt.Errorf("read ARG-ANNOT sequence file: %w", err)
	}

	for _, h := range headers {
		words := strings.Fields(h)
		if len(words) == 0 {
			continue
		}
		id := words[0]

		class := "Unknown"
		gene := id
		if match := argannotHeaderRe.FindStringSubmatch(id); match != nil {
			class = match[1]
			gene = match[2]
		}
		gene, _, _ = strings.Cut(gene, ":")
		if gene == "" {
			continue
		}

		mechanism, ok := argannotClasses[class]
		if !ok {
			mechanism = class + " Resistance"
		}

		m.AddID(id, gene)
		m.SetAttrs(gene, class, mechanism)
	}

	if m.Len() == 0 {
		logger.Warn("no gene mappings parsed from ARG-ANNOT sequence file",
			zap.String("path", filepath.Join(dir, argannotFASTA)))
	}
	return m, nil
}
