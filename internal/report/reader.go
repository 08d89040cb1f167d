package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/VictorCaricatte/panvita/internal/matrix"
)

// ReadMatrix parses a semicolon-separated matrix file written by
// WriteMatrix back into a frozen Matrix. Locus-tag detail is not stored
// in the matrix file and is absent from the result.
func ReadMatrix(r io.Reader) (*matrix.Matrix, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("scan matrix header: %w", err)
		}
		return nil, fmt.Errorf("empty matrix file")
	}
	header := strings.Split(scanner.Text(), ";")
	if header[0] != "Strains" {
		return nil, fmt.Errorf("unexpected matrix header %q", header[0])
	}
	genes := header[1:]

	b := matrix.NewBuilder()
	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ";")
		genome := fields[0]
		if len(fields)-1 != len(genes) {
			return nil, fmt.Errorf("line %d: expected %d cells, got %d", lineNum, len(genes), len(fields)-1)
		}

		result := matrix.NewGenomeResult(genome)
		for i, gene := range genes {
			v, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: parse identity for %s: %w", lineNum, gene, err)
			}
			if v > 0 {
				result.Record(gene, "", v)
			}
		}
		b.AddGenome(genome)
		b.Merge(result)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan matrix rows: %w", err)
	}

	return b.Freeze(), nil
}
