// Package hits parses and filters tab-separated alignment hit files.
package hits

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Fixed column positions of the aligner's tabular output.
const (
	colQuery    = 0
	colSubject  = 1
	colIdentity = 2
	colCoverage = 3
	colEValue   = 10
)

// Row is one alignment hit between a query locus tag and a reference
// database subject.
type Row struct {
	Query    string
	Subject  string
	Identity float64
	Coverage float64
	EValue   float64
}

// Thresholds holds the cutoffs applied to raw hits. Thresholds are passed
// explicitly; components never read them from ambient process state.
type Thresholds struct {
	Identity float64
	Coverage float64
	EValue   float64
}

// DefaultThresholds returns the standard cutoffs: 70% identity, 70%
// coverage, e-value at most 5e-06.
func DefaultThresholds() Thresholds {
	return Thresholds{Identity: 70, Coverage: 70, EValue: 5e-06}
}

// Keep reports whether a hit passes all three cutoffs.
func (t Thresholds) Keep(r Row) bool {
	return r.EValue <= t.EValue && r.Identity >= t.Identity && r.Coverage >= t.Coverage
}

// Parse reads tab-separated hit rows. Rows need at least query, subject
// and identity; coverage and e-value are taken when the row is wide
// enough. Malformed rows are skipped, not fatal.
func Parse(r io.Reader) ([]Row, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var rows []Row
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) <= colIdentity {
			continue
		}

		identity, err := strconv.ParseFloat(strings.TrimSpace(fields[colIdentity]), 64)
		if err != nil {
			continue
		}

		row := Row{
			Query:    fields[colQuery],
			Subject:  fields[colSubject],
			Identity: identity,
		}
		if len(fields) > colCoverage {
			row.Coverage, _ = strconv.ParseFloat(strings.TrimSpace(fields[colCoverage]), 64)
		}
		if len(fields) > colEValue {
			row.EValue, _ = strconv.ParseFloat(strings.TrimSpace(fields[colEValue]), 64)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan hit rows: %w", err)
	}
	return rows, nil
}

// ParseFile reads hit rows from a file.
func ParseFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hit file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Filter returns the rows that pass the thresholds.
func Filter(rows []Row, t Thresholds) []Row {
	var kept []Row
	for _, r := range rows {
		if t.Keep(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

// WriteRows writes rows back out in the aligner's tabular column order,
// so that filtered files remain valid input for downstream stages.
func WriteRows(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		_, err := fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t.\t.\t.\t.\t.\t.\t%s\t.\n",
			r.Query, r.Subject,
			strconv.FormatFloat(r.Identity, 'f', -1, 64),
			strconv.FormatFloat(r.Coverage, 'f', -1, 64),
			strconv.FormatFloat(r.EValue, 'g', -1, 64))
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
