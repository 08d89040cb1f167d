package refdb

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// fastaHeaders returns every header line of a FASTA file with the leading
// ">" removed. Sequence lines are skipped.
func fastaHeaders(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var headers []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			headers = append(headers, strings.TrimPrefix(line, ">"))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return headers, nil
}

// tsvRows reads a tab-separated index file and returns its header row and
// data rows. Blank lines are skipped; short rows are kept as-is and
// handled by the callers through cell().
func tsvRows(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if header == nil {
			for i := range fields {
				fields[i] = strings.TrimSpace(fields[i])
			}
			header = fields
			continue
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", path, err)
	}
	if header == nil {
		return nil, nil, fmt.Errorf("empty index file %s", path)
	}
	return header, rows, nil
}

// columnIndex finds a named column in a header row, or -1.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// cell returns the trimmed value at column idx, or fallback when the
// column is absent, out of range, or empty.
func cell(row []string, idx int, fallback string) string {
	if idx < 0 || idx >= len(row) {
		return fallback
	}
	v := strings.TrimSpace(row[idx])
	if v == "" {
		return fallback
	}
	return v
}
