package genbank

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLocation parses a CDS location operand in any of its four forms:
// "A..B", "complement(A..B)", "join(A..B,C..D,...)" and
// "complement(join(...))". Multi-segment joins collapse to the first
// sub-range, and partial-feature markers (< and >) are ignored.
func ParseLocation(operand string) (start, end int, err error) {
	s := operand
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	s = strings.ReplaceAll(s, "complement(", "")
	s = strings.ReplaceAll(s, "join(", "")
	s = strings.ReplaceAll(s, ")", "")
	s = strings.TrimSpace(s)

	start, end, err = splitRange(s)
	if err != nil {
		return 0, 0, fmt.Errorf("parse location %q: %w", operand, err)
	}
	if start > end {
		start, end = end, start
	}
	return start, end, nil
}

// splitRange extracts the numeric span from a stripped range expression.
// The primary strategy splits on ".."; when join() ranges leave an extra
// comma-separated element in the way, it falls back to splitting the first
// comma-separated element only.
func splitRange(s string) (int, int, error) {
	parts := strings.Split(s, "..")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("no range separator in %q", s)
	}

	first := parts[0]
	if head, _, found := strings.Cut(first, ","); found {
		first = head
	}
	start, err := strconv.Atoi(first)
	if err != nil {
		return 0, 0, fmt.Errorf("parse range start: %w", err)
	}

	if end, err := strconv.Atoi(parts[1]); err == nil {
		return start, end, nil
	}

	// Alternate split: keep only the first sub-range.
	head, _, _ := strings.Cut(s, ",")
	headParts := strings.Split(head, "..")
	if len(headParts) < 2 {
		return 0, 0, fmt.Errorf("no range separator in %q", head)
	}
	end, err := strconv.Atoi(headParts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parse range end: %w", err)
	}
	return start, end, nil
}

// contigLength reads the contig length from a CONTIG directive's trailing
// range operand, e.g. "CONTIG      join(CM000001.1:1..54321)".
func contigLength(line string) (int, error) {
	s := strings.TrimSpace(line)
	s = strings.ReplaceAll(s, ")", "")
	parts := strings.Split(s, "..")
	if len(parts) < 2 {
		return 0, fmt.Errorf("no range in CONTIG directive %q", line)
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, fmt.Errorf("parse contig length: %w", err)
	}
	return n, nil
}
