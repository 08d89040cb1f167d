// Package genbank extracts protein sequences and CDS coordinates from
// annotated-genome flat files.
package genbank

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// ProteinRecord is one translated coding sequence taken from a genome
// annotation file. LocusTag is unique within one genome.
type ProteinRecord struct {
	LocusTag string
	Product  string
	Sequence string
}

// CoordinateEntry is the genome-relative span of one CDS. Coordinates are
// contiguous across contigs: every CONTIG directive seen before the CDS
// adds that contig's length to Start and End.
type CoordinateEntry struct {
	LocusTag string
	Start    int
	End      int
}

// ReadLines reads a flat file into memory, transparently decompressing
// .gz files. Annotation files are scanned with back-references between
// lines, so the whole file is materialized up front.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open genome file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return scanLines(reader)
}

func scanLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan genome file: %w", err)
	}
	return lines, nil
}

// WriteFASTA writes protein records in FASTA form, one sequence line per
// record, headers keyed by locus tag so downstream hit files join back to
// the coordinate table.
func WriteFASTA(w io.Writer, records []ProteinRecord) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := fmt.Fprintf(bw, ">%s %s\n%s\n", rec.LocusTag, rec.Product, rec.Sequence); err != nil {
			return err
		}
	}
	return bw.Flush()
}
