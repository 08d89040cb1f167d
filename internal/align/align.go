// Package align defines the contract between the analysis pipeline and
// the external sequence aligners that produce raw tabular hits. The
// pipeline consumes alignment output files; producing them is delegated
// to a Runner implementation supplied by the caller.
package align

import (
	"context"
	"errors"
	"strconv"
)

// Tool identifies an aligner implementation.
type Tool string

const (
	Diamond Tool = "diamond" // protein vs protein, default
	BLAST   Tool = "blast"   // nucleotide databases
)

// SeqType is the sequence space a database is aligned in.
type SeqType string

const (
	Protein    SeqType = "protein"
	Nucleotide SeqType = "nucleotide"
)

// Request describes one alignment job: a query FASTA aligned against a
// prepared reference database, with tabular output written to OutputPath.
type Request struct {
	Tool         Tool
	SeqType      SeqType
	QueryPath    string // extracted .faa or .fna for one genome
	DatabasePath string // formatted reference database
	OutputPath   string // 12-column tabular hit file to create
	Threads      int    // 0 means the runner picks
}

// outFmtColumns is the tabular column layout every aligner is asked to
// emit. Downstream parsing depends on these positions.
var outFmtColumns = []string{
	"qseqid", "sseqid", "pident", "qcovhsp", "mismatch", "gapopen",
	"qstart", "qend", "sstart", "send", "evalue", "bitscore",
}

// OutFmt returns the tabular column layout as one space-joined spec, the
// form both aligners accept after their format-6 marker.
func OutFmt() string {
	s := "6"
	for _, c := range outFmtColumns {
		s += " " + c
	}
	return s
}

// ErrNucleotideUnsupported is returned when a tool cannot align against
// a database's sequence space, e.g. diamond against a nucleotide
// database.
var ErrNucleotideUnsupported = errors.New("aligner does not support nucleotide databases")

// Args returns the fixed argument set for the request, excluding the
// executable name. The argument grammar differs per tool but the output
// format and single-best-hit behavior are pinned in both.
func (r Request) Args() ([]string, error) {
	switch r.Tool {
	case Diamond:
		if r.SeqType == Nucleotide {
			return nil, ErrNucleotideUnsupported
		}
		args := []string{
			"blastp",
			"-q", r.QueryPath,
			"-d", r.DatabasePath,
			"-o", r.OutputPath,
			"--quiet", "-k", "1", "-e", "5e-6",
			"-f", OutFmt(),
		}
		if r.Threads > 0 {
			args = append(args, "-p", strconv.Itoa(r.Threads))
		}
		return args, nil
	case BLAST:
		args := []string{
			"-query", r.QueryPath,
			"-db", r.DatabasePath,
			"-out", r.OutputPath,
			"-max_target_seqs", "1",
			"-evalue", "5e-6",
			"-outfmt", OutFmt(),
		}
		if r.Threads > 0 {
			args = append(args, "-num_threads", strconv.Itoa(r.Threads))
		}
		return args, nil
	}
	return nil, errors.New("unknown aligner " + string(r.Tool))
}

// Command returns the program name for the request: diamond runs as one
// binary with a subcommand, blast selects blastp or tblastn by the
// database's sequence space.
func (r Request) Command() string {
	if r.Tool == Diamond {
		return "diamond"
	}
	if r.SeqType == Nucleotide {
		return "tblastn"
	}
	return "blastp"
}

// Runner executes alignment jobs. Implementations wrap an external
// binary or a remote service; the pipeline only depends on the tabular
// file appearing at Request.OutputPath.
type Runner interface {
	Align(ctx context.Context, req Request) error
}

// Installer locates prepared reference databases on disk, fetching or
// formatting them first when an implementation supports that.
type Installer interface {
	// DatabasePath returns the path of the formatted database for the
	// named reference family, ready to be passed in a Request.
	DatabasePath(ctx context.Context, name string) (string, error)
}
