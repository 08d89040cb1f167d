// Package pipeline drives the per-genome analysis fan-out: filter each
// genome's raw hit file, resolve subjects against the reference database
// and merge the surviving hits into the presence/identity matrix.
package pipeline

import (
	"context"
	"os"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/VictorCaricatte/panvita/internal/hits"
	"github.com/VictorCaricatte/panvita/internal/matrix"
	"github.com/VictorCaricatte/panvita/internal/refdb"
)

// GenomeHits names one genome and the raw tabular hit file produced for
// it by the aligner.
type GenomeHits struct {
	Genome string
	Path   string
}

// Options controls a pipeline run.
type Options struct {
	Thresholds hits.Thresholds
	// Workers is the number of genomes processed concurrently.
	// Zero means runtime.NumCPU().
	Workers int
}

// Stats summarizes what a run kept and dropped.
type Stats struct {
	Genomes        int
	SkippedGenomes int // hit files that could not be read
	RawHits        int
	KeptHits       int
	Unresolved     int // kept hits whose subject matched no database entry
}

// workItem is one genome queued for processing.
type workItem struct {
	seq    int
	genome GenomeHits
}

// workResult is the per-genome partial produced by a worker.
type workResult struct {
	seq     int
	genome  string
	partial *matrix.GenomeResult
	stats   Stats
	err     error
}

// Run processes all genomes against one annotation map and returns the
// frozen matrix. Every named genome gets a matrix row even when its hit
// file is missing or yields nothing; unreadable files are logged and
// counted, not fatal.
func Run(ctx context.Context, am *refdb.Map, genomes []GenomeHits, opts Options, logger *zap.Logger) (*matrix.Matrix, Stats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(genomes) && len(genomes) > 0 {
		workers = len(genomes)
	}

	b := matrix.NewBuilder()
	for _, g := range genomes {
		b.AddGenome(g.Genome)
	}

	items := make(chan workItem)
	results := make(chan workResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				results <- processGenome(item, am, opts.Thresholds, logger)
			}
		}()
	}

	go func() {
		defer close(items)
		for i, g := range genomes {
			select {
			case items <- workItem{seq: i, genome: g}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	total := Stats{Genomes: len(genomes)}
	// Collect in sequence order so stats and log lines are stable
	// regardless of worker scheduling.
	pending := make(map[int]workResult)
	nextSeq := 0
	for r := range results {
		pending[r.seq] = r
		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++

			if rr.err != nil {
				total.SkippedGenomes++
				logger.Warn("skipping genome, hit file unreadable",
					zap.String("genome", rr.genome), zap.Error(rr.err))
				continue
			}
			total.RawHits += rr.stats.RawHits
			total.KeptHits += rr.stats.KeptHits
			total.Unresolved += rr.stats.Unresolved
			if rr.partial != nil {
				b.Merge(rr.partial)
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, total, err
	}

	return b.Freeze(), total, nil
}

// processGenome filters one genome's hits and resolves them into a
// matrix partial.
func processGenome(item workItem, am *refdb.Map, t hits.Thresholds, logger *zap.Logger) workResult {
	res := workResult{seq: item.seq, genome: item.genome.Genome}

	if _, err := os.Stat(item.genome.Path); err != nil {
		res.err = err
		return res
	}
	rows, err := hits.ParseFile(item.genome.Path)
	if err != nil {
		res.err = err
		return res
	}
	res.stats.RawHits = len(rows)

	partial := matrix.NewGenomeResult(item.genome.Genome)
	for _, row := range hits.Filter(rows, t) {
		res.stats.KeptHits++
		gene, ok := am.Resolve(row.Subject)
		if !ok {
			res.stats.Unresolved++
			logger.Debug("unresolved subject",
				zap.String("genome", item.genome.Genome), zap.String("subject", row.Subject))
			continue
		}
		partial.Record(gene, row.Query, row.Identity)
	}
	res.partial = partial
	return res
}
