package main

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/VictorCaricatte/panvita/internal/config"
	"github.com/VictorCaricatte/panvita/internal/hits"
	"github.com/VictorCaricatte/panvita/internal/pipeline"
	"github.com/VictorCaricatte/panvita/internal/refdb"
	"github.com/VictorCaricatte/panvita/internal/report"
)

func newMatrixCmd() *cobra.Command {
	var dbName string
	var dbDir string
	var outPath string

	cmd := &cobra.Command{
		Use:   "matrix <filtered-hit-file>...",
		Short: "Build the presence matrix from already-filtered hits",
		Long: `Resolve pre-filtered hit files against one reference database and
write only the presence/identity matrix. No thresholds are applied;
use run for the full filter-and-report path.`,
		Example: `  panvita matrix --db card --db-dir db/ -o card_matrix.csv filtered/*.tab`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromViper(viper.GetViper())
			if err != nil {
				return err
			}
			return runMatrix(cmd, cfg, dbName, dbDir, outPath, args)
		},
	}

	cmd.Flags().StringVar(&dbName, "db", "", "database: "+kindList())
	cmd.Flags().StringVar(&dbDir, "db-dir", ".", "directory holding the database files")
	cmd.Flags().StringVarP(&outPath, "out", "o", "matrix.csv", "output matrix file")
	cmd.MarkFlagRequired("db")
	return cmd
}

func runMatrix(cmd *cobra.Command, cfg config.Config, dbName, dbDir, outPath string, hitFiles []string) error {
	kind, err := refdb.ParseKind(dbName)
	if err != nil {
		return err
	}

	am, err := refdb.Load(kind, dbDir, logger)
	if err != nil {
		return fmt.Errorf("load %s: %w", kind, err)
	}

	genomes := make([]pipeline.GenomeHits, 0, len(hitFiles))
	for _, path := range hitFiles {
		genomes = append(genomes, pipeline.GenomeHits{Genome: genomeName(path), Path: path})
	}

	// Inputs are already filtered, so every parseable row is kept.
	m, stats, err := pipeline.Run(cmd.Context(), am, genomes, pipeline.Options{
		Thresholds: hits.Thresholds{EValue: math.Inf(1)},
		Workers:    cfg.Workers,
	}, logger)
	if err != nil {
		return err
	}
	if m.Empty() {
		logger.Warn("no resolvable genes in input")
	}
	if stats.Unresolved > 0 {
		logger.Info("dropped unresolved hits", zap.Int("unresolved", stats.Unresolved))
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()
	if err := report.WriteMatrix(f, m); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	logger.Info("matrix written", zap.String("path", outPath),
		zap.Int("genomes", len(m.Genomes())), zap.Int("genes", len(m.Genes())))
	return nil
}
