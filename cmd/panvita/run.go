package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/VictorCaricatte/panvita/internal/config"
	"github.com/VictorCaricatte/panvita/internal/matrix"
	"github.com/VictorCaricatte/panvita/internal/pipeline"
	"github.com/VictorCaricatte/panvita/internal/refdb"
	"github.com/VictorCaricatte/panvita/internal/report"
	"github.com/VictorCaricatte/panvita/internal/store"
)

func newRunCmd() *cobra.Command {
	var dbName string
	var dbDir string

	cmd := &cobra.Command{
		Use:   "run <hit-file>...",
		Short: "Filter alignment hits and build the pan-genome reports",
		Long: `Filter each genome's raw tabular alignment hits, resolve the
surviving subjects against one reference database and write the
presence matrix, the annotated report and the summary tables. One hit
file per genome; the genome name is the file's base name.`,
		Example: `  panvita run --db card --db-dir db/ hits/*.tab
  panvita run --db vfdb --db-dir db/ --identity 80 -o results hits/*.tab`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromViper(viper.GetViper())
			if err != nil {
				return err
			}
			return runAnalysis(cmd.Context(), cfg, dbName, dbDir, args)
		},
	}

	cmd.Flags().StringVar(&dbName, "db", "", "database: "+kindList())
	cmd.Flags().StringVar(&dbDir, "db-dir", ".", "directory holding the database files")
	cmd.Flags().Float64("identity", config.Default().Identity, "minimum percent identity")
	cmd.Flags().Float64("coverage", config.Default().Coverage, "minimum percent coverage")
	cmd.Flags().Float64("evalue", config.Default().EValue, "maximum e-value")
	cmd.Flags().Int("workers", 0, "concurrent genomes (0 = all CPUs)")
	cmd.Flags().StringP("out", "o", ".", "output directory")
	cmd.Flags().String("store", "", "DuckDB file to persist the run into")
	cmd.MarkFlagRequired("db")

	viper.BindPFlag(config.KeyIdentity, cmd.Flags().Lookup("identity"))
	viper.BindPFlag(config.KeyCoverage, cmd.Flags().Lookup("coverage"))
	viper.BindPFlag(config.KeyEValue, cmd.Flags().Lookup("evalue"))
	viper.BindPFlag(config.KeyWorkers, cmd.Flags().Lookup("workers"))
	viper.BindPFlag(config.KeyOutputDir, cmd.Flags().Lookup("out"))
	viper.BindPFlag(config.KeyStorePath, cmd.Flags().Lookup("store"))

	return cmd
}

func runAnalysis(ctx context.Context, cfg config.Config, dbName, dbDir string, hitFiles []string) error {
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

	m, stats, err := pipeline.Run(ctx, am, genomes, pipeline.Options{
		Thresholds: cfg.Thresholds(),
		Workers:    cfg.Workers,
	}, logger)
	if err != nil {
		return err
	}

	logger.Info("pipeline finished",
		zap.Int("genomes", stats.Genomes),
		zap.Int("skipped_genomes", stats.SkippedGenomes),
		zap.Int("raw_hits", stats.RawHits),
		zap.Int("kept_hits", stats.KeptHits),
		zap.Int("unresolved", stats.Unresolved))

	if err := writeReports(cfg.OutputDir, kind, m, am); err != nil {
		return err
	}

	if cfg.StorePath != "" {
		s, err := store.Open(cfg.StorePath)
		if err != nil {
			return err
		}
		defer s.Close()

		runID, err := s.WriteRun(m, m.Classify(), am)
		if err != nil {
			return fmt.Errorf("persist run: %w", err)
		}
		logger.Info("run persisted", zap.String("run_id", runID), zap.String("path", cfg.StorePath))
	}

	return nil
}

// writeReports writes the matrix and, when any gene survived, the
// annotated report and summary tables. A run with zero resolvable genes
// still records the genome names in the matrix file.
func writeReports(outDir string, kind refdb.Kind, m *matrix.Matrix, am *refdb.Map) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	prefix := string(kind)
	if err := writeFile(outDir, prefix+"_matrix.csv", func(f *os.File) error {
		return report.WriteMatrix(f, m)
	}); err != nil {
		return err
	}

	if m.Empty() {
		logger.Warn("no genes passed filtering and resolution, writing matrix only",
			zap.String("database", prefix))
		return nil
	}

	classes := m.Classify()
	steps := []struct {
		name  string
		write func(*os.File) error
	}{
		{prefix + "_detailed.csv", func(f *os.File) error { return report.WriteDetailed(f, m, classes, am) }},
		{prefix + "_gene_counts.csv", func(f *os.File) error { return report.WriteGeneCounts(f, m) }},
		{prefix + "_strain_counts.csv", func(f *os.File) error { return report.WriteGenomeCounts(f, m) }},
		{prefix + "_pan.csv", func(f *os.File) error { return report.WritePanCurve(f, m) }},
	}
	for _, step := range steps {
		if err := writeFile(outDir, step.name, step.write); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(dir, name string, write func(*os.File) error) error {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Info("report written", zap.String("path", path))
	return nil
}
