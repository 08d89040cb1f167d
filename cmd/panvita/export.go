package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VictorCaricatte/panvita/internal/refdb"
	"github.com/VictorCaricatte/panvita/internal/report"
	"github.com/VictorCaricatte/panvita/internal/store"
)

func newExportCmd() *cobra.Command {
	var dbName string
	var dbDir string
	var storePath string

	cmd := &cobra.Command{
		Use:   "export <matrix-file>",
		Short: "Persist a matrix file into the DuckDB result store",
		Long: `Read a previously written presence matrix and store it as a run in
the DuckDB result database. Passing --db-dir loads the reference
database so stored rows carry its classification attributes; without
it the attributes default to Unknown.`,
		Example: `  panvita export --db card --store results.duckdb card_matrix.csv
  panvita export --db card --db-dir db/ --store results.duckdb card_matrix.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(dbName, dbDir, storePath, args[0])
		},
	}

	cmd.Flags().StringVar(&dbName, "db", "", "database: "+kindList())
	cmd.Flags().StringVar(&dbDir, "db-dir", "", "directory holding the database files (optional)")
	cmd.Flags().StringVar(&storePath, "store", "results.duckdb", "DuckDB file to write into")
	cmd.MarkFlagRequired("db")
	return cmd
}

func runExport(dbName, dbDir, storePath, matrixPath string) error {
	kind, err := refdb.ParseKind(dbName)
	if err != nil {
		return err
	}

	var am *refdb.Map
	if dbDir != "" {
		am, err = refdb.Load(kind, dbDir, logger)
		if err != nil {
			return fmt.Errorf("load %s: %w", kind, err)
		}
	} else {
		am = refdb.NewMap(kind)
	}

	f, err := os.Open(matrixPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", matrixPath, err)
	}
	defer f.Close()

	m, err := report.ReadMatrix(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", matrixPath, err)
	}

	s, err := store.Open(storePath)
	if err != nil {
		return err
	}
	defer s.Close()

	runID, err := s.WriteRun(m, m.Classify(), am)
	if err != nil {
		return fmt.Errorf("persist run: %w", err)
	}

	cells, err := s.CellCount(runID)
	if err != nil {
		return err
	}
	logger.Info("run persisted",
		zap.String("run_id", runID),
		zap.String("path", storePath),
		zap.Int("cells", cells))
	return nil
}
