// Package store persists analysis runs in DuckDB so that matrices and
// annotated hits stay queryable after the run finishes.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/VictorCaricatte/panvita/internal/matrix"
	"github.com/VictorCaricatte/panvita/internal/refdb"
)

// Store manages a DuckDB connection holding analysis results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id VARCHAR PRIMARY KEY,
			database_kind VARCHAR,
			created_at TIMESTAMP,
			genome_count INTEGER,
			gene_count INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS matrix_cells (
			run_id VARCHAR,
			genome VARCHAR,
			gene VARCHAR,
			identity DOUBLE,
			category VARCHAR,
			PRIMARY KEY (run_id, genome, gene)
		)`,
		`CREATE TABLE IF NOT EXISTS report_rows (
			run_id VARCHAR,
			genome VARCHAR,
			gene VARCHAR,
			identity DOUBLE,
			category VARCHAR,
			attr1 VARCHAR,
			attr2 VARCHAR
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RunInfo describes one stored analysis run.
type RunInfo struct {
	RunID   string
	Kind    refdb.Kind
	Created time.Time
	Genomes int
	Genes   int
}

// WriteRun stores one frozen matrix with its classification and database
// attributes, and returns the generated run identifier. Only cells with
// identity > 0 are written; absence is implied by the run's genome list
// in the runs table.
func (s *Store) WriteRun(m *matrix.Matrix, classes map[string]matrix.Class, am *refdb.Map) (string, error) {
	runID := uuid.NewString()

	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, database_kind, created_at, genome_count, gene_count) VALUES (?, ?, ?, ?, ?)`,
		runID, string(am.Kind()), time.Now().UTC(), len(m.Genomes()), len(m.Genes()))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return "", fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if err := appendCells(conn, "matrix_cells", func(app *goduckdb.Appender) error {
		for _, genome := range m.Genomes() {
			for _, gene := range m.Genes() {
				identity := m.Identity(genome, gene)
				if identity == 0 {
					continue
				}
				if err := app.AppendRow(runID, genome, gene, identity, string(classes[gene])); err != nil {
					return fmt.Errorf("append matrix cell: %w", err)
				}
			}
		}
		return nil
	}); err != nil {
		return "", err
	}

	if err := appendCells(conn, "report_rows", func(app *goduckdb.Appender) error {
		for _, genome := range m.Genomes() {
			for _, gene := range m.Genes() {
				identity := m.Identity(genome, gene)
				if identity == 0 {
					continue
				}
				err := app.AppendRow(runID, genome, gene, identity,
					string(classes[gene]), am.Attr1(gene), am.Attr2(gene))
				if err != nil {
					return fmt.Errorf("append report row: %w", err)
				}
			}
		}
		return nil
	}); err != nil {
		return "", err
	}

	return runID, nil
}

// appendCells batch-inserts into one table using the Appender API.
func appendCells(conn *sql.Conn, table string, fill func(*goduckdb.Appender) error) error {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create %s appender: %w", table, err)
	}
	defer appender.Close()

	if err := fill(appender); err != nil {
		return err
	}
	return appender.Flush()
}

// Runs lists stored runs, newest first.
func (s *Store) Runs() ([]RunInfo, error) {
	rows, err := s.db.Query(
		`SELECT run_id, database_kind, created_at, genome_count, gene_count
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var infos []RunInfo
	for rows.Next() {
		var info RunInfo
		var kind string
		if err := rows.Scan(&info.RunID, &kind, &info.Created, &info.Genomes, &info.Genes); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		info.Kind = refdb.Kind(kind)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return infos, nil
}

// CellCount returns the number of present cells stored for a run.
func (s *Store) CellCount(runID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM matrix_cells WHERE run_id=?`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cells: %w", err)
	}
	return n, nil
}

// ReportRow is one annotated hit read back from the store.
type ReportRow struct {
	RunID    string
	Genome   string
	Gene     string
	Identity float64
	Category string
	Attr1    string
	Attr2    string
}

// SearchGene returns every stored report row for a gene across runs.
func (s *Store) SearchGene(gene string) ([]ReportRow, error) {
	rows, err := s.db.Query(
		`SELECT run_id, genome, gene, identity, category, attr1, attr2
		 FROM report_rows WHERE gene=?`, gene)
	if err != nil {
		return nil, fmt.Errorf("query by gene: %w", err)
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		var r ReportRow
		if err := rows.Scan(&r.RunID, &r.Genome, &r.Gene, &r.Identity, &r.Category, &r.Attr1, &r.Attr2); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report rows: %w", err)
	}
	return out, nil
}

// DeleteRun removes one run and all of its rows.
func (s *Store) DeleteRun(runID string) error {
	for _, stmt := range []string{
		`DELETE FROM report_rows WHERE run_id=?`,
		`DELETE FROM matrix_cells WHERE run_id=?`,
		`DELETE FROM runs WHERE run_id=?`,
	} {
		if _, err := s.db.Exec(stmt, runID); err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
	}
	return nil
}
