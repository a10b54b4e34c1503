// Package duckdb provides storage for footprint score tables and parsed
// annotation records.
// Score tables (parquet, TSV, CSV) are queried in place through DuckDB.
// GFF3 records are cached per chromosome as gob files (fast, pure Go).
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

// Store manages a DuckDB connection used to query score files.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	return &Store{db: db, path: path, logger: zap.NewNop()}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// SetLogger sets the logger for query diagnostics.
func (s *Store) SetLogger(l *zap.Logger) {
	s.logger = l
}

// scanExpr returns the DuckDB table function reading a score file.
// Parquet files use read_parquet; everything else is sniffed by read_csv_auto.
func scanExpr(path string) string {
	quoted := "'" + strings.ReplaceAll(path, "'", "''") + "'"
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".parquet") || strings.HasSuffix(lower, ".pq") {
		return "read_parquet(" + quoted + ")"
	}
	return "read_csv_auto(" + quoted + ", header=true)"
}

// quoteIdent quotes a column name for use in SQL.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
