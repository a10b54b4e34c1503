package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/footprint-viewer/internal/footprint"
	"github.com/inodb/footprint-viewer/internal/genome"
)

// Columns returns the column names of a score file.
func (s *Store) Columns(ctx context.Context, path string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+scanExpr(path)+" LIMIT 0")
	if err != nil {
		return nil, fmt.Errorf("describe score file: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read score columns: %w", err)
	}
	return cols, nil
}

// LoadScores reads the records of a score file that lie within the window.
// Wide files (chrom, pos, r2..rN) and long files (chrom, pos, radius, score)
// are told apart by the presence of the r2 column. Rows keep file order so
// that later duplicates overwrite earlier ones when the matrix is built.
func (s *Store) LoadScores(ctx context.Context, path string, w genome.Window) (footprint.Table, error) {
	cols, err := s.Columns(ctx, path)
	if err != nil {
		return footprint.Table{}, err
	}

	var table footprint.Table
	if footprint.IsWideColumns(cols) {
		table, err = s.loadWide(ctx, path, cols, w)
	} else {
		table, err = s.loadLong(ctx, path, cols, w)
	}
	if err != nil {
		return footprint.Table{}, err
	}

	s.logger.Debug("loaded score records",
		zap.String("path", path),
		zap.Bool("wide", table.Wide),
		zap.Stringer("region", w),
		zap.Int("records", table.Len()))
	return table, nil
}

func requireColumns(cols []string, names ...string) error {
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[c] = true
	}
	var missing []string
	for _, n := range names {
		if !have[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("score file missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (s *Store) loadWide(ctx context.Context, path string, cols []string, w genome.Window) (footprint.Table, error) {
	if err := requireColumns(cols, "chrom", "pos"); err != nil {
		return footprint.Table{}, err
	}

	var radii []int
	selects := []string{"CAST(chrom AS VARCHAR)", "CAST(pos AS BIGINT)"}
	for _, c := range cols {
		radius, ok := footprint.ParseWideColumn(c)
		if !ok {
			continue
		}
		radii = append(radii, radius)
		selects = append(selects, "CAST("+quoteIdent(c)+" AS DOUBLE)")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s
		WHERE CAST(chrom AS VARCHAR) = ? AND pos >= ? AND pos <= ?`,
		strings.Join(selects, ", "), scanExpr(path))

	rows, err := s.db.QueryContext(ctx, query, w.Chrom, w.Start, w.End)
	if err != nil {
		return footprint.Table{}, fmt.Errorf("query wide scores: %w", err)
	}
	defer rows.Close()

	table := footprint.Table{Wide: true}
	values := make([]sql.NullFloat64, len(radii))
	dest := make([]any, 2+len(radii))
	for rows.Next() {
		var rec footprint.Record
		var pos sql.NullInt64
		dest[0], dest[1] = &rec.Chrom, &pos
		for i := range values {
			dest[2+i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return footprint.Table{}, fmt.Errorf("scan wide score: %w", err)
		}
		if !pos.Valid {
			continue
		}
		rec.Pos = pos.Int64
		rec.Scores = make(map[int]float64, len(radii))
		for i, v := range values {
			if v.Valid {
				rec.Scores[radii[i]] = v.Float64
			}
		}
		table.Records = append(table.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return footprint.Table{}, fmt.Errorf("iterate wide scores: %w", err)
	}
	return table, nil
}

func (s *Store) loadLong(ctx context.Context, path string, cols []string, w genome.Window) (footprint.Table, error) {
	if err := requireColumns(cols, "chrom", "pos", "radius", "score"); err != nil {
		return footprint.Table{}, err
	}

	query := fmt.Sprintf(`SELECT CAST(chrom AS VARCHAR), CAST(pos AS BIGINT),
		CAST(radius AS BIGINT), CAST(score AS DOUBLE)
		FROM %s
		WHERE CAST(chrom AS VARCHAR) = ? AND pos >= ? AND pos <= ?`, scanExpr(path))

	rows, err := s.db.QueryContext(ctx, query, w.Chrom, w.Start, w.End)
	if err != nil {
		return footprint.Table{}, fmt.Errorf("query long scores: %w", err)
	}
	defer rows.Close()

	var table footprint.Table
	for rows.Next() {
		var chrom string
		var pos, radius sql.NullInt64
		var score sql.NullFloat64
		if err := rows.Scan(&chrom, &pos, &radius, &score); err != nil {
			return footprint.Table{}, fmt.Errorf("scan long score: %w", err)
		}
		if !pos.Valid || !radius.Valid {
			continue
		}
		rec := footprint.Record{
			Chrom:  chrom,
			Pos:    pos.Int64,
			Radius: int(radius.Int64),
			Score:  math.NaN(),
		}
		if score.Valid {
			rec.Score = score.Float64
		}
		table.Records = append(table.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return footprint.Table{}, fmt.Errorf("iterate long scores: %w", err)
	}
	return table, nil
}

// FileSource is a footprint.Source reading one score file through a Store.
type FileSource struct {
	store *Store
	name  string
	path  string
}

// Source returns a track source for the score file at path.
func (s *Store) Source(name, path string) *FileSource {
	return &FileSource{store: s, name: name, path: path}
}

// Name returns the track name.
func (f *FileSource) Name() string { return f.name }

// Path returns the score file path.
func (f *FileSource) Path() string { return f.path }

// Load reads the score records within the window.
func (f *FileSource) Load(ctx context.Context, w genome.Window) (footprint.Table, error) {
	return f.store.LoadScores(ctx, f.path, w)
}
