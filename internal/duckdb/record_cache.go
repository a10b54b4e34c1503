package duckdb

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/inodb/footprint-viewer/internal/gff"
)

// RecordCache manages gob-serialized GFF3 records on disk, one file per
// annotation file and chromosome:
//
//	{dir}/{gff base name}.{chrom}.gob       (records on the chromosome)
//	{dir}/{gff base name}.{chrom}.gob.meta  (source file fingerprint)
type RecordCache struct {
	dir    string
	logger *zap.Logger
}

type recordFile struct {
	Chrom   string
	Records []*gff.Record
}

// NewRecordCache creates a record cache for the given directory.
func NewRecordCache(dir string) *RecordCache {
	return &RecordCache{dir: dir, logger: zap.NewNop()}
}

// SetLogger sets the logger for cache hits and misses.
func (rc *RecordCache) SetLogger(l *zap.Logger) {
	rc.logger = l
}

func (rc *RecordCache) gobPath(src FileFingerprint, chrom string) string {
	name := filepath.Base(src.Path) + "." + strings.ReplaceAll(chrom, string(filepath.Separator), "_") + ".gob"
	return filepath.Join(rc.dir, name)
}

func (rc *RecordCache) metaPath(src FileFingerprint, chrom string) string {
	return rc.gobPath(src, chrom) + ".meta"
}

// Valid checks whether the cached records match the current source file.
func (rc *RecordCache) Valid(src FileFingerprint, chrom string) bool {
	meta, err := rc.readMeta(src, chrom)
	if err != nil {
		return false
	}

	if meta["gff_path"] != src.Path || meta["chrom"] != chrom {
		return false
	}
	cached, err := metaFingerprint(meta)
	if err != nil || !cached.Matches(src) {
		return false
	}

	if _, err := os.Stat(rc.gobPath(src, chrom)); err != nil {
		return false
	}
	return true
}

// Load reads the cached records for a chromosome.
func (rc *RecordCache) Load(src FileFingerprint, chrom string) ([]*gff.Record, error) {
	f, err := os.Open(rc.gobPath(src, chrom))
	if err != nil {
		return nil, fmt.Errorf("open record cache: %w", err)
	}
	defer f.Close()

	var data recordFile
	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode record cache: %w", err)
	}
	if data.Chrom != chrom {
		return nil, fmt.Errorf("record cache holds %s, want %s", data.Chrom, chrom)
	}
	return data.Records, nil
}

// Write serializes the records of a chromosome to disk.
func (rc *RecordCache) Write(src FileFingerprint, chrom string, records []*gff.Record) error {
	if err := os.MkdirAll(rc.dir, 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	path := rc.gobPath(src, chrom)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create record cache: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(recordFile{Chrom: chrom, Records: records}); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode record cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close record cache: %w", err)
	}

	return rc.writeMeta(src, chrom)
}

// Clear removes the cached files for a chromosome.
func (rc *RecordCache) Clear(src FileFingerprint, chrom string) {
	os.Remove(rc.gobPath(src, chrom))
	os.Remove(rc.metaPath(src, chrom))
}

// ReadFile returns the records of path on chrom, from the cache when it is
// still valid and from the GFF3 file otherwise. A fresh parse is written
// back to the cache; a failed write is logged and does not fail the read.
func (rc *RecordCache) ReadFile(path, chrom string) ([]*gff.Record, error) {
	src, err := StatFile(path)
	if err != nil {
		return nil, fmt.Errorf("stat annotation file: %w", err)
	}

	if rc.Valid(src, chrom) {
		records, err := rc.Load(src, chrom)
		if err == nil {
			rc.logger.Debug("using cached annotation records",
				zap.String("path", path),
				zap.String("chrom", chrom),
				zap.Int("records", len(records)))
			return records, nil
		}
		rc.logger.Warn("discarding unreadable record cache", zap.Error(err))
		rc.Clear(src, chrom)
	}

	records, err := gff.ReadFile(path, chrom, rc.logger)
	if err != nil {
		return nil, err
	}
	if err := rc.Write(src, chrom, records); err != nil {
		rc.logger.Warn("could not write record cache", zap.Error(err))
	}
	return records, nil
}

func (rc *RecordCache) writeMeta(src FileFingerprint, chrom string) error {
	lines := []string{
		"gff_path=" + src.Path,
		"gff_size=" + strconv.FormatInt(src.Size, 10),
		"gff_modtime=" + src.ModTime.UTC().Format(time.RFC3339Nano),
		"chrom=" + chrom,
		"created_at=" + time.Now().UTC().Format(time.RFC3339),
		"",
	}
	return os.WriteFile(rc.metaPath(src, chrom), []byte(strings.Join(lines, "\n")), 0644)
}

// metaFingerprint rebuilds the source fingerprint recorded in a meta file.
func metaFingerprint(meta map[string]string) (FileFingerprint, error) {
	size, err := strconv.ParseInt(meta["gff_size"], 10, 64)
	if err != nil {
		return FileFingerprint{}, fmt.Errorf("parse gff_size: %w", err)
	}
	modTime, err := time.Parse(time.RFC3339Nano, meta["gff_modtime"])
	if err != nil {
		return FileFingerprint{}, fmt.Errorf("parse gff_modtime: %w", err)
	}
	return FileFingerprint{Path: meta["gff_path"], Size: size, ModTime: modTime}, nil
}

func (rc *RecordCache) readMeta(src FileFingerprint, chrom string) (map[string]string, error) {
	data, err := os.ReadFile(rc.metaPath(src, chrom))
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		if k, v, ok := strings.Cut(line, "="); ok {
			meta[k] = v
		}
	}
	return meta, nil
}
