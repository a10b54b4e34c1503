package gff

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

// Reader reads GFF3 records, skipping comments, blank lines and malformed lines.
type Reader struct {
	scanner    *bufio.Scanner
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	skipped    int
	logger     *zap.Logger
}

// Open opens a GFF3 file for reading.
// Supports both plain and gzipped (.gff3.gz) files, detected by magic bytes.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open GFF3 file: %w", err)
	}

	br := bufio.NewReader(file)
	r := &Reader{file: file}

	// Check for gzip magic number (0x1f, 0x8b)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		r.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.init(r.gzipReader)
	} else {
		r.init(br)
	}

	return r, nil
}

// NewReader creates a reader over GFF3 content.
func NewReader(rd io.Reader) *Reader {
	r := &Reader{}
	r.init(rd)
	return r
}

func (r *Reader) init(rd io.Reader) {
	r.scanner = bufio.NewScanner(rd)
	// Increase buffer size for long attribute columns
	buf := make([]byte, 0, 64*1024)
	r.scanner.Buffer(buf, 1024*1024)
	r.logger = zap.NewNop()
}

// SetLogger sets the logger used to report skipped lines.
func (r *Reader) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Next reads the next record.
// Returns nil, nil when there are no more records.
func (r *Reader) Next() (*Record, error) {
	for r.scanner.Scan() {
		r.lineNumber++
		line := r.scanner.Text()

		// Skip comments, directives and empty lines
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		rec, err := ParseLine(line)
		if err != nil {
			r.skipped++
			r.logger.Debug("skipping malformed GFF3 line",
				zap.Int("line", r.lineNumber),
				zap.Error(err))
			continue
		}
		return rec, nil
	}

	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GFF3: %w", err)
	}
	return nil, nil
}

// LineNumber returns the current line number being processed.
func (r *Reader) LineNumber() int {
	return r.lineNumber
}

// Skipped returns the number of malformed lines skipped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

// Close closes the underlying file, if any.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ReadAll reads every remaining record into memory.
func (r *Reader) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		rec, err := r.Next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return records, nil
		}
		records = append(records, rec)
	}
}

// ReadFile reads all records from a GFF3 file on the given chromosome.
// An empty chrom keeps every record.
func ReadFile(path, chrom string, logger *zap.Logger) ([]*Record, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	if logger != nil {
		r.SetLogger(logger)
	}

	var records []*Record
	for {
		rec, err := r.Next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			break
		}
		if chrom != "" && rec.SeqName != chrom {
			continue
		}
		records = append(records, rec)
	}

	if r.Skipped() > 0 && logger != nil {
		logger.Info("skipped malformed GFF3 lines",
			zap.String("path", path),
			zap.Int("count", r.Skipped()))
	}
	return records, nil
}
