// Package loader reads delimited text into a dataset.Table.
//
// Input is line oriented: a fixed number of leading lines is skipped,
// blank lines and comments are ignored, and every remaining line must
// carry a numeric value at each mapped source column. Any malformed line
// fails the whole load; rows are never silently dropped.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/density.report/internal/dataset"
	"github.com/banshee-data/density.report/internal/fsutil"
	"github.com/banshee-data/density.report/internal/monitoring"
)

// DefaultComment starts a comment that runs to the end of the line.
const DefaultComment = "#"

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// ErrMissingField is wrapped by ParseError when a line has fewer fields
// than a mapped column position requires.
var ErrMissingField = errors.New("missing field")

// Options controls how text is split into rows.
type Options struct {
	// Columns maps logical columns to zero-based source field positions.
	Columns dataset.ColumnIndex
	// Delimiter separates fields. Empty means any run of whitespace.
	Delimiter string
	// SkipRows is the number of leading lines discarded before parsing.
	SkipRows int
	// Comment starts a trailing comment. Empty selects DefaultComment.
	Comment string
}

// DefaultOptions returns whitespace-delimited options with the canonical
// column order and no header.
func DefaultOptions() Options {
	return Options{Columns: dataset.DefaultColumnIndex()}
}

// Validate checks the options before any input is read.
func (o Options) Validate() error {
	if err := o.Columns.Validate(); err != nil {
		return fmt.Errorf("invalid column index: %w", err)
	}
	if o.SkipRows < 0 {
		return fmt.Errorf("skip rows must be non-negative, got %d", o.SkipRows)
	}
	return nil
}

// ParseError reports the line and column that could not be parsed.
type ParseError struct {
	Line   int
	Column dataset.Column
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %s: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Read parses r into a table.
func Read(r io.Reader, opts Options) (dataset.Table, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	comment := opts.Comment
	if comment == "" {
		comment = DefaultComment
	}
	positions := opts.Columns.Positions()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	table := make(dataset.Table, 0, 1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo <= opts.SkipRows {
			continue
		}
		line := sc.Text()
		if i := strings.Index(line, comment); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := splitFields(line, opts.Delimiter)
		var v [dataset.NumColumns]float64
		for i, pos := range positions {
			col := dataset.Column(i)
			if pos >= len(fields) {
				return nil, &ParseError{
					Line:   lineNo,
					Column: col,
					Err:    fmt.Errorf("%w: position %d, line has %d fields", ErrMissingField, pos, len(fields)),
				}
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(fields[pos]), 64)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Column: col, Err: err}
			}
			v[i] = f
		}
		table = append(table, dataset.RowFromValues(v))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", lineNo+1, err)
	}
	return table, nil
}

// Load opens path on fsys and parses it with Read.
func Load(fsys fsutil.FileSystem, path string, opts Options) (dataset.Table, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	table, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	monitoring.Debugf("loader: read %d rows from %s", len(table), path)
	return table, nil
}

func splitFields(line, delim string) []string {
	if delim == "" {
		return strings.Fields(line)
	}
	return strings.Split(line, delim)
}
