package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/banshee-data/density.report/internal/dataset"
	"github.com/banshee-data/density.report/internal/dataset/loader"
)

// maxConfigBytes caps the size of a selection config file.
const maxConfigBytes = 1 * 1024 * 1024

// SelectionConfig is the JSON document describing where a density table
// comes from and which part of it to select. Every field is optional;
// the Get* methods supply defaults for anything omitted.
type SelectionConfig struct {
	// Source layout
	Columns       *ColumnConfig `json:"columns,omitempty"`
	Delimiter     *string       `json:"delimiter,omitempty"` // "" or omitted means whitespace
	SkipRowsCount *int          `json:"skip_rows_count,omitempty"`
	Comment       *string       `json:"comment,omitempty"`

	// Selection window
	TimeLim *LimitConfig `json:"time_lim,omitempty"`
	XLim    *LimitConfig `json:"x_lim,omitempty"`
	YLim    *LimitConfig `json:"y_lim,omitempty"`

	// Grid
	CellSize       *float64 `json:"cell_size,omitempty"`
	BufferDistance *float64 `json:"buffer_distance,omitempty"`
}

// ColumnConfig maps logical columns to source field positions. Omitted
// fields keep their canonical position.
type ColumnConfig struct {
	Time    *int `json:"time,omitempty"`
	X       *int `json:"x,omitempty"`
	Y       *int `json:"y,omitempty"`
	Z       *int `json:"z,omitempty"`
	Density *int `json:"density,omitempty"`
}

// LimitConfig is a half-open [min, max) bound. A missing end is open.
type LimitConfig struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// EmptySelectionConfig returns a SelectionConfig with every field unset.
func EmptySelectionConfig() *SelectionConfig {
	return &SelectionConfig{}
}

// LoadSelectionConfig reads and validates a SelectionConfig from a .json
// file no larger than 1MB.
func LoadSelectionConfig(path string) (*SelectionConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxConfigBytes {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxConfigBytes)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySelectionConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks field values. Inverted limits are accepted: they select
// nothing, which is a legitimate if unusual request.
func (c *SelectionConfig) Validate() error {
	if err := c.GetColumns().Validate(); err != nil {
		return fmt.Errorf("columns: %w", err)
	}
	if c.SkipRowsCount != nil && *c.SkipRowsCount < 0 {
		return fmt.Errorf("skip_rows_count must be non-negative, got %d", *c.SkipRowsCount)
	}
	if c.CellSize != nil {
		cs := *c.CellSize
		if cs <= 0 || math.IsInf(cs, 0) || math.IsNaN(cs) {
			return fmt.Errorf("cell_size must be positive, got %v", cs)
		}
	}
	if c.BufferDistance != nil && *c.BufferDistance < 0 {
		return fmt.Errorf("buffer_distance must be non-negative, got %v", *c.BufferDistance)
	}
	return nil
}

// GetColumns returns the configured column mapping over the canonical
// defaults.
func (c *SelectionConfig) GetColumns() dataset.ColumnIndex {
	ci := dataset.DefaultColumnIndex()
	if c.Columns == nil {
		return ci
	}
	if c.Columns.Time != nil {
		ci.Time = *c.Columns.Time
	}
	if c.Columns.X != nil {
		ci.X = *c.Columns.X
	}
	if c.Columns.Y != nil {
		ci.Y = *c.Columns.Y
	}
	if c.Columns.Z != nil {
		ci.Z = *c.Columns.Z
	}
	if c.Columns.Density != nil {
		ci.Density = *c.Columns.Density
	}
	return ci
}

// GetDelimiter returns the field delimiter or "" for whitespace.
func (c *SelectionConfig) GetDelimiter() string {
	if c.Delimiter == nil {
		return ""
	}
	return *c.Delimiter
}

// GetSkipRowsCount returns the header line count or the default of 0.
func (c *SelectionConfig) GetSkipRowsCount() int {
	if c.SkipRowsCount == nil {
		return 0
	}
	return *c.SkipRowsCount
}

// GetComment returns the comment prefix or the loader default.
func (c *SelectionConfig) GetComment() string {
	if c.Comment == nil || *c.Comment == "" {
		return loader.DefaultComment
	}
	return *c.Comment
}

// GetCellSize returns the cell_size value or the default.
func (c *SelectionConfig) GetCellSize() float64 {
	if c.CellSize == nil {
		return 1.0
	}
	return *c.CellSize
}

// GetBufferDistance returns the buffer_distance value or the default.
func (c *SelectionConfig) GetBufferDistance() float64 {
	if c.BufferDistance == nil {
		return 0
	}
	return *c.BufferDistance
}

// LoaderOptions builds the options used to read the source table.
func (c *SelectionConfig) LoaderOptions() loader.Options {
	return loader.Options{
		Columns:   c.GetColumns(),
		Delimiter: c.GetDelimiter(),
		SkipRows:  c.GetSkipRowsCount(),
		Comment:   c.GetComment(),
	}
}

// Params builds selection parameters. Unset limit ends are filled from
// data when it is non-nil, otherwise they are left open (±Inf).
func (c *SelectionConfig) Params(data *dataset.Bounds) dataset.SelectionParams {
	return dataset.SelectionParams{
		Time:           c.TimeLim.resolve(data, dataset.ColumnTime),
		X:              c.XLim.resolve(data, dataset.ColumnX),
		Y:              c.YLim.resolve(data, dataset.ColumnY),
		CellSize:       c.GetCellSize(),
		BufferDistance: c.GetBufferDistance(),
	}
}

func (l *LimitConfig) resolve(data *dataset.Bounds, col dataset.Column) dataset.Limit {
	out := dataset.Limit{Min: math.Inf(-1), Max: math.Inf(1)}
	if data != nil {
		out = data.Limit(col)
	}
	if l == nil {
		return out
	}
	if l.Min != nil {
		out.Min = *l.Min
	}
	if l.Max != nil {
		out.Max = *l.Max
	}
	return out
}

// LimitFrom converts l back into its config form, leaving infinite ends
// unset.
func LimitFrom(l dataset.Limit) LimitConfig {
	var out LimitConfig
	if !math.IsInf(l.Min, 0) && !math.IsNaN(l.Min) {
		v := l.Min
		out.Min = &v
	}
	if !math.IsInf(l.Max, 0) && !math.IsNaN(l.Max) {
		v := l.Max
		out.Max = &v
	}
	return out
}
