package dataset

import (
	"fmt"
	"math"
)

// Column identifies one of the five logical columns of a density table.
type Column int

const (
	ColumnTime Column = iota
	ColumnX
	ColumnY
	ColumnZ
	ColumnDensity
)

// NumColumns is the fixed width of every Row.
const NumColumns = 5

var columnNames = [NumColumns]string{"time", "x", "y", "z", "density"}

// Columns lists the logical columns in table order.
func Columns() []Column {
	return []Column{ColumnTime, ColumnX, ColumnY, ColumnZ, ColumnDensity}
}

func (c Column) String() string {
	if c < 0 || int(c) >= NumColumns {
		return fmt.Sprintf("column(%d)", int(c))
	}
	return columnNames[c]
}

// Row is a single (time, x, y, z, density) sample.
type Row struct {
	Time    float64
	X       float64
	Y       float64
	Z       float64
	Density float64
}

// Value returns the field of r named by c.
func (r Row) Value(c Column) float64 {
	switch c {
	case ColumnTime:
		return r.Time
	case ColumnX:
		return r.X
	case ColumnY:
		return r.Y
	case ColumnZ:
		return r.Z
	case ColumnDensity:
		return r.Density
	}
	panic(fmt.Sprintf("dataset: unknown column %d", int(c)))
}

// Values returns the row fields in column order.
func (r Row) Values() [NumColumns]float64 {
	return [NumColumns]float64{r.Time, r.X, r.Y, r.Z, r.Density}
}

// RowFromValues builds a Row from values in column order.
func RowFromValues(v [NumColumns]float64) Row {
	return Row{
		Time:    v[ColumnTime],
		X:       v[ColumnX],
		Y:       v[ColumnY],
		Z:       v[ColumnZ],
		Density: v[ColumnDensity],
	}
}

// Table is an ordered collection of rows sharing the fixed column layout.
type Table []Row

// Len returns the number of rows.
func (t Table) Len() int { return len(t) }

// Clone returns a copy of t that shares no backing storage with it.
// A nil or empty table clones to an empty, non-nil table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// Column returns the values of column c for every row, in row order.
func (t Table) Column(c Column) []float64 {
	out := make([]float64, len(t))
	for i, r := range t {
		out[i] = r.Value(c)
	}
	return out
}

// ColumnIndex maps each logical column to its position in the source data.
type ColumnIndex struct {
	Time    int `json:"time"`
	X       int `json:"x"`
	Y       int `json:"y"`
	Z       int `json:"z"`
	Density int `json:"density"`
}

// DefaultColumnIndex returns the canonical 0..4 mapping.
func DefaultColumnIndex() ColumnIndex {
	return ColumnIndex{Time: 0, X: 1, Y: 2, Z: 3, Density: 4}
}

// Positions returns the source positions in logical column order.
func (ci ColumnIndex) Positions() [NumColumns]int {
	return [NumColumns]int{ci.Time, ci.X, ci.Y, ci.Z, ci.Density}
}

// Validate rejects negative or repeated source positions.
func (ci ColumnIndex) Validate() error {
	seen := make(map[int]Column, NumColumns)
	for i, pos := range ci.Positions() {
		c := Column(i)
		if pos < 0 {
			return fmt.Errorf("column %s: position must be non-negative, got %d", c, pos)
		}
		if prev, ok := seen[pos]; ok {
			return fmt.Errorf("column %s: position %d already used by %s", c, pos, prev)
		}
		seen[pos] = c
	}
	return nil
}

// Limit is the half-open interval [Min, Max).
// An inverted limit (Min > Max) is valid and contains nothing.
type Limit struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether Min <= v < Max.
func (l Limit) Contains(v float64) bool {
	return v >= l.Min && v < l.Max
}

// Size returns Max - Min, which is negative for an inverted limit.
func (l Limit) Size() float64 {
	return l.Max - l.Min
}

// SelectionParams describes one rectangular space-time selection.
type SelectionParams struct {
	Time     Limit
	X        Limit
	Y        Limit
	CellSize float64
	// BufferDistance is carried through configuration for spatial padding
	// but is not applied by Select.
	BufferDistance float64
}

// ExtentXSize returns the width of the x limit.
func (p SelectionParams) ExtentXSize() float64 { return p.X.Size() }

// ExtentYSize returns the width of the y limit.
func (p SelectionParams) ExtentYSize() float64 { return p.Y.Size() }

// Bounds holds per-column minimum and maximum values of a table.
type Bounds struct {
	Min [NumColumns]float64
	Max [NumColumns]float64
}

// Limit returns the closed data range of column c as a Limit. Because
// Limit is half-open, Max is nudged up one ulp so the largest value is
// still contained.
func (b Bounds) Limit(c Column) Limit {
	return Limit{Min: b.Min[c], Max: math.Nextafter(b.Max[c], math.Inf(1))}
}
