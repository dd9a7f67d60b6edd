// Package arrowtable converts density tables to and from Apache Arrow so
// selections can be handed to columnar consumers without a copy per cell.
package arrowtable

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/banshee-data/density.report/internal/dataset"
)

// Schema is the Arrow schema of a density table: one non-nullable float64
// field per logical column, named after the column.
var Schema = newSchema()

func newSchema() *arrow.Schema {
	fields := make([]arrow.Field, 0, dataset.NumColumns)
	for _, c := range dataset.Columns() {
		fields = append(fields, arrow.Field{
			Name:     c.String(),
			Type:     arrow.PrimitiveTypes.Float64,
			Nullable: false,
		})
	}
	return arrow.NewSchema(fields, nil)
}

// ToArrow builds an Arrow table holding t. The caller owns the result and
// must Release it. A nil allocator selects the Go allocator.
func ToArrow(mem memory.Allocator, t dataset.Table) arrow.Table {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	columns := make([]arrow.Column, dataset.NumColumns)
	for i, c := range dataset.Columns() {
		b := array.NewFloat64Builder(mem)
		b.AppendValues(t.Column(c), nil)
		arr := b.NewFloat64Array()
		b.Release()

		chunked := arrow.NewChunked(arrow.PrimitiveTypes.Float64, []arrow.Array{arr})
		arr.Release()
		columns[i] = *arrow.NewColumn(Schema.Field(i), chunked)
		chunked.Release()
	}

	tbl := array.NewTable(Schema, columns, int64(len(t)))
	for i := range columns {
		columns[i].Release()
	}
	return tbl
}

// FromArrow reads a density table out of tbl. Columns are located by name,
// so field order in tbl does not matter. Each must be float64 without
// nulls.
func FromArrow(tbl arrow.Table) (dataset.Table, error) {
	n := int(tbl.NumRows())
	out := make(dataset.Table, n)
	values := make([][]float64, dataset.NumColumns)

	for _, c := range dataset.Columns() {
		idx := tbl.Schema().FieldIndices(c.String())
		if len(idx) == 0 {
			return nil, fmt.Errorf("arrow table has no %q column", c)
		}
		if len(idx) > 1 {
			return nil, fmt.Errorf("arrow table has %d %q columns", len(idx), c)
		}
		col := tbl.Column(idx[0])
		if col.DataType().ID() != arrow.FLOAT64 {
			return nil, fmt.Errorf("column %q has type %s, want float64", c, col.DataType())
		}

		vals := make([]float64, 0, n)
		for _, chunk := range col.Data().Chunks() {
			f64 := chunk.(*array.Float64)
			if f64.NullN() > 0 {
				return nil, fmt.Errorf("column %q contains %d nulls", c, f64.NullN())
			}
			vals = append(vals, f64.Float64Values()...)
		}
		if len(vals) != n {
			return nil, fmt.Errorf("column %q has %d values, want %d", c, len(vals), n)
		}
		values[c] = vals
	}

	for i := range out {
		var v [dataset.NumColumns]float64
		for c := range v {
			v[c] = values[c][i]
		}
		out[i] = dataset.RowFromValues(v)
	}
	return out, nil
}
