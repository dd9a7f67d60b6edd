package arrowtable

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/density.report/internal/dataset"
)

func sampleTable() dataset.Table {
	return dataset.Table{
		{Time: 0, X: 0, Y: 0, Z: 0, Density: 1.0},
		{Time: 1, X: 5, Y: 5, Z: 0, Density: 3.0},
		{Time: 2, X: -1.5, Y: 7, Z: 2, Density: 0.25},
	}
}

func TestSchema(t *testing.T) {
	require.Equal(t, dataset.NumColumns, Schema.NumFields())
	for i, c := range dataset.Columns() {
		f := Schema.Field(i)
		assert.Equal(t, c.String(), f.Name)
		assert.Equal(t, arrow.FLOAT64, f.Type.ID())
		assert.False(t, f.Nullable)
	}
}

func TestRoundTrip(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	src := sampleTable()
	tbl := ToArrow(mem, src)
	defer tbl.Release()

	assert.Equal(t, int64(3), tbl.NumRows())
	assert.Equal(t, int64(dataset.NumColumns), tbl.NumCols())

	got, err := FromArrow(tbl)
	require.NoError(t, err)
	if diff := cmp.Diff(src, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip_Empty(t *testing.T) {
	tbl := ToArrow(nil, dataset.Table{})
	defer tbl.Release()

	got, err := FromArrow(tbl)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// buildTable assembles an Arrow table from the named float64 columns.
func buildTable(t *testing.T, names []string, cols [][]float64) arrow.Table {
	t.Helper()
	mem := memory.NewGoAllocator()
	fields := make([]arrow.Field, len(names))
	columns := make([]arrow.Column, len(names))
	for i, name := range names {
		fields[i] = arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64}
		b := array.NewFloat64Builder(mem)
		b.AppendValues(cols[i], nil)
		arr := b.NewFloat64Array()
		b.Release()
		chunked := arrow.NewChunked(arrow.PrimitiveTypes.Float64, []arrow.Array{arr})
		columns[i] = *arrow.NewColumn(fields[i], chunked)
	}
	return array.NewTable(arrow.NewSchema(fields, nil), columns, int64(len(cols[0])))
}

func TestFromArrow_ColumnsByName(t *testing.T) {
	tbl := buildTable(t,
		[]string{"density", "z", "y", "x", "time"},
		[][]float64{{9}, {4}, {3}, {2}, {1}},
	)
	defer tbl.Release()

	got, err := FromArrow(tbl)
	require.NoError(t, err)
	assert.Equal(t, dataset.Table{{Time: 1, X: 2, Y: 3, Z: 4, Density: 9}}, got)
}

func TestFromArrow_MissingColumn(t *testing.T) {
	tbl := buildTable(t,
		[]string{"time", "x", "y", "z"},
		[][]float64{{1}, {2}, {3}, {4}},
	)
	defer tbl.Release()

	_, err := FromArrow(tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "density")
}

func TestFromArrow_WrongType(t *testing.T) {
	mem := memory.NewGoAllocator()
	fields := []arrow.Field{
		{Name: "time", Type: arrow.PrimitiveTypes.Float64},
		{Name: "x", Type: arrow.PrimitiveTypes.Int64},
	}
	fb := array.NewFloat64Builder(mem)
	fb.Append(1)
	farr := fb.NewFloat64Array()
	ib := array.NewInt64Builder(mem)
	ib.Append(2)
	iarr := ib.NewInt64Array()

	columns := []arrow.Column{
		*arrow.NewColumn(fields[0], arrow.NewChunked(fields[0].Type, []arrow.Array{farr})),
		*arrow.NewColumn(fields[1], arrow.NewChunked(fields[1].Type, []arrow.Array{iarr})),
	}
	tbl := array.NewTable(arrow.NewSchema(fields, nil), columns, 1)
	defer tbl.Release()

	_, err := FromArrow(tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "float64")
}
