package dataset_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/density.report/internal/dataset"
)

func TestColumnIndex_Validate(t *testing.T) {
	assert.NoError(t, dataset.DefaultColumnIndex().Validate())
	assert.NoError(t, dataset.ColumnIndex{Time: 4, X: 0, Y: 1, Z: 7, Density: 2}.Validate())

	assert.Error(t, dataset.ColumnIndex{Time: -1, X: 1, Y: 2, Z: 3, Density: 4}.Validate())
	err := dataset.ColumnIndex{Time: 0, X: 1, Y: 1, Z: 3, Density: 4}.Validate()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "y")
		assert.Contains(t, err.Error(), "x")
	}
}

func TestColumnIndex_Positions(t *testing.T) {
	ci := dataset.ColumnIndex{Time: 9, X: 8, Y: 7, Z: 6, Density: 5}
	assert.Equal(t, [dataset.NumColumns]int{9, 8, 7, 6, 5}, ci.Positions())
}

func TestRow_ValueMatchesFields(t *testing.T) {
	r := dataset.Row{Time: 1, X: 2, Y: 3, Z: 4, Density: 5}
	for i, c := range dataset.Columns() {
		assert.Equal(t, float64(i+1), r.Value(c), "column %s", c)
	}
	assert.Equal(t, r, dataset.RowFromValues(r.Values()))
	assert.Panics(t, func() { r.Value(dataset.Column(dataset.NumColumns)) })
}

func TestColumn_String(t *testing.T) {
	assert.Equal(t, "time", dataset.ColumnTime.String())
	assert.Equal(t, "density", dataset.ColumnDensity.String())
	assert.Equal(t, "column(9)", dataset.Column(9).String())
}

func TestLimit(t *testing.T) {
	l := dataset.Limit{Min: 1, Max: 3}
	assert.True(t, l.Contains(1))
	assert.True(t, l.Contains(2.999))
	assert.False(t, l.Contains(3))
	assert.False(t, l.Contains(0.999))
	assert.False(t, l.Contains(math.NaN()))
	assert.Equal(t, 2.0, l.Size())

	inverted := dataset.Limit{Min: 3, Max: 1}
	assert.False(t, inverted.Contains(2))
	assert.Equal(t, -2.0, inverted.Size())
}

func TestTable_CloneAndColumn(t *testing.T) {
	tbl := dataset.Table{{Time: 1, X: 2}, {Time: 3, X: 4}}
	c := tbl.Clone()
	c[0].Time = 99
	assert.Equal(t, 1.0, tbl[0].Time)
	assert.Equal(t, []float64{2, 4}, tbl.Column(dataset.ColumnX))
	assert.NotNil(t, dataset.Table(nil).Clone())
}
