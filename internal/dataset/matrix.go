package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Dense returns t as a rows×NumColumns matrix in column order. gonum does
// not allow zero-sized matrices, so an empty table yields nil.
func (t Table) Dense() *mat.Dense {
	if len(t) == 0 {
		return nil
	}
	data := make([]float64, 0, len(t)*NumColumns)
	for _, r := range t {
		v := r.Values()
		data = append(data, v[:]...)
	}
	return mat.NewDense(len(t), NumColumns, data)
}

// FromDense converts a matrix laid out in column order back into a Table.
// A nil matrix, including the nil *mat.Dense that Dense returns for an
// empty table, yields an empty Table.
func FromDense(m mat.Matrix) (Table, error) {
	if m == nil {
		return Table{}, nil
	}
	if d, ok := m.(*mat.Dense); ok && d == nil {
		return Table{}, nil
	}
	rows, cols := m.Dims()
	if cols != NumColumns {
		return nil, fmt.Errorf("matrix has %d columns, want %d", cols, NumColumns)
	}
	out := make(Table, rows)
	for i := 0; i < rows; i++ {
		var v [NumColumns]float64
		for j := range v {
			v[j] = m.At(i, j)
		}
		out[i] = RowFromValues(v)
	}
	return out, nil
}

// Bounds returns the per-column envelope of t. ok is false for an empty
// table.
func (t Table) Bounds() (b Bounds, ok bool) {
	if len(t) == 0 {
		return Bounds{}, false
	}
	for _, c := range Columns() {
		col := t.Column(c)
		b.Min[c] = floats.Min(col)
		b.Max[c] = floats.Max(col)
	}
	return b, true
}
