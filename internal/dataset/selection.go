package dataset

// Matches reports whether r lies inside all three half-open limits of p.
func (p SelectionParams) Matches(r Row) bool {
	return p.Time.Contains(r.Value(ColumnTime)) &&
		p.X.Contains(r.Value(ColumnX)) &&
		p.Y.Contains(r.Value(ColumnY))
}

// Filter returns the rows of t that satisfy p, in their original order.
// The result never aliases t.
func Filter(t Table, p SelectionParams) Table {
	if len(t) == 0 {
		return Table{}
	}
	out := make(Table, 0)
	for _, r := range t {
		if p.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
