package dataset

import "github.com/banshee-data/density.report/internal/monitoring"

// Dataset holds a raw sample table and its deduplicated view. Both are
// fixed once New returns, so a Dataset may be read from many goroutines.
type Dataset struct {
	raw   Table
	clean Table
}

// Stats summarises the effect of deduplication.
type Stats struct {
	RawRows       int `json:"raw_rows"`
	UniqueRows    int `json:"unique_rows"`
	DuplicateRows int `json:"duplicate_rows"`
}

// New copies raw and derives its deduplicated table.
func New(raw Table) *Dataset {
	d := &Dataset{raw: raw.Clone()}
	d.clean = Deduplicate(d.raw)
	if dropped := len(d.raw) - len(d.clean); dropped > 0 {
		monitoring.Logf("dataset: dropped %d duplicate samples of %d", dropped, len(d.raw))
	}
	return d
}

// Raw returns a copy of the source table, duplicates included.
func (d *Dataset) Raw() Table { return d.raw.Clone() }

// Deduplicated returns a copy of the deduplicated table.
func (d *Dataset) Deduplicated() Table { return d.clean.Clone() }

// Stats reports row counts before and after deduplication.
func (d *Dataset) Stats() Stats {
	return Stats{
		RawRows:       len(d.raw),
		UniqueRows:    len(d.clean),
		DuplicateRows: len(d.raw) - len(d.clean),
	}
}

// Bounds returns the per-column envelope of the deduplicated table. ok is
// false when it has no rows.
func (d *Dataset) Bounds() (Bounds, bool) { return d.clean.Bounds() }

// Select returns the deduplicated rows inside the time, x and y limits of
// p. The raw table is never consulted.
func (d *Dataset) Select(p SelectionParams) Table {
	return Filter(d.clean, p)
}
