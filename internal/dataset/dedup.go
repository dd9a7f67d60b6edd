package dataset

import "math"

// sampleKey is the identity of a sample: the IEEE-754 bit patterns of its
// time and position. Comparing bits rather than float values means -0 and
// +0 are distinct keys and a NaN matches a NaN with the same payload.
type sampleKey [4]uint64

func keyOf(r Row) sampleKey {
	return sampleKey{
		math.Float64bits(r.Time),
		math.Float64bits(r.X),
		math.Float64bits(r.Y),
		math.Float64bits(r.Z),
	}
}

// Deduplicate returns a new table holding the first occurrence of every
// distinct (time, x, y, z) key in src, in input order. Later rows with the
// same key are dropped even when their density differs. No tolerance is
// applied; callers wanting near-duplicates collapsed must quantize first.
// src is not modified.
func Deduplicate(src Table) Table {
	seen := make(map[sampleKey]struct{}, len(src))
	out := make(Table, 0, len(src))
	for _, r := range src {
		k := keyOf(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out[:len(out):len(out)]
}
