package dataset_test

import (
	"math/rand"

	"github.com/banshee-data/density.report/internal/dataset"
)

// randomTable builds n rows on a coarse integer lattice so that duplicate
// keys are common.
func randomTable(n int, seed int64) dataset.Table {
	rng := rand.New(rand.NewSource(seed))
	t := make(dataset.Table, n)
	for i := range t {
		t[i] = dataset.Row{
			Time:    float64(rng.Intn(4)),
			X:       float64(rng.Intn(6)),
			Y:       float64(rng.Intn(6)),
			Z:       float64(rng.Intn(2)),
			Density: rng.Float64(),
		}
	}
	return t
}
