package dataset_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/density.report/internal/dataset"
	"github.com/banshee-data/density.report/internal/monitoring"
	"github.com/banshee-data/density.report/internal/testutil"
)

func TestNew_DerivesDeduplicatedView(t *testing.T) {
	monitoring.SetLogger(t.Logf)
	defer monitoring.SetLogger(nil)

	ds := dataset.New(testutil.ScenarioTable())

	assert.Len(t, ds.Raw(), 3)
	assert.Len(t, ds.Deduplicated(), 2)
	assert.Equal(t, dataset.Stats{RawRows: 3, UniqueRows: 2, DuplicateRows: 1}, ds.Stats())
}

func TestNew_CopiesSource(t *testing.T) {
	src := testutil.ScenarioTable()
	ds := dataset.New(src)

	src[0].Density = 100
	assert.Equal(t, 1.0, ds.Raw()[0].Density)
	assert.Equal(t, 1.0, ds.Deduplicated()[0].Density)
}

func TestDataset_ViewsAreReadOnly(t *testing.T) {
	ds := dataset.New(testutil.ScenarioTable())

	raw := ds.Raw()
	raw[2].X = -1
	clean := ds.Deduplicated()
	clean[1].X = -1

	assert.Equal(t, 5.0, ds.Raw()[2].X)
	assert.Equal(t, 5.0, ds.Deduplicated()[1].X)
}

func TestDataset_Empty(t *testing.T) {
	ds := dataset.New(dataset.Table{})
	require.NotNil(t, ds.Deduplicated())
	assert.Empty(t, ds.Deduplicated())
	assert.Equal(t, dataset.Stats{}, ds.Stats())
}

func TestDataset_BoundsUseDeduplicatedRows(t *testing.T) {
	ds := dataset.New(dataset.Table{
		{Time: 0, X: 0, Y: 0, Z: 0, Density: 1},
		{Time: 0, X: 0, Y: 0, Z: 0, Density: 9},
		{Time: 1, X: 5, Y: 5, Z: 0, Density: 3},
	})

	b, ok := ds.Bounds()
	require.True(t, ok)
	assert.Equal(t, 3.0, b.Max[dataset.ColumnDensity])
	assert.Equal(t, 5.0, b.Max[dataset.ColumnX])

	_, ok = dataset.New(dataset.Table{}).Bounds()
	assert.False(t, ok)
}

func TestDataset_ConcurrentReads(t *testing.T) {
	ds := dataset.New(randomTable(500, 5))
	p := window(0, 3, 1, 5, 1, 5)
	want := len(ds.Select(p))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if n := len(ds.Select(p)); n != want {
					t.Errorf("concurrent Select returned %d rows, want %d", n, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}
