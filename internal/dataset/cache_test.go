package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSample(t *testing.T, path string, rows int) {
	t.Helper()
	records := make([]Record, rows)
	for i := range records {
		records[i] = Record{Company: "Tata", Period: "Jan-2010", AveragePrice: 160, HighPrice: 170, LowPrice: 150, Volume: 500000, PerformanceLabel: 1}
	}
	require.NoError(t, WriteFile(path, New(records)))
}

func TestCacheHitMissAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	writeSample(t, path, 2)

	cache := NewCache(nil)

	ds, hit, err := cache.Load(path)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, ds.Len())

	again, hit, err := cache.Load(path)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Same(t, ds, again)

	// Rewrite with a different size and a later mtime
	writeSample(t, path, 3)
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	reloaded, hit, err := cache.Load(path)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, reloaded.Len())

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, int64(1), stats.Reloads)
	assert.InDelta(t, 1.0/3.0, stats.HitRatio, 1e-9)
}

func TestCacheInvalidateAndPurge(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	writeSample(t, a, 1)
	writeSample(t, b, 1)

	loads := 0
	cache := NewCacheWithLoader(func(path string) (*Dataset, error) {
		loads++
		return LoadFile(path)
	}, nil)

	_, _, err := cache.Load(a)
	require.NoError(t, err)
	_, _, err = cache.Load(b)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Stats().Entries)

	// Relative and absolute spellings share one entry
	cache.Invalidate(filepath.Join(dir, ".", "a.csv"))
	assert.Equal(t, 1, cache.Stats().Entries)

	_, hit, err := cache.Load(a)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, loads)

	cache.Purge()
	assert.Equal(t, 0, cache.Stats().Entries)
}

func TestCacheLoadErrors(t *testing.T) {
	dir := t.TempDir()

	cache := NewCache(nil)
	_, _, err := cache.Load(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "bad.csv")
	writeSample(t, path, 1)
	boom := errors.New("boom")
	failing := NewCacheWithLoader(func(string) (*Dataset, error) { return nil, boom }, nil)
	_, _, err = failing.Load(path)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, failing.Stats().Entries)
}

func TestCacheConcurrentLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	writeSample(t, path, 5)
	cache := NewCache(nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ds, _, err := cache.Load(path)
			assert.NoError(t, err)
			assert.Equal(t, 5, ds.Len())
		}()
	}
	wg.Wait()

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(15), stats.Hits)
}
