package dataset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// cacheEntry is a loaded dataset plus the file identity it was read from
type cacheEntry struct {
	dataset *Dataset
	modTime time.Time
	size    int64
}

// CacheStats is a snapshot of cache counters
type CacheStats struct {
	Entries  int     `json:"entries"`
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	Reloads  int64   `json:"reloads"`
	HitRatio float64 `json:"hit_ratio"`
}

// LoadFunc reads a dataset from disk
type LoadFunc func(path string) (*Dataset, error)

// Cache memoizes datasets by absolute path. An entry is served only while the
// file's modification time and size match the values seen at load time.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	load    LoadFunc
	logger  *slog.Logger

	hits    int64
	misses  int64
	reloads int64
}

// NewCache creates a cache that reads files with LoadFile
func NewCache(logger *slog.Logger) *Cache {
	return NewCacheWithLoader(LoadFile, logger)
}

// NewCacheWithLoader creates a cache with a custom loader
func NewCacheWithLoader(load LoadFunc, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		entries: make(map[string]*cacheEntry),
		load:    load,
		logger:  logger.With(slog.String("component", "dataset_cache")),
	}
}

// Load returns the dataset at path, re-reading the file when it is new or has
// changed since the last load. The second result is true on a cache hit.
func (c *Cache) Load(path string) (*Dataset, bool, error) {
	key, err := cacheKey(path)
	if err != nil {
		return nil, false, err
	}

	info, err := os.Stat(key)
	if err != nil {
		return nil, false, fmt.Errorf("stat dataset: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if exists && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		c.hits++
		return entry.dataset, true, nil
	}

	c.misses++
	if exists {
		c.reloads++
		c.logger.Info("dataset changed on disk, reloading",
			slog.String("path", key),
			slog.Time("cached_mod_time", entry.modTime),
			slog.Time("mod_time", info.ModTime()))
	}

	ds, err := c.load(key)
	if err != nil {
		delete(c.entries, key)
		return nil, false, err
	}

	c.entries[key] = &cacheEntry{
		dataset: ds,
		modTime: info.ModTime(),
		size:    info.Size(),
	}

	c.logger.Info("dataset loaded",
		slog.String("path", key),
		slog.Int("rows", ds.Len()),
		slog.Int("coercion_failures", ds.Stats.CoercionFailures))

	return ds, false, nil
}

// Invalidate drops the entry for path so the next Load re-reads the file
func (c *Cache) Invalidate(path string) {
	key, err := cacheKey(path)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Purge drops every entry
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// Stats returns cache statistics
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(c.hits) / float64(total)
	}

	return CacheStats{
		Entries:  len(c.entries),
		Hits:     c.hits,
		Misses:   c.misses,
		Reloads:  c.reloads,
		HitRatio: ratio,
	}
}

func cacheKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve dataset path: %w", err)
	}
	return filepath.Clean(abs), nil
}
