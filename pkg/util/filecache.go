package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/edsrzf/mmap-go"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ReadSource returns the full contents of a source file.
//
// The file is memory-mapped read-only and copied into a Go-owned slice, so
// the returned bytes stay valid after the file is rewritten or truncated.
// Falls back to os.ReadFile when the mapping fails.
func ReadSource(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read %s: is a directory", path)
	}
	if info.Size() == 0 {
		// mmap rejects zero-length regions.
		return []byte{}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", path, readErr)
		}
		return data, nil
	}
	data := make([]byte, len(m))
	copy(data, m)
	if err := m.Unmap(); err != nil {
		return nil, fmt.Errorf("unmap %s: %w", path, err)
	}
	return data, nil
}

// SourceCache keeps recently read source files in memory, keyed by path.
//
// An entry is served only while the file's size and modification time still
// match what was recorded at load time; Invalidate drops an entry eagerly
// (the language server calls it from its file watcher).
//
// Thread-safe: the underlying LRU is synchronized.
type SourceCache struct {
	entries *lru.Cache[string, cachedSource]
	logger  *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

type cachedSource struct {
	size    int64
	modTime time.Time
	data    []byte
}

// SourceCacheStats reports cache effectiveness.
type SourceCacheStats struct {
	Cached int
	Hits   int64
	Misses int64
}

// NewSourceCache creates a cache holding at most maxFiles sources.
func NewSourceCache(maxFiles int, logger *slog.Logger) (*SourceCache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if maxFiles <= 0 {
		maxFiles = 256
	}
	entries, err := lru.New[string, cachedSource](maxFiles)
	if err != nil {
		return nil, fmt.Errorf("create source cache: %w", err)
	}
	return &SourceCache{entries: entries, logger: logger}, nil
}

// Read returns the contents of path, loading it through ReadSource on a miss
// or when the file changed on disk since it was cached.
//
// Callers must treat the returned slice as read-only.
func (c *SourceCache) Read(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		c.entries.Remove(path)
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if entry, ok := c.entries.Get(path); ok &&
		entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		c.hits.Add(1)
		return entry.data, nil
	}

	c.misses.Add(1)
	data, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	c.entries.Add(path, cachedSource{size: info.Size(), modTime: info.ModTime(), data: data})
	c.logger.Debug("cached source", "path", path, "bytes", len(data))
	return data, nil
}

// Invalidate drops path from the cache.
func (c *SourceCache) Invalidate(path string) {
	if c.entries.Remove(path) {
		c.logger.Debug("invalidated cached source", "path", path)
	}
}

// Stats returns current cache metrics.
func (c *SourceCache) Stats() SourceCacheStats {
	return SourceCacheStats{
		Cached: c.entries.Len(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
