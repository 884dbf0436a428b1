package lsp

import (
	"sync"

	"github.com/gnana997/remod/pkg/util"
)

// Documents tracks the text of documents open in the editor. Closed
// documents are read from disk through a SourceCache.
type Documents struct {
	mu    sync.RWMutex
	open  map[string]buffer
	cache *util.SourceCache
}

type buffer struct {
	version int32
	text    string
}

// NewDocuments returns an empty overlay over cache. A nil cache reads the
// disk on every lookup.
func NewDocuments(cache *util.SourceCache) *Documents {
	return &Documents{open: make(map[string]buffer), cache: cache}
}

// Open records the editor's text for path at version.
func (d *Documents) Open(path string, version int32, text string) {
	d.mu.Lock()
	d.open[path] = buffer{version: version, text: text}
	d.mu.Unlock()
}

// Change replaces the text of an open document and reports whether it was
// applied. A change older than the stored version is dropped; a nil
// version always applies. Changes to documents that were never opened are
// recorded as opens.
func (d *Documents) Change(path string, version *int32, text string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	cur, ok := d.open[path]
	if version == nil {
		d.open[path] = buffer{version: cur.version, text: text}
		return true
	}
	if ok && *version < cur.version {
		return false
	}
	d.open[path] = buffer{version: *version, text: text}
	return true
}

// Version returns the stored version of an open document.
func (d *Documents) Version(path string) (int32, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	b, ok := d.open[path]
	return b.version, ok
}

// Close forgets the buffer for path; later reads go to disk.
func (d *Documents) Close(path string) {
	d.mu.Lock()
	delete(d.open, path)
	d.mu.Unlock()
}

// IsOpen reports whether the editor has path open.
func (d *Documents) IsOpen(path string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.open[path]
	return ok
}

// Source returns the buffer for path if it is open, otherwise the file
// contents.
func (d *Documents) Source(path string) ([]byte, error) {
	d.mu.RLock()
	b, ok := d.open[path]
	d.mu.RUnlock()
	if ok {
		return []byte(b.text), nil
	}
	if d.cache != nil {
		return d.cache.Read(path)
	}
	return util.ReadSource(path)
}

// Invalidate drops any cached disk contents for path.
func (d *Documents) Invalidate(path string) {
	if d.cache != nil {
		d.cache.Invalidate(path)
	}
}
