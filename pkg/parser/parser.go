package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/remod/pkg/util"
)

// ErrParseFailure marks source text the grammar could not parse cleanly.
// Callers skip the file rather than edit around a broken tree.
var ErrParseFailure = errors.New("parse failure")

// ParserManager parses TypeScript (TSX grammar) and JavaScript sources with
// one lazily created parser pool per language. It is safe for concurrent
// use. Trees and Modules it returns belong to the caller.
type ParserManager struct {
	mu    sync.Mutex
	pools map[Language]*parserPool

	parses atomic.Int64
	log    *slog.Logger
}

// NewParserManager returns a manager that must be closed after use.
func NewParserManager(logger *slog.Logger) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParserManager{pools: make(map[Language]*parserPool), log: logger}
}

// Parse returns the raw tree for source, syntax errors included. The caller
// closes the tree.
func (pm *ParserManager) Parse(source []byte, lang Language) (*ts.Tree, error) {
	pool, err := pm.pool(lang)
	if err != nil {
		return nil, err
	}
	pm.parses.Add(1)

	p, err := pool.borrow()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", lang, err)
	}
	tree := p.Parse(source, nil)
	pool.giveBack(p)

	if tree == nil {
		return nil, fmt.Errorf("parse %s: no tree produced", lang)
	}
	return tree, nil
}

// ParseModule parses source into a Module. A tree containing ERROR or
// MISSING nodes is rejected with ErrParseFailure.
func (pm *ParserManager) ParseModule(source []byte, lang Language) (*Module, error) {
	tree, err := pm.Parse(source, lang)
	if err != nil {
		return nil, err
	}
	if tree.RootNode().HasError() {
		tree.Close()
		pm.log.Debug("rejecting tree with syntax errors", "language", lang.String())
		return nil, fmt.Errorf("%w: %s source has syntax errors", ErrParseFailure, lang)
	}
	return newModule(source, lang, tree), nil
}

// Close frees every pooled parser.
func (pm *ParserManager) Close() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.log.Debug("closing parser manager", "parses", pm.parses.Load())
	for lang, pool := range pm.pools {
		pool.close()
		delete(pm.pools, lang)
	}
	return nil
}

func (pm *ParserManager) pool(lang Language) (*parserPool, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pool, ok := pm.pools[lang]; ok {
		return pool, nil
	}
	ptr, err := pm.GetLanguagePointer(lang)
	if err != nil {
		return nil, err
	}
	pool := newParserPool(lang, ts.NewLanguage(ptr), util.GetOptimalPoolSize(), pm.log)
	pm.pools[lang] = pool
	return pool, nil
}

// GetLanguagePointer returns the grammar for lang. Queries compile against
// the same pointer so their node kinds match parsed trees.
func (pm *ParserManager) GetLanguagePointer(lang Language) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTypeScript:
		return ts_typescript.LanguageTSX(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang.String())
	}
}

// ParserStats reports pool usage.
type ParserStats struct {
	ParsersCreated int
	ParsesCalled   int
}

// GetStats returns the parsers currently pooled and the parses attempted.
func (pm *ParserManager) GetStats() ParserStats {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	var created int
	for _, pool := range pm.pools {
		created += pool.created()
	}
	return ParserStats{ParsersCreated: created, ParsesCalled: int(pm.parses.Load())}
}
