// Package queries compiles and runs the tree-sitter queries remod relies on:
// display-name assignments and exported story declarations.
package queries

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"fortio.org/safecast"
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/remod/pkg/parser"
	"github.com/gnana997/remod/pkg/parser/queries/displaynames"
	"github.com/gnana997/remod/pkg/parser/queries/stories"
)

// QueryType identifies which query to execute.
type QueryType int

const (
	// QueryTypeDisplayNames finds `X.displayName = ...` statements.
	QueryTypeDisplayNames QueryType = iota
	// QueryTypeStoryDeclarations finds exported variable declarators in story files.
	QueryTypeStoryDeclarations
)

var sources = map[QueryType]string{
	QueryTypeDisplayNames:      displaynames.Queries,
	QueryTypeStoryDeclarations: stories.Queries,
}

func (qt QueryType) String() string {
	switch qt {
	case QueryTypeDisplayNames:
		return "displaynames"
	case QueryTypeStoryDeclarations:
		return "stories"
	default:
		return "unknown"
	}
}

type cacheKey struct {
	lang  parser.Language
	qtype QueryType
}

// QueryManager compiles each (language, query) pair once and reuses it.
// It is safe for concurrent use; Close frees every compiled query.
type QueryManager struct {
	pm  *parser.ParserManager
	log *slog.Logger

	mu       sync.RWMutex
	compiled map[cacheKey]*ts.Query
}

// NewQueryManager returns a manager compiling against pm's grammars.
func NewQueryManager(pm *parser.ParserManager, logger *slog.Logger) *QueryManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryManager{pm: pm, log: logger, compiled: make(map[cacheKey]*ts.Query)}
}

// GetQuery returns the compiled query for lang, compiling it on first use.
// Compilation uses the same grammar pointer the parsers use so node kinds
// agree.
func (qm *QueryManager) GetQuery(lang parser.Language, qtype QueryType) (*ts.Query, error) {
	key := cacheKey{lang: lang, qtype: qtype}

	qm.mu.RLock()
	q, ok := qm.compiled[key]
	qm.mu.RUnlock()
	if ok {
		return q, nil
	}

	qm.mu.Lock()
	defer qm.mu.Unlock()
	if q, ok := qm.compiled[key]; ok {
		return q, nil
	}

	src, ok := sources[qtype]
	if !ok {
		return nil, fmt.Errorf("unknown query type: %d", qtype)
	}
	ptr, err := qm.pm.GetLanguagePointer(lang)
	if err != nil {
		return nil, fmt.Errorf("%s query: %w", qtype, err)
	}
	q, qerr := ts.NewQuery(ts.NewLanguage(ptr), src)
	if qerr != nil {
		return nil, fmt.Errorf("compile %s query for %s: %s", qtype, lang, qerr.Message)
	}

	qm.compiled[key] = q
	qm.log.Debug("compiled query", "language", lang.String(), "type", qtype.String())
	return q, nil
}

// Run executes qtype against mod's tree with the query for mod's language.
func (qm *QueryManager) Run(mod *parser.Module, qtype QueryType) ([]QueryMatch, error) {
	q, err := qm.GetQuery(mod.Language, qtype)
	if err != nil {
		return nil, err
	}
	return qm.ExecuteQuery(mod.Tree, q, mod.Source)
}

// ExecuteQuery returns the matches of query over tree in document order.
func (qm *QueryManager) ExecuteQuery(tree *ts.Tree, query *ts.Query, source []byte) ([]QueryMatch, error) {
	if tree == nil || query == nil {
		return nil, errors.New("execute query: nil tree or query")
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	names := query.CaptureNames()
	var matches []QueryMatch
	for it := cursor.Matches(query, tree.RootNode(), source); ; {
		m := it.Next()
		if m == nil {
			break
		}

		caps := make([]QueryCapture, 0, len(m.Captures))
		for _, c := range m.Captures {
			node := c.Node
			var name string
			if int(c.Index) < len(names) {
				name = names[c.Index]
			}
			caps = append(caps, QueryCapture{
				Name:     name,
				Field:    captureField(name),
				Node:     &node,
				Text:     node.Utf8Text(source),
				Location: locate(&node),
			})
		}
		matches = append(matches, QueryMatch{PatternIndex: uint32(m.PatternIndex), Captures: caps})
	}
	return matches, nil
}

// Close frees the compiled queries. The manager must not be used afterwards.
func (qm *QueryManager) Close() error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	qm.log.Debug("closing query manager", "compiled", len(qm.compiled))
	for key, q := range qm.compiled {
		q.Close()
		delete(qm.compiled, key)
	}
	return nil
}

// QueryMatch is one pattern match.
type QueryMatch struct {
	PatternIndex uint32
	Captures     []QueryCapture
}

// Capture returns the first capture named <category>.field, or nil.
func (m QueryMatch) Capture(field string) *QueryCapture {
	for i := range m.Captures {
		if m.Captures[i].Field == field {
			return &m.Captures[i]
		}
	}
	return nil
}

// QueryCapture is one captured node.
type QueryCapture struct {
	// Name is the full capture name, e.g. "displayname.symbol".
	Name string
	// Field is the part after the first dot, e.g. "symbol".
	Field    string
	Node     *ts.Node
	Text     string
	Location Location
}

// Location holds 0-based rows and byte columns, matching the line indexes
// the display-name patch sets use.
type Location struct {
	StartLine   uint32
	StartColumn uint32
	EndLine     uint32
	EndColumn   uint32
}

func captureField(name string) string {
	if _, field, ok := strings.Cut(name, "."); ok {
		return field
	}
	return ""
}

func locate(node *ts.Node) Location {
	conv := func(v uint) uint32 {
		out, _ := safecast.Conv[uint32](v)
		return out
	}
	start, end := node.StartPosition(), node.EndPosition()
	return Location{
		StartLine:   conv(start.Row),
		StartColumn: conv(start.Column),
		EndLine:     conv(end.Row),
		EndColumn:   conv(end.Column),
	}
}
