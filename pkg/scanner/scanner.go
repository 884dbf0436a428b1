package scanner

import (
	"fmt"
	"log/slog"

	"github.com/gnana997/remod/pkg/parser"
	"github.com/gnana997/remod/pkg/parser/queries"
	"github.com/gnana997/remod/pkg/util"
)

// Scanner parses component files and answers the two questions every remod
// operation starts with: which bindings are components, and which already
// carry a displayName.
type Scanner struct {
	pm  *parser.ParserManager
	qm  *queries.QueryManager
	log *slog.Logger
}

// NewScanner creates a scanner with its own parser and query managers.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	pm := parser.NewParserManager(logger)
	qm := queries.NewQueryManager(pm, logger)
	return &Scanner{pm: pm, qm: qm, log: logger}
}

// Queries exposes the query manager for callers running their own queries.
func (s *Scanner) Queries() *queries.QueryManager {
	return s.qm
}

// ParseFile reads path from disk and parses it. typescript selects the
// grammar as described by parser.ResolveLanguage.
//
// The caller owns the returned module and must Close it.
func (s *Scanner) ParseFile(path string, typescript *bool) (*parser.Module, error) {
	src, err := util.ReadSource(path)
	if err != nil {
		return nil, err
	}
	return s.ParseSource(path, src, typescript)
}

// ParseSource parses src as the contents of path.
func (s *Scanner) ParseSource(path string, src []byte, typescript *bool) (*parser.Module, error) {
	lang := parser.ResolveLanguage(path, typescript)
	mod, err := s.pm.ParseModule(src, lang)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.log.Debug("parsed file", "path", path, "language", lang.String(), "bytes", len(src))
	return mod, nil
}

// Components runs the component discoverer over mod.
func (s *Scanner) Components(mod *parser.Module) []ComponentBinding {
	return DiscoverComponents(mod.Root(), mod.Source)
}

// Assignments returns the displayName assignments in mod.
func (s *Scanner) Assignments(mod *parser.Module) ([]DisplayNameAssignment, error) {
	return FindAssignments(s.qm, mod)
}

// Close releases parser and query manager resources.
func (s *Scanner) Close() {
	s.qm.Close()
	s.pm.Close()
}
