// Package displayname adds, removes and renames `X.displayName = "..."`
// statements in component files.
//
// Every edit starts from a fresh read and parse of the file so line numbers
// always describe the text being rewritten.
package displayname

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnana997/remod/pkg/scanner"
	"github.com/gnana997/remod/pkg/util"
)

var (
	// ErrFileIO wraps failures reading or writing a component file.
	ErrFileIO = errors.New("file i/o failure")
	// ErrMissingPrefix is returned when rename has no prefix to use.
	ErrMissingPrefix = errors.New("cannot proceed without prefix argument")
)

// Statement returns the assignment line written for symbol.
func Statement(symbol, prefix string) string {
	return fmt.Sprintf(`%s.displayName = "%s_%s"`, symbol, prefix, symbol)
}

// Result describes the edit made to one file.
type Result struct {
	Path string
	// Modified is true when the file was written.
	Modified bool
	// Added lists symbols that received a new assignment.
	Added []string
	// Existing lists components that already had an assignment.
	Existing []string
	// Removed counts deleted assignments.
	Removed int
	// Renamed lists symbols whose literal assignment was rewritten.
	Renamed []string
	// Diff holds the unified diff of the edit in dry-run mode, where
	// Modified means the file would have been written.
	Diff string
}

// Engine edits display names one file at a time.
type Engine struct {
	scanner    *scanner.Scanner
	typescript *bool
	dryRun     bool
	log        *slog.Logger
}

// NewEngine returns an engine parsing with s. typescript selects the grammar
// as parser.ResolveLanguage does.
func NewEngine(s *scanner.Scanner, typescript *bool, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{scanner: s, typescript: typescript, log: logger}
}

// WithDryRun returns a copy of e that computes edits as diffs instead of
// writing them.
func (e *Engine) WithDryRun() *Engine {
	c := *e
	c.dryRun = true
	return &c
}

// PlanAdd returns the text to append to src so every component in comps
// without an assignment gets one, along with the symbols added and those
// already covered. The text is empty when nothing needs adding.
func PlanAdd(src []byte, comps []scanner.ComponentBinding, existing []scanner.DisplayNameAssignment, prefix string) (string, []string, []string) {
	var added, covered []string
	seen := make(map[string]bool)

	var lines []string
	for _, c := range comps {
		if scanner.Covers(existing, c.Symbol) {
			covered = append(covered, c.Symbol)
			continue
		}
		if seen[c.Symbol] {
			continue
		}
		seen[c.Symbol] = true
		added = append(added, c.Symbol)
		lines = append(lines, Statement(c.Symbol, prefix))
	}
	if len(lines) == 0 {
		return "", added, covered
	}

	var b strings.Builder
	if len(src) > 0 && src[len(src)-1] != '\n' {
		b.WriteByte('\n')
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteByte('\n')
	return b.String(), added, covered
}

// PlanRemove returns a patch set dropping every assignment's lines.
func PlanRemove(existing []scanner.DisplayNameAssignment) PatchSet {
	ps := make(PatchSet, 0, len(existing))
	for _, a := range existing {
		ps = append(ps, Drop(a.StartLine, a.EndLine))
	}
	return ps
}

// PlanRename returns a patch set rewriting every string-literal assignment
// with prefix, and the symbols it touches. Assignments whose value is not a
// string literal are left alone.
func PlanRename(existing []scanner.DisplayNameAssignment, prefix string) (PatchSet, []string) {
	var (
		ps      PatchSet
		renamed []string
	)
	for _, a := range existing {
		if !a.IsLiteral {
			continue
		}
		ps = append(ps, Replace(a.StartLine, a.EndLine, Statement(a.Symbol, prefix)))
		renamed = append(renamed, a.Symbol)
	}
	return ps, renamed
}

// Add appends an assignment for every component in path that lacks one.
// An empty prefix still writes, giving "_<symbol>". A file without
// uncovered components is not written.
func (e *Engine) Add(path, prefix string) (Result, error) {
	res := Result{Path: path}

	src, comps, existing, err := e.analyze(path)
	if err != nil {
		return res, err
	}

	text, added, covered := PlanAdd(src, comps, existing, prefix)
	res.Added, res.Existing = added, covered
	if text == "" {
		return res, nil
	}

	if e.dryRun {
		return e.preview(res, string(src), string(src)+text)
	}
	if err := appendFile(path, text); err != nil {
		return res, err
	}
	res.Modified = true
	e.log.Debug("added display names", "path", path, "symbols", added)
	return res, nil
}

// Remove deletes every display-name assignment in path.
func (e *Engine) Remove(path string) (Result, error) {
	res := Result{Path: path}

	src, _, existing, err := e.analyze(path)
	if err != nil {
		return res, err
	}
	if len(existing) == 0 {
		return res, nil
	}

	res.Removed = len(existing)
	out := PlanRemove(existing).Apply(string(src))
	if e.dryRun {
		return e.preview(res, string(src), out)
	}
	if err := rewriteFile(path, out); err != nil {
		return res, err
	}
	res.Modified = true
	e.log.Debug("removed display names", "path", path, "count", len(existing))
	return res, nil
}

// Rename rewrites every string-literal assignment in path with prefix.
func (e *Engine) Rename(path, prefix string) (Result, error) {
	res := Result{Path: path}
	if prefix == "" {
		return res, ErrMissingPrefix
	}

	src, _, existing, err := e.analyze(path)
	if err != nil {
		return res, err
	}

	ps, renamed := PlanRename(existing, prefix)
	if len(ps) == 0 {
		return res, nil
	}

	res.Renamed = renamed
	out := ps.Apply(string(src))
	if e.dryRun {
		return e.preview(res, string(src), out)
	}
	if err := rewriteFile(path, out); err != nil {
		return res, err
	}
	res.Modified = true
	e.log.Debug("renamed display names", "path", path, "symbols", renamed)
	return res, nil
}

func (e *Engine) preview(res Result, before, after string) (Result, error) {
	diff, err := UnifiedDiff(res.Path, before, after)
	if err != nil {
		return res, err
	}
	res.Diff = diff
	res.Modified = diff != ""
	return res, nil
}

// analyze reads and parses path and runs both discovery passes.
func (e *Engine) analyze(path string) ([]byte, []scanner.ComponentBinding, []scanner.DisplayNameAssignment, error) {
	src, err := util.ReadSource(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrFileIO, err)
	}

	mod, err := e.scanner.ParseSource(path, src, e.typescript)
	if err != nil {
		return nil, nil, nil, err
	}
	defer mod.Close()

	assignments, err := e.scanner.Assignments(mod)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, e.scanner.Components(mod), assignments, nil
}

func appendFile(path, text string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileIO, err)
	}
	defer f.Close()

	if _, err := f.WriteString(text); err != nil {
		return fmt.Errorf("%w: append %s: %v", ErrFileIO, path, err)
	}
	return nil
}

func rewriteFile(path, text string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileIO, err)
	}
	defer f.Close()

	if _, err := f.WriteString(text); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrFileIO, path, err)
	}
	return nil
}
