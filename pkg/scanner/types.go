// Package scanner finds the files remod works on and, inside each parsed
// file, the component bindings and displayName assignments the edits act on.
package scanner

import (
	"github.com/gnana997/remod/pkg/parser"
)

// ErrParseFailure is returned when a file cannot be parsed cleanly.
var ErrParseFailure = parser.ErrParseFailure

// ScanConfig selects files for a batch run.
type ScanConfig struct {
	// Include glob patterns, relative to the root directory.
	Include []string
	// Exclude glob patterns. Matching directories are not descended into.
	Exclude []string
	// Ignore glob patterns. Matching files are still reported by
	// DiscoverFiles; callers count them as ignored and leave them alone.
	Ignore []string
}

// DefaultExcludes are directories never worth walking.
var DefaultExcludes = []string{
	"node_modules/**",
	".git/**",
	"dist/**",
	"build/**",
	".next/**",
	"coverage/**",
}

// BindingKind records which recognition rule accepted a component.
type BindingKind string

const (
	// BindingArrowExpression is `const X = () => <jsx/>`.
	BindingArrowExpression BindingKind = "arrow-expression"
	// BindingArrowBlock is `const X = () => { return <jsx/>; }`.
	BindingArrowBlock BindingKind = "arrow-block"
	// BindingFunction is `function X() { return <jsx/>; }`.
	BindingFunction BindingKind = "function"
	// BindingWrapped is `const X = memo(() => ...)` and other
	// higher-order-component calls.
	BindingWrapped BindingKind = "wrapped"
)

// ComponentBinding is a named top-level value judged to render JSX.
//
// StartByte/EndByte cover the binding identifier only, never the whole
// declaration.
type ComponentBinding struct {
	Symbol string
	Kind   BindingKind
	// Wrapper is the callee of a BindingWrapped initializer, e.g. "React.memo".
	Wrapper   string
	StartByte uint
	EndByte   uint
}

// DisplayNameAssignment is an existing `X.displayName = ...` statement.
//
// Lines are 0-based and come from the parse that found the statement; they
// are stale as soon as the file text changes.
type DisplayNameAssignment struct {
	Symbol string
	// Value is the right-hand side source text, quotes included.
	Value string
	// IsLiteral reports whether the right-hand side is a string literal.
	IsLiteral bool
	StartLine int
	EndLine   int
	StartByte uint
	EndByte   uint
}

// Covers reports whether an assignment exists for symbol.
func Covers(assignments []DisplayNameAssignment, symbol string) bool {
	for _, a := range assignments {
		if a.Symbol == symbol {
			return true
		}
	}
	return false
}
