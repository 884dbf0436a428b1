// Package parser turns component sources into tree-sitter trees and keeps
// the byte offset to line and column tables edits are computed from.
package parser

import (
	"path/filepath"
	"strings"
)

// Language is the syntax mode used to parse a component file.
type Language int

const (
	// LanguageTypeScript parses with the TSX grammar (TypeScript with JSX).
	LanguageTypeScript Language = iota
	// LanguageJavaScript parses with the JavaScript grammar, which accepts JSX.
	LanguageJavaScript
	// LanguageUnknown represents an unsupported language
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// DetectLanguage detects the syntax mode from a file path.
// Returns LanguageUnknown if the file extension is not recognized.
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".ts", ".tsx", ".mts", ".cts":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// ResolveLanguage picks the syntax mode for a file.
//
// An explicit typescript setting wins: true selects TypeScript-with-JSX,
// false selects JavaScript-with-JSX. When unset, the file extension decides,
// and unrecognized extensions fall back to JavaScript.
func ResolveLanguage(filePath string, typescript *bool) Language {
	if typescript != nil {
		if *typescript {
			return LanguageTypeScript
		}
		return LanguageJavaScript
	}
	if DetectLanguage(filePath) == LanguageTypeScript {
		return LanguageTypeScript
	}
	return LanguageJavaScript
}

// IsSourceFile reports whether the path has a TypeScript or JavaScript extension.
func IsSourceFile(filePath string) bool {
	return DetectLanguage(filePath) != LanguageUnknown
}
