package util

import "runtime"

// GetOptimalPoolSize returns the number of tree-sitter parsers kept per grammar.
//
// Formula: min(max(runtime.NumCPU(), 2), 8)
//
// Batch commands parse one file at a time; the pool only grows past one
// parser when the language server handles lens and command requests for
// different documents concurrently.
func GetOptimalPoolSize() int {
	size := runtime.NumCPU()
	if size < 2 {
		size = 2
	}
	if size > 8 {
		size = 8
	}
	return size
}
