package displayname

import (
	"sort"
	"strings"
)

// Patch replaces the inclusive, 0-based line range [StartLine, EndLine].
// A nil Replacement drops the lines; otherwise the whole range becomes the
// single replacement line.
//
// Edits are line-granular: anything else written on a patched line goes
// with it.
type Patch struct {
	StartLine   int
	EndLine     int
	Replacement *string
}

// Drop returns a patch removing lines start..end.
func Drop(start, end int) Patch {
	return Patch{StartLine: start, EndLine: end}
}

// Replace returns a patch rewriting lines start..end as line.
func Replace(start, end int, line string) Patch {
	return Patch{StartLine: start, EndLine: end, Replacement: &line}
}

// PatchSet is a collection of line-range patches applied to a text in one
// pass over its lines.
type PatchSet []Patch

// Apply returns text with every patch applied. Line breaks are "\n"; a
// trailing newline in text is kept. When ranges overlap, the patch that
// starts first owns the shared lines.
func (ps PatchSet) Apply(text string) string {
	if len(ps) == 0 {
		return text
	}

	patches := make([]Patch, len(ps))
	copy(patches, ps)
	sort.SliceStable(patches, func(i, j int) bool {
		return patches[i].StartLine < patches[j].StartLine
	})

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	next := 0
	for i := 0; i < len(lines); {
		for next < len(patches) && patches[next].EndLine < i {
			next++
		}
		if next < len(patches) && patches[next].StartLine <= i {
			p := patches[next]
			if p.Replacement != nil && p.StartLine == i {
				out = append(out, *p.Replacement)
			}
			i = p.EndLine + 1
			next++
			continue
		}
		out = append(out, lines[i])
		i++
	}

	return strings.Join(out, "\n")
}
