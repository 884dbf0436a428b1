package parser

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	"fortio.org/safecast"
	ts "github.com/tree-sitter/go-tree-sitter"
)

// Module is one parsed source file: the bytes, the syntax tree built from
// them and a line index for position conversions. Node offsets from Tree
// are only valid against Source.
type Module struct {
	Source   []byte
	Language Language
	Tree     *ts.Tree
	Lines    *LineIndex
}

func newModule(source []byte, lang Language, tree *ts.Tree) *Module {
	return &Module{
		Source:   source,
		Language: lang,
		Tree:     tree,
		Lines:    NewLineIndex(source),
	}
}

// Root returns the program node.
func (m *Module) Root() *ts.Node {
	return m.Tree.RootNode()
}

// Text returns the source text covered by n.
func (m *Module) Text(n *ts.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(m.Source)
}

// SpanOf converts a node's byte range to line/column positions.
func (m *Module) SpanOf(n *ts.Node) Span {
	return Span{
		Start: m.Lines.Position(n.StartByte()),
		End:   m.Lines.Position(n.EndByte()),
	}
}

// Close frees the syntax tree.
func (m *Module) Close() {
	if m.Tree != nil {
		m.Tree.Close()
		m.Tree = nil
	}
}

// Position is a 0-based line and a 0-based column counted in UTF-16 code
// units, the unit editors speak.
type Position struct {
	Line   uint32 `json:"line"`
	Column uint32 `json:"character"`
}

// Span is a half-open range between two positions.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// LineIndex maps byte offsets of a source text to line/column positions.
type LineIndex struct {
	src    []byte
	starts []int
}

// NewLineIndex records the start offset of every line in src.
func NewLineIndex(src []byte) *LineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, starts: starts}
}

// LineCount returns the number of lines, counting a trailing empty line.
func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

// Line returns the 0-based line containing the byte offset.
func (li *LineIndex) Line(offset uint) int {
	off := li.clamp(offset)
	return sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > off }) - 1
}

// Position converts a byte offset to a line and UTF-16 column. Offsets past
// the end of the text clamp to the end.
func (li *LineIndex) Position(offset uint) Position {
	off := li.clamp(offset)
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > off }) - 1

	col := 0
	for i := li.starts[line]; i < off; {
		r, size := utf8.DecodeRune(li.src[i:])
		if n := utf16.RuneLen(r); n > 0 {
			col += n
		} else {
			col++
		}
		i += size
	}

	l, _ := safecast.Conv[uint32](line)
	c, _ := safecast.Conv[uint32](col)
	return Position{Line: l, Column: c}
}

func (li *LineIndex) clamp(offset uint) int {
	off, err := safecast.Conv[int](offset)
	if err != nil || off > len(li.src) {
		return len(li.src)
	}
	return off
}
