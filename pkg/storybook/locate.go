package storybook

import (
	"fmt"

	"github.com/gnana997/remod/pkg/parser"
	"github.com/gnana997/remod/pkg/parser/queries"
	"github.com/gnana997/remod/pkg/scanner"
)

// LocateStory returns the span of the identifier declaring story in text,
// a story file written by this package. The text is parsed as TypeScript
// regardless of the target extension since the template carries type
// annotations.
func LocateStory(s *scanner.Scanner, target, text, story string) (parser.Span, error) {
	typescript := true
	mod, err := s.ParseSource(target, []byte(text), &typescript)
	if err != nil {
		return parser.Span{}, err
	}
	defer mod.Close()

	matches, err := s.Queries().Run(mod, queries.QueryTypeStoryDeclarations)
	if err != nil {
		return parser.Span{}, err
	}
	for _, m := range matches {
		name := m.Capture("name")
		if name != nil && name.Text == story {
			return mod.SpanOf(name.Node), nil
		}
	}
	return parser.Span{}, fmt.Errorf("story %s not declared in %s", story, target)
}
