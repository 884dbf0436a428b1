package scanner

import (
	"fmt"

	"github.com/gnana997/remod/pkg/parser"
	"github.com/gnana997/remod/pkg/parser/queries"
)

// FindAssignments returns every `X.displayName = ...` statement in the
// module, in source order. Line numbers are taken from mod's own tree.
func FindAssignments(qm *queries.QueryManager, mod *parser.Module) ([]DisplayNameAssignment, error) {
	matches, err := qm.Run(mod, queries.QueryTypeDisplayNames)
	if err != nil {
		return nil, fmt.Errorf("display name query: %w", err)
	}

	assignments := make([]DisplayNameAssignment, 0, len(matches))
	for _, m := range matches {
		stmt := m.Capture("statement")
		symbol := m.Capture("symbol")
		value := m.Capture("value")
		if stmt == nil || symbol == nil || value == nil {
			continue
		}

		assignments = append(assignments, DisplayNameAssignment{
			Symbol:    symbol.Text,
			Value:     value.Text,
			IsLiteral: value.Node.Kind() == "string",
			StartLine: int(stmt.Location.StartLine),
			EndLine:   int(stmt.Location.EndLine),
			StartByte: stmt.Node.StartByte(),
			EndByte:   stmt.Node.EndByte(),
		})
	}
	return assignments, nil
}
