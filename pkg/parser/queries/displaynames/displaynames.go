// Package displaynames holds the query that finds displayName assignments.
package displaynames

// Queries matches statements of the form
//
//	Button.displayName = "UI_Button";
//
// in both the TSX and JavaScript grammars. The node kinds involved are
// shared by the two grammars, so one pattern serves both.
//
// Each match captures:
//   - @displayname.statement - the whole expression statement
//   - @displayname.symbol    - the identifier left of the dot
//   - @displayname.property  - always the text "displayName"
//   - @displayname.value     - the right-hand side, any expression
const Queries = `
((expression_statement
  (assignment_expression
    left: (member_expression
      object: (identifier) @displayname.symbol
      property: (property_identifier) @displayname.property)
    right: (_) @displayname.value)) @displayname.statement
 (#eq? @displayname.property "displayName"))
`
