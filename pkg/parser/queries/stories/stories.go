// Package stories holds the query used to locate story declarations inside a
// generated story file.
package stories

// Queries captures every exported variable declarator:
//
//	export const Button_Primary: Story = { ... };
//
// @story.name is the declared identifier and @story.declaration the
// declarator node. The type annotation is optional so the pattern also
// matches the JavaScript grammar.
const Queries = `
(export_statement
  declaration: (lexical_declaration
    (variable_declarator
      name: (identifier) @story.name) @story.declaration))
`
