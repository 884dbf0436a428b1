package scanner

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// DiscoverComponents returns the component bindings declared at the top level
// of a parsed module, in source order.
//
// Recognized shapes:
//
//	const A = () => <div />                  // arrow, expression body
//	const B = () => { return <div />; }      // arrow, block body
//	function C() { return <div />; }         // function declaration
//	const D = memo(function () { ... })      // first call argument is a function
//
// A block body qualifies when any of its direct return statements returns
// markup; the binding is reported once however many returns qualify.
// Bindings with the same name are reported separately.
//
// DiscoverComponents holds no state and does not retain root or source.
func DiscoverComponents(root *ts.Node, source []byte) []ComponentBinding {
	var components []ComponentBinding
	for _, stmt := range namedChildren(root) {
		components = append(components, statementBindings(stmt, source)...)
	}
	return components
}

// statementBindings matches one top-level statement.
func statementBindings(stmt *ts.Node, source []byte) []ComponentBinding {
	switch stmt.Kind() {
	case "export_statement":
		if decl := stmt.ChildByFieldName("declaration"); decl != nil {
			return statementBindings(decl, source)
		}
		return nil

	case "lexical_declaration", "variable_declaration":
		var out []ComponentBinding
		for _, child := range namedChildren(stmt) {
			if child.Kind() != "variable_declarator" {
				continue
			}
			if b, ok := declaratorBinding(child, source); ok {
				out = append(out, b)
			}
		}
		return out

	case "function_declaration":
		name := stmt.ChildByFieldName("name")
		if name == nil || !blockReturnsJSX(stmt.ChildByFieldName("body")) {
			return nil
		}
		return []ComponentBinding{newBinding(name, source, BindingFunction, "")}

	default:
		return nil
	}
}

// declaratorBinding judges `name = value`. Destructuring patterns never
// name a component.
func declaratorBinding(decl *ts.Node, source []byte) (ComponentBinding, bool) {
	name := decl.ChildByFieldName("name")
	if name == nil || name.Kind() != "identifier" {
		return ComponentBinding{}, false
	}
	value := decl.ChildByFieldName("value")
	if value == nil {
		return ComponentBinding{}, false
	}

	switch value.Kind() {
	case "arrow_function", "function_expression", "function":
		if kind, ok := judgeFunction(value); ok {
			return newBinding(name, source, kind, ""), true
		}

	case "call_expression":
		arg := firstCallArgument(value)
		if !isFunctionNode(arg) {
			return ComponentBinding{}, false
		}
		if _, ok := judgeFunction(arg); ok {
			return newBinding(name, source, BindingWrapped, getCallExpressionCallee(value, source)), true
		}
	}
	return ComponentBinding{}, false
}

// judgeFunction decides whether a function-valued expression renders markup.
func judgeFunction(fn *ts.Node) (BindingKind, bool) {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return "", false
	}

	if body.Kind() == "statement_block" {
		if !blockReturnsJSX(body) {
			return "", false
		}
		if fn.Kind() == "arrow_function" {
			return BindingArrowBlock, true
		}
		return BindingFunction, true
	}

	if isJSXLike(body) {
		return BindingArrowExpression, true
	}
	return "", false
}

// blockReturnsJSX inspects the direct statements of a block. Returns nested
// in if/else or loops are not considered.
func blockReturnsJSX(block *ts.Node) bool {
	if block == nil || block.Kind() != "statement_block" {
		return false
	}
	for _, stmt := range namedChildren(block) {
		if stmt.Kind() != "return_statement" {
			continue
		}
		if isJSXLike(firstNamedChild(stmt)) {
			return true
		}
	}
	return false
}

func newBinding(name *ts.Node, source []byte, kind BindingKind, wrapper string) ComponentBinding {
	return ComponentBinding{
		Symbol:    name.Utf8Text(source),
		Kind:      kind,
		Wrapper:   wrapper,
		StartByte: name.StartByte(),
		EndByte:   name.EndByte(),
	}
}
