package scanner

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// isJSXLike reports whether an expression node is markup: a JSX element,
// self-closing element, fragment or namespaced name, or a parenthesized
// expression wrapping one of those at any depth.
func isJSXLike(node *ts.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment", "jsx_namespace_name":
		return true
	case "parenthesized_expression":
		return isJSXLike(firstNamedChild(node))
	default:
		return false
	}
}

// firstNamedChild returns the first named child that is not a comment.
func firstNamedChild(node *ts.Node) *ts.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && !child.IsExtra() {
			return child
		}
	}
	return nil
}

// namedChildren returns the non-comment named children of node.
func namedChildren(node *ts.Node) []*ts.Node {
	if node == nil {
		return nil
	}
	out := make([]*ts.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && !child.IsExtra() {
			out = append(out, child)
		}
	}
	return out
}

// firstCallArgument returns the first argument of a call_expression, or nil
// for calls without arguments and tagged templates.
func firstCallArgument(call *ts.Node) *ts.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil || args.Kind() != "arguments" {
		return nil
	}
	return firstNamedChild(args)
}

// getCallExpressionCallee returns the callee text of a call_expression.
// Handles "memo(...)" → "memo" and "React.forwardRef(...)" → "React.forwardRef".
func getCallExpressionCallee(node *ts.Node, source []byte) string {
	if node == nil || node.Kind() != "call_expression" {
		return ""
	}
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	return fn.Utf8Text(source)
}

// isFunctionNode reports whether node is an arrow function or function
// expression. Older grammars name the latter "function".
func isFunctionNode(node *ts.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "arrow_function", "function_expression", "function":
		return true
	}
	return false
}
