package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/remod/pkg/parser"
)

func discover(t *testing.T, src string, lang parser.Language) []ComponentBinding {
	t.Helper()
	pm := parser.NewParserManager(nil)
	defer pm.Close()

	mod, err := pm.ParseModule([]byte(src), lang)
	require.NoError(t, err)
	defer mod.Close()

	return DiscoverComponents(mod.Root(), mod.Source)
}

func symbols(bindings []ComponentBinding) []string {
	out := make([]string, len(bindings))
	for i, b := range bindings {
		out[i] = b.Symbol
	}
	return out
}

func TestDiscoverComponents_RecognizedShapes(t *testing.T) {
	src := `const Foo = () => <div/>;
const Bar = () => { return <div/>; };
function Baz() { return <div/>; }
const Wrapped = memo(function() { return <div/>; });
const notAComponent = () => 42;
`
	for _, lang := range []parser.Language{parser.LanguageTypeScript, parser.LanguageJavaScript} {
		t.Run(lang.String(), func(t *testing.T) {
			got := discover(t, src, lang)
			assert.Equal(t, []string{"Foo", "Bar", "Baz", "Wrapped"}, symbols(got))

			require.Len(t, got, 4)
			assert.Equal(t, BindingArrowExpression, got[0].Kind)
			assert.Equal(t, BindingArrowBlock, got[1].Kind)
			assert.Equal(t, BindingFunction, got[2].Kind)
			assert.Equal(t, BindingWrapped, got[3].Kind)
			assert.Equal(t, "memo", got[3].Wrapper)
		})
	}
}

func TestDiscoverComponents_Fixture(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "components", "Shapes.tsx"))
	require.NoError(t, err)

	got := discover(t, string(src), parser.LanguageTypeScript)
	assert.Equal(t, []string{
		"ArrowExpression",
		"ArrowBlock",
		"FunctionDeclaration",
		"FragmentBlock",
		"MemberForwardRef",
		"PlainForwardRef",
		"Memoized",
	}, symbols(got))

	byName := make(map[string]ComponentBinding)
	for _, b := range got {
		byName[b.Symbol] = b
	}
	assert.Equal(t, "React.forwardRef", byName["MemberForwardRef"].Wrapper)
	assert.Equal(t, "forwardRef", byName["PlainForwardRef"].Wrapper)
	assert.Equal(t, BindingWrapped, byName["Memoized"].Kind)
}

func TestDiscoverComponents_SpanIsIdentifier(t *testing.T) {
	src := "export const Widget = (props: { a: string }) => <div>{props.a}</div>;\n"
	got := discover(t, src, parser.LanguageTypeScript)
	require.Len(t, got, 1)

	assert.Equal(t, "Widget", src[got[0].StartByte:got[0].EndByte])
}

func TestDiscoverComponents_Rejections(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"number arrow", "const a = () => 42;"},
		{"object literal", "const b = { render: () => <div/> };"},
		{"class", "class C { render() { return <div/>; } }"},
		{"call without function argument", "const d = styled(Button);"},
		{"call with no arguments", "const e = make();"},
		{"destructuring", "const { F } = { F: () => <div/> };"},
		{"nested return only", "const G = (x) => { if (x) { return <div/>; } return null; };"},
		{"string return", "function H() { return 'div'; }"},
		{"nested declaration", "function outer() { const Inner = () => <div/>; return 1; }"},
		{"uninitialized", "let I;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, discover(t, tt.src, parser.LanguageJavaScript))
		})
	}
}

func TestDiscoverComponents_ParenthesizedDepth(t *testing.T) {
	got := discover(t, "const P = () => (((<div/>)));", parser.LanguageJavaScript)
	assert.Equal(t, []string{"P"}, symbols(got))
}

func TestDiscoverComponents_MultipleReturnsReportedOnce(t *testing.T) {
	src := `const M = () => {
  return <a/>;
  return <b/>;
};`
	got := discover(t, src, parser.LanguageJavaScript)
	assert.Len(t, got, 1)
}

func TestDiscoverComponents_DuplicateNamesPreserved(t *testing.T) {
	src := `var Dup = () => <a/>;
var Dup = () => <b/>;
`
	got := discover(t, src, parser.LanguageJavaScript)
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0].StartByte, got[1].StartByte)
}

func TestDiscoverComponents_MultipleDeclarators(t *testing.T) {
	got := discover(t, "const A = () => <a/>, n = 1, B = () => <b/>;", parser.LanguageJavaScript)
	assert.Equal(t, []string{"A", "B"}, symbols(got))
}

func TestDiscoverComponents_CommentBeforeReturnValue(t *testing.T) {
	got := discover(t, "function K() { return /* markup */ <div/>; }", parser.LanguageJavaScript)
	assert.Equal(t, []string{"K"}, symbols(got))
}

func TestDiscoverComponents_FunctionExpressionInitializer(t *testing.T) {
	got := discover(t, "const F = function () { return <div/>; };", parser.LanguageJavaScript)
	require.Len(t, got, 1)
	assert.Equal(t, BindingFunction, got[0].Kind)
}

func TestDiscoverComponents_ExportDefaultFunction(t *testing.T) {
	got := discover(t, "export default function Page() { return <main/>; }", parser.LanguageTypeScript)
	assert.Equal(t, []string{"Page"}, symbols(got))
}
