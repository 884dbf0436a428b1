package queries

import (
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/remod/pkg/parser"
)

var (
	testLogger        *slog.Logger
	testParserManager *parser.ParserManager
	testQueryManager  *QueryManager
)

func setupTest(t *testing.T) {
	t.Helper()

	testLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	testParserManager = parser.NewParserManager(testLogger)
	testQueryManager = NewQueryManager(testParserManager, testLogger)
}

func teardownTest(t *testing.T) {
	t.Helper()

	if testQueryManager != nil {
		testQueryManager.Close()
	}
	if testParserManager != nil {
		testParserManager.Close()
	}
}

func parseModule(t *testing.T, src string, lang parser.Language) *parser.Module {
	t.Helper()
	mod, err := testParserManager.ParseModule([]byte(src), lang)
	require.NoError(t, err)
	t.Cleanup(mod.Close)
	return mod
}

func TestQueryCompilation(t *testing.T) {
	setupTest(t)
	defer teardownTest(t)

	for _, lang := range []parser.Language{parser.LanguageTypeScript, parser.LanguageJavaScript} {
		for _, qtype := range []QueryType{QueryTypeDisplayNames, QueryTypeStoryDeclarations} {
			query, err := testQueryManager.GetQuery(lang, qtype)
			if err != nil {
				t.Fatalf("failed to compile %s query for %s: %v", qtype, lang, err)
			}
			if query == nil {
				t.Fatal("compiled query is nil")
			}
		}
	}
}

func TestQueryCompilation_UnknownLanguage(t *testing.T) {
	setupTest(t)
	defer teardownTest(t)

	_, err := testQueryManager.GetQuery(parser.LanguageUnknown, QueryTypeDisplayNames)
	assert.Error(t, err)
}

func TestQueryExecution_DisplayNames(t *testing.T) {
	setupTest(t)
	defer teardownTest(t)

	src := `const Button = () => <button />;
Button.displayName = "UI_Button";
Button.propTypes = {};
Card.displayName = label;
window.title = "x";
`
	for _, lang := range []parser.Language{parser.LanguageTypeScript, parser.LanguageJavaScript} {
		t.Run(lang.String(), func(t *testing.T) {
			mod := parseModule(t, src, lang)

			matches, err := testQueryManager.Run(mod, QueryTypeDisplayNames)
			require.NoError(t, err)
			require.Len(t, matches, 2, "only displayName assignments should match")

			first := matches[0]
			assert.Equal(t, "Button", first.Capture("symbol").Text)
			assert.Equal(t, `"UI_Button"`, first.Capture("value").Text)
			assert.Equal(t, "string", first.Capture("value").Node.Kind())
			assert.Equal(t, uint32(1), first.Capture("statement").Location.StartLine)

			second := matches[1]
			assert.Equal(t, "Card", second.Capture("symbol").Text)
			assert.Equal(t, "identifier", second.Capture("value").Node.Kind())
		})
	}
}

func TestQueryExecution_StoryDeclarations(t *testing.T) {
	setupTest(t)
	defer teardownTest(t)

	src := `import type { Meta, StoryObj } from '@storybook/react';
import { Widget } from './Widget';

const meta: Meta<typeof Widget> = { component: Widget };
export default meta;

export const Widget_Primary: Story = {
  render: (args) => <Widget {...args} />,
};
`
	mod := parseModule(t, src, parser.LanguageTypeScript)

	matches, err := testQueryManager.Run(mod, QueryTypeStoryDeclarations)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	name := matches[0].Capture("name")
	require.NotNil(t, name)
	assert.Equal(t, "Widget_Primary", name.Text)
	assert.Equal(t, uint32(6), name.Location.StartLine)
	assert.Equal(t, uint32(13), name.Location.StartColumn)
}

func TestExecuteQuery_NilInputs(t *testing.T) {
	setupTest(t)
	defer teardownTest(t)

	query, err := testQueryManager.GetQuery(parser.LanguageJavaScript, QueryTypeDisplayNames)
	require.NoError(t, err)

	_, err = testQueryManager.ExecuteQuery(nil, query, nil)
	assert.Error(t, err)

	mod := parseModule(t, "let a = 1;", parser.LanguageJavaScript)
	_, err = testQueryManager.ExecuteQuery(mod.Tree, nil, mod.Source)
	assert.Error(t, err)
}

func TestCaptureField(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"displayname.symbol", "symbol"},
		{"story.name", "name"},
		{"plain", ""},
		{"a.b.c", "b.c"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, captureField(tt.input))
		})
	}
}

func TestQueryCache(t *testing.T) {
	setupTest(t)
	defer teardownTest(t)

	query1, err := testQueryManager.GetQuery(parser.LanguageTypeScript, QueryTypeDisplayNames)
	require.NoError(t, err)
	query2, err := testQueryManager.GetQuery(parser.LanguageTypeScript, QueryTypeDisplayNames)
	require.NoError(t, err)

	if query1 != query2 {
		t.Error("expected cached query to return same pointer")
	}
}

func TestConcurrentQueryExecution(t *testing.T) {
	setupTest(t)
	defer teardownTest(t)

	src := []byte("const A = () => <a />;\nA.displayName = \"X_A\";\n")

	var wg sync.WaitGroup
	errs := make(chan error, 20)

	for i := 0; i < 20; i++ {
		lang := parser.LanguageTypeScript
		if i%2 == 1 {
			lang = parser.LanguageJavaScript
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			mod, err := testParserManager.ParseModule(src, lang)
			if err != nil {
				errs <- err
				return
			}
			defer mod.Close()

			matches, err := testQueryManager.Run(mod, QueryTypeDisplayNames)
			if err != nil {
				errs <- err
				return
			}
			if len(matches) != 1 {
				errs <- assert.AnError
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent query failed: %v", err)
	}
}
