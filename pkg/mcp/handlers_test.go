package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/remod/pkg/displayname"
	"github.com/gnana997/remod/pkg/scanner"
	"github.com/gnana997/remod/pkg/storybook"
)

// --- helpers ---

const widgetSource = `export const Widget = (props: { label: string }) => <div>{props.label}</div>;
`

func testServer(t *testing.T, journal *Journal) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "components", "legacy"), 0755))
	writeFile(t, filepath.Join(root, "components", "Widget.tsx"), widgetSource)
	writeFile(t, filepath.Join(root, "components", "legacy", "Old.tsx"), widgetSource)

	sc := scanner.NewScanner(nil)
	t.Cleanup(sc.Close)

	ignore := []string{"**/legacy/**"}
	s := NewServer(Config{
		Scanner: sc,
		Engine:  displayname.NewEngine(sc, nil, nil),
		Generator: &storybook.Generator{
			Scanner:     sc,
			Synthesizer: storybook.NewSynthesizer(""),
			RootDir:     root,
			Ignore:      ignore,
		},
		RootDir: root,
		Ignore:  ignore,
		Prefix:  "App",
		Version: "test",
		Journal: journal,
	})
	return s, root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.MCPServer().GetTool(name)
	require.NotNil(t, tool, "unknown tool: %s", name)

	result, err := tool.Handler(context.Background(), makeRequest(name, args))
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- registration ---

func TestRegisteredTools(t *testing.T) {
	s, _ := testServer(t, nil)

	tools := s.MCPServer().ListTools()
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{
		"list_components",
		"add_display_names",
		"remove_display_names",
		"rename_display_names",
		"create_story",
	}, names)
}

// --- list_components ---

func TestHandleListComponents(t *testing.T) {
	s, root := testServer(t, nil)
	writeFile(t, filepath.Join(root, "components", "Pair.tsx"), `function First() { return <a/>; }
const Second = memo(() => <b/>);
First.displayName = "App_First";
Ghost.displayName = "App_Ghost";
`)

	result := callTool(t, s, "list_components", map[string]any{"path": "components/Pair.tsx"})
	require.False(t, result.IsError, resultText(t, result))

	var out listComponentsResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	require.Len(t, out.Components, 2)

	assert.Equal(t, componentInfo{Name: "First", Kind: "function", Line: 1, Column: 10, DisplayName: `"App_First"`}, out.Components[0])
	assert.Equal(t, componentInfo{Name: "Second", Kind: "wrapped", Wrapper: "memo", Line: 2, Column: 7}, out.Components[1])
	assert.Equal(t, []string{"Ghost"}, out.Orphans)
}

func TestHandleListComponents_Errors(t *testing.T) {
	s, root := testServer(t, nil)
	writeFile(t, filepath.Join(root, "Broken.tsx"), "export const = => <div")

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing path", nil, `required argument "path" not found`},
		{"ignored", map[string]any{"path": "components/legacy/Old.tsx"}, "is ignored by configuration"},
		{"unreadable", map[string]any{"path": "Nope.tsx"}, "cannot parse file"},
		{"syntax error", map[string]any{"path": "Broken.tsx"}, "parse failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, s, "list_components", tt.args)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
		})
	}
}

// --- display names ---

func TestHandleDisplayNames_Lifecycle(t *testing.T) {
	s, root := testServer(t, nil)
	path := filepath.Join(root, "components", "Widget.tsx")

	result := callTool(t, s, "add_display_names", map[string]any{"path": path})
	require.False(t, result.IsError, resultText(t, result))
	var added displayNameResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &added))
	assert.True(t, added.Modified)
	assert.Equal(t, []string{"Widget"}, added.Added)
	assert.Equal(t, widgetSource+`Widget.displayName = "App_Widget"`+"\n", readFile(t, path))

	result = callTool(t, s, "rename_display_names", map[string]any{"path": path, "prefix": "Lib"})
	require.False(t, result.IsError, resultText(t, result))
	assert.Contains(t, readFile(t, path), `Widget.displayName = "Lib_Widget"`)

	result = callTool(t, s, "remove_display_names", map[string]any{"path": path})
	require.False(t, result.IsError, resultText(t, result))
	var removed displayNameResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &removed))
	assert.Equal(t, 1, removed.Removed)
	assert.Equal(t, widgetSource, readFile(t, path))
}

func TestHandleAddDisplayNames_PrefixArgumentWins(t *testing.T) {
	s, root := testServer(t, nil)
	path := filepath.Join(root, "components", "Widget.tsx")

	result := callTool(t, s, "add_display_names", map[string]any{"path": path, "prefix": "Kit"})
	require.False(t, result.IsError)
	assert.Contains(t, readFile(t, path), `"Kit_Widget"`)
}

func TestHandleRenameDisplayNames_RequiresPrefix(t *testing.T) {
	s, _ := testServer(t, nil)

	result := callTool(t, s, "rename_display_names", map[string]any{"path": "components/Widget.tsx"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), `"prefix"`)
}

// --- create_story ---

func TestHandleCreateStory(t *testing.T) {
	s, root := testServer(t, nil)

	result := callTool(t, s, "create_story", map[string]any{"path": "components/Widget.tsx"})
	require.False(t, result.IsError, resultText(t, result))

	var out storyResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, "Widget", out.Component)
	assert.Equal(t, filepath.Join(root, "components", "Widget.stories.tsx"), out.Target)
	assert.Contains(t, readFile(t, out.Target), "export const Widget_Primary: Story = {")

	again := callTool(t, s, "create_story", map[string]any{"path": "components/Widget.tsx"})
	assert.True(t, again.IsError)
	assert.Contains(t, resultText(t, again), "Story already exists for")
}

func TestHandleCreateStory_NamedComponent(t *testing.T) {
	s, root := testServer(t, nil)
	writeFile(t, filepath.Join(root, "components", "Pair.jsx"), "function First() { return <a/>; }\nconst Second = () => <b/>;\n")

	result := callTool(t, s, "create_story", map[string]any{"path": "components/Pair.jsx", "component": "Second"})
	require.False(t, result.IsError, resultText(t, result))
	assert.Contains(t, readFile(t, filepath.Join(root, "components", "Pair.stories.tsx")), "import { Second } from './Pair';")

	missing := callTool(t, s, "create_story", map[string]any{"path": "components/Pair.jsx", "component": "Third"})
	assert.True(t, missing.IsError)
	assert.Contains(t, resultText(t, missing), "no component found named Third")
}

// --- journal ---

func TestJournalMiddleware(t *testing.T) {
	journalPath := filepath.Join(t.TempDir(), "logs", "tools.jsonl")
	j, err := OpenJournal(journalPath)
	require.NoError(t, err)

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	handler := journalMiddleware(j)(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("nope"), nil
	})
	var _ server.ToolHandlerFunc = handler

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	_, err = handler(context.Background(), makeRequest("add_display_names", map[string]any{
		"path":   "components/Widget.tsx",
		"prefix": string(long),
	}))
	require.NoError(t, err)
	require.NoError(t, j.Close())

	f, err := os.Open(journalPath)
	require.NoError(t, err)
	defer f.Close()

	sc := bufio.NewScanner(f)
	require.True(t, sc.Scan())
	var entry JournalEntry
	require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
	assert.False(t, sc.Scan(), "one line per call")

	assert.Equal(t, "2026-01-02T03:04:05Z", entry.Ts)
	assert.Equal(t, "add_display_names", entry.Tool)
	assert.Equal(t, "components/Widget.tsx", entry.Params["path"])
	assert.Equal(t, float64(300), entry.Params["prefix_len"])
	assert.NotContains(t, entry.Params, "prefix")
	assert.True(t, entry.IsError)
	assert.Nil(t, entry.Error)
	assert.Positive(t, entry.ResponseBytes)
}

func TestOpenJournal_EmptyPathDisabled(t *testing.T) {
	j, err := OpenJournal("")
	require.NoError(t, err)
	assert.Nil(t, j)
	assert.NoError(t, j.Close())
}

func TestNewServer_WithJournal(t *testing.T) {
	j, err := OpenJournal(filepath.Join(t.TempDir(), "tools.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	s, _ := testServer(t, j)
	assert.NotNil(t, s.MCPServer().GetTool("create_story"))
}
