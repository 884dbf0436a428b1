package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSystem replaces the detection and execution seams for one test.
func stubSystem(t *testing.T, onPath []string, dirs []string) *[][]string {
	t.Helper()
	origLookPath, origStat, origRun := lookPathFunc, statFunc, runAgentFunc
	t.Cleanup(func() {
		lookPathFunc, statFunc, runAgentFunc = origLookPath, origStat, origRun
	})

	lookPathFunc = func(name string) (string, error) {
		for _, p := range onPath {
			if p == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
	statFunc = func(name string) (os.FileInfo, error) {
		for _, d := range dirs {
			if d == name {
				return nil, nil
			}
		}
		return nil, os.ErrNotExist
	}

	var calls [][]string
	runAgentFunc = func(_ io.Writer, binary string, args ...string) error {
		calls = append(calls, append([]string{binary}, args...))
		return nil
	}
	return &calls
}

func decodeServers(t *testing.T, data []byte, key string) map[string]any {
	t.Helper()
	var config map[string]any
	require.NoError(t, json.Unmarshal(data, &config))
	servers, ok := config[key].(map[string]any)
	require.True(t, ok, "missing %s", key)
	return servers
}

func TestMergeServerEntry(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		key      string
		extra    map[string]string
		want     []string
	}{
		{name: "empty file", key: "mcpServers", want: []string{"remod"}},
		{
			name:     "keeps other servers",
			existing: `{"mcpServers": {"other-server": {"command": "other", "args": ["start"]}}}`,
			key:      "mcpServers",
			want:     []string{"other-server", "remod"},
		},
		{name: "vscode format", key: "servers", extra: map[string]string{"type": "stdio"}, want: []string{"remod"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := mergeServerEntry([]byte(tt.existing), tt.key, tt.extra)
			require.NoError(t, err)
			require.NotNil(t, out)
			assert.Equal(t, byte('\n'), out[len(out)-1])

			servers := decodeServers(t, out, tt.key)
			for _, name := range tt.want {
				assert.Contains(t, servers, name)
			}
			entry := servers["remod"].(map[string]any)
			assert.Equal(t, "remod", entry["command"])
			assert.Equal(t, []any{"mcp"}, entry["args"])
			for k, v := range tt.extra {
				assert.Equal(t, v, entry[k])
			}
		})
	}
}

func TestMergeServerEntry_AlreadyConfigured(t *testing.T) {
	existing := []byte(`{"mcpServers": {"remod": {"command": "remod", "args": ["mcp"]}}}`)
	out, err := mergeServerEntry(existing, "mcpServers", nil)
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestMergeServerEntry_KeepsKeyOrder(t *testing.T) {
	existing := []byte(`{"zeta": true, "mcpServers": {"other": {"command": "other"}}, "alpha": 1}`)
	out, err := mergeServerEntry(existing, "mcpServers", nil)
	require.NoError(t, err)

	text := string(out)
	assert.Less(t, strings.Index(text, `"zeta"`), strings.Index(text, `"mcpServers"`))
	assert.Less(t, strings.Index(text, `"mcpServers"`), strings.Index(text, `"alpha"`))
	assert.Less(t, strings.Index(text, `"other"`), strings.Index(text, `"remod"`))
}

func TestMergeServerEntry_InvalidJSON(t *testing.T) {
	_, err := mergeServerEntry([]byte("not json"), "mcpServers", nil)
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"\n", true},
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"nope", false},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			r := bufio.NewReader(strings.NewReader(tt.input))
			assert.Equal(t, tt.want, confirm(r, &bytes.Buffer{}, "Continue?"))
		})
	}
}

func TestChooseScope(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1\n", "project"},
		{"2\n", "user"},
		{"3\n", ""},
		{"\n", "project"},
		{"", "project"},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			r := bufio.NewReader(strings.NewReader(tt.input))
			w := &bytes.Buffer{}
			assert.Equal(t, tt.want, chooseScope(r, w, "Claude Code"))
			assert.Contains(t, w.String(), "Claude Code: add the remod MCP server?")
		})
	}
}

func TestDetectAgents(t *testing.T) {
	t.Run("cli on path", func(t *testing.T) {
		stubSystem(t, []string{"claude"}, nil)
		detected := detectAgents()
		require.Len(t, detected, 1)
		assert.Equal(t, "claude_code", detected[0].id)
	})

	t.Run("none", func(t *testing.T) {
		stubSystem(t, nil, nil)
		assert.Empty(t, detectAgents())
	})

	t.Run("file agent by marker", func(t *testing.T) {
		stubSystem(t, nil, []string{".vscode"})
		detected := detectAgents()
		require.Len(t, detected, 1)
		assert.Equal(t, "vscode_copilot", detected[0].id)
		assert.Equal(t, filepath.Join(".vscode", "mcp.json"), detected[0].config)
	})

	t.Run("file agent by config dir", func(t *testing.T) {
		stubSystem(t, nil, []string{filepath.Dir(claudeDesktopConfigPath())})
		detected := detectAgents()
		require.Len(t, detected, 1)
		assert.Equal(t, "claude_desktop", detected[0].id)
	})
}

func TestRunSetup_NoAgents(t *testing.T) {
	stubSystem(t, nil, nil)
	w := &bytes.Buffer{}
	runSetup(strings.NewReader(""), w, false)
	assert.Contains(t, w.String(), "No supported AI agents detected.")
}

func TestRunSetup_AutoModeFileAgent(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.MkdirAll(".vscode", 0755))

	stubSystem(t, nil, nil)
	statFunc = os.Stat

	w := &bytes.Buffer{}
	runSetup(strings.NewReader(""), w, true)

	data, err := os.ReadFile(filepath.Join(".vscode", "mcp.json"))
	require.NoError(t, err)
	entry := decodeServers(t, data, "servers")["remod"].(map[string]any)
	assert.Equal(t, "remod", entry["command"])
	assert.Equal(t, "stdio", entry["type"])
	assert.Contains(t, w.String(), "VS Code Copilot configured")

	w.Reset()
	runSetup(strings.NewReader(""), w, true)
	assert.Contains(t, w.String(), "VS Code Copilot (already configured)")
}

func TestRunSetup_CLIAgentPrompts(t *testing.T) {
	t.Chdir(t.TempDir())
	calls := stubSystem(t, []string{"claude", "codex"}, nil)

	// Confirm, user scope for the first agent, skip the second.
	w := &bytes.Buffer{}
	runSetup(strings.NewReader("y\n2\n3\n"), w, false)

	require.Len(t, *calls, 1)
	assert.Equal(t, []string{"claude", "mcp", "add", "--scope", "user", "remod", "--", "remod", "mcp"}, (*calls)[0])
	assert.Contains(t, w.String(), "Claude Code configured (scope: user)")
	assert.Contains(t, w.String(), "skipped")
}

func TestRunSetup_Declined(t *testing.T) {
	calls := stubSystem(t, []string{"claude"}, nil)
	runSetup(strings.NewReader("n\n"), &bytes.Buffer{}, false)
	assert.Empty(t, *calls)
}

func TestRegisterFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("creates parent", func(t *testing.T) {
		path := filepath.Join(dir, "sub", "mcp.json")
		require.NoError(t, registerFile(agent{serversKey: "mcpServers"}, path))
		assert.Contains(t, decodeServers(t, []byte(readFile(t, path)), "mcpServers"), "remod")
	})

	t.Run("merges existing", func(t *testing.T) {
		path := filepath.Join(dir, "mcp.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"mcpServers": {"other": {"command": "other"}}}`), 0644))
		require.NoError(t, registerFile(agent{serversKey: "mcpServers"}, path))

		servers := decodeServers(t, []byte(readFile(t, path)), "mcpServers")
		assert.Contains(t, servers, "other")
		assert.Contains(t, servers, "remod")
		assert.True(t, hasServerEntry(path, "mcpServers"))
	})
}
