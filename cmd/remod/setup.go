package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// mcpServerName is the key remod registers under in agent configurations.
const mcpServerName = "remod"

// agent describes one AI coding agent remod can register itself with.
// Agents with a binary are configured through their own `mcp add`
// subcommand; the others by editing a JSON file.
type agent struct {
	id   string
	name string

	binary string
	scoped bool

	// markers are directories whose presence reveals a file agent. Without
	// markers the agent is found through its config file's directory.
	markers    []string
	configPath func() string
	serversKey string
	extra      map[string]string
}

func (a agent) usesCLI() bool { return a.binary != "" }

// found is an agent present on this machine.
type found struct {
	agent
	config     string
	registered bool
}

// Seams replaced in tests.
var (
	lookPathFunc = exec.LookPath
	runAgentFunc = func(w io.Writer, binary string, args ...string) error {
		cmd := exec.Command(binary, args...)
		cmd.Stdout, cmd.Stderr = w, w
		return cmd.Run()
	}
)

var knownAgents = []agent{
	{id: "claude_code", name: "Claude Code", binary: "claude", scoped: true},
	{id: "openai_codex", name: "OpenAI Codex", binary: "codex", scoped: true},
	{
		id: "vscode_copilot", name: "VS Code Copilot",
		markers:    []string{".vscode"},
		configPath: func() string { return filepath.Join(".vscode", "mcp.json") },
		serversKey: "servers",
		extra:      map[string]string{"type": "stdio"},
	},
	{
		id: "cursor", name: "Cursor",
		markers:    []string{".cursor"},
		configPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		serversKey: "mcpServers",
	},
	{
		id: "claude_desktop", name: "Claude Desktop",
		configPath: claudeDesktopConfigPath,
		serversKey: "mcpServers",
	},
}

func claudeDesktopConfigPath() string {
	const file = "claude_desktop_config.json"
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "Claude", file)
	}
	home, _ := os.UserHomeDir()
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "Claude", file)
	}
	return filepath.Join(home, ".config", "Claude", file)
}

func newSetupCmd() *cobra.Command {
	var auto bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register `remod mcp` with the AI agents found on this machine",
		Long: `Look for Claude Code and OpenAI Codex on PATH and for VS Code, Cursor and
Claude Desktop configuration directories, then register "remod mcp" as an
MCP server with each one. Agents that already list remod are left alone.`,
		Args: cobra.NoArgs,
		// Agent configuration does not depend on remod's own config.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			runSetup(cmd.InOrStdin(), cmd.OutOrStdout(), auto)
		},
	}
	cmd.Flags().BoolVar(&auto, "auto", false, "configure every detected agent without prompting")
	return cmd
}

// detectAgents returns the known agents present on this machine, in
// knownAgents order.
func detectAgents() []found {
	var out []found
	for _, a := range knownAgents {
		if a.usesCLI() {
			if _, err := lookPathFunc(a.binary); err == nil {
				out = append(out, found{agent: a, registered: hasServerEntry(".mcp.json", "mcpServers")})
			}
			continue
		}

		path, ok := locateConfig(a)
		if !ok {
			continue
		}
		out = append(out, found{agent: a, config: path, registered: hasServerEntry(path, a.serversKey)})
	}
	return out
}

func locateConfig(a agent) (string, bool) {
	if a.configPath == nil {
		return "", false
	}
	if len(a.markers) == 0 {
		path := a.configPath()
		_, err := statFunc(filepath.Dir(path))
		return path, err == nil
	}
	for _, m := range a.markers {
		if _, err := statFunc(m); err == nil {
			return a.configPath(), true
		}
	}
	return "", false
}

// hasServerEntry reports whether the JSON file at path already registers
// remod under serversKey.
func hasServerEntry(path, serversKey string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return gjson.GetBytes(data, entryPath(serversKey)).Exists()
}

func entryPath(serversKey string) string {
	return serversKey + "." + mcpServerName
}

// mergeServerEntry adds the remod entry under serversKey to the existing
// JSON document and returns the result, keeping the order of existing keys.
// It returns nil, nil when remod is already registered.
func mergeServerEntry(existing []byte, serversKey string, extra map[string]string) ([]byte, error) {
	if len(bytes.TrimSpace(existing)) == 0 {
		existing = []byte("{}")
	}
	if !gjson.ValidBytes(existing) {
		return nil, errors.New("invalid JSON: cannot parse existing config")
	}
	if gjson.GetBytes(existing, entryPath(serversKey)).Exists() {
		return nil, nil
	}

	entry := map[string]any{"command": "remod", "args": []any{"mcp"}}
	for k, v := range extra {
		entry[k] = v
	}
	merged, err := sjson.SetBytes(existing, entryPath(serversKey), entry)
	if err != nil {
		return nil, fmt.Errorf("add %s entry: %w", mcpServerName, err)
	}

	out := pretty.Pretty(merged)
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	return out, nil
}

// registerCLI runs `<binary> mcp add [--scope s] remod -- remod mcp`.
func registerCLI(w io.Writer, a agent, scope string) error {
	args := []string{"mcp", "add"}
	if scope != "" {
		args = append(args, "--scope", scope)
	}
	args = append(args, mcpServerName, "--", "remod", "mcp")
	return runAgentFunc(w, a.binary, args...)
}

// registerFile merges the remod entry into the agent's config file,
// creating the file and its directory when missing.
func registerFile(a agent, path string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read %s: %w", path, err)
	}

	merged, err := mergeServerEntry(existing, a.serversKey, a.extra)
	if err != nil || merged == nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, merged, 0644)
}

// confirm reads a Y/n answer. Empty input and EOF mean yes.
func confirm(r *bufio.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [Y/n] ", question)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}

// chooseScope returns "project", "user" or "" to skip the agent.
func chooseScope(r *bufio.Reader, w io.Writer, agentName string) string {
	fmt.Fprintf(w, "\n%s: add the remod MCP server?\n", agentName)
	fmt.Fprint(w, "  1) this project\n  2) all projects for this user\n  3) skip\n  choice [1]: ")

	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "project"
	}
	switch strings.TrimSpace(line) {
	case "", "1":
		return "project"
	case "2":
		return "user"
	default:
		return ""
	}
}

// runSetup detects agents and registers remod with each, asking first on in
// unless auto is set.
func runSetup(in io.Reader, w io.Writer, auto bool) {
	agents := detectAgents()
	if len(agents) == 0 {
		fmt.Fprintln(w, "No supported AI agents detected.")
		return
	}

	fmt.Fprintln(w, "Found:")
	pending := 0
	for _, f := range agents {
		status := ""
		if f.registered {
			status = " (already configured)"
		} else {
			pending++
		}
		fmt.Fprintf(w, "  %s%s\n", f.name, status)
	}
	if pending == 0 {
		return
	}

	// Every prompt shares one reader so buffered answers are not lost.
	r := bufio.NewReader(in)
	if !auto && !confirm(r, w, "\nRegister remod with these agents?") {
		return
	}
	for _, f := range agents {
		if !f.registered {
			register(r, w, f, auto)
		}
	}
}

func register(r *bufio.Reader, w io.Writer, f found, auto bool) {
	var (
		err  error
		done string
	)
	if f.usesCLI() {
		scope := "project"
		if !auto && f.scoped {
			if scope = chooseScope(r, w, f.name); scope == "" {
				fmt.Fprintf(w, "  %s skipped\n", f.name)
				return
			}
		}
		err = registerCLI(w, f.agent, scope)
		done = "scope: " + scope
	} else {
		if !auto && !confirm(r, w, fmt.Sprintf("\n%s: add remod to %s?", f.name, f.config)) {
			fmt.Fprintf(w, "  %s skipped\n", f.name)
			return
		}
		err = registerFile(f.agent, f.config)
		done = f.config
	}

	if err != nil {
		fmt.Fprintf(w, "  %s failed: %v\n", f.name, err)
		return
	}
	fmt.Fprintf(w, "  %s configured (%s)\n", f.name, done)
}
