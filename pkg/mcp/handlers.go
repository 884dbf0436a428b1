package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/remod/pkg/scanner"
	"github.com/gnana997/remod/pkg/storybook"
)

// componentInfo is one entry of list_components. Line and Column are
// 1-based; Column counts UTF-16 code units.
type componentInfo struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Wrapper     string `json:"wrapper,omitempty"`
	Line        uint32 `json:"line"`
	Column      uint32 `json:"column"`
	DisplayName string `json:"display_name,omitempty"`
}

type listComponentsResult struct {
	Path       string          `json:"path"`
	Components []componentInfo `json:"components"`
	// Orphans are displayName assignments for symbols that are not
	// recognized components.
	Orphans []string `json:"orphans,omitempty"`
}

type displayNameResult struct {
	Path     string   `json:"path"`
	Modified bool     `json:"modified"`
	Added    []string `json:"added,omitempty"`
	Existing []string `json:"existing,omitempty"`
	Removed  int      `json:"removed,omitempty"`
	Renamed  []string `json:"renamed,omitempty"`
}

type storyResult struct {
	Source    string `json:"source"`
	Component string `json:"component"`
	Target    string `json:"target"`
}

func (s *Server) handleListComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := s.requirePath(req)
	if errResult != nil {
		return errResult, nil
	}

	mod, err := s.cfg.Scanner.ParseFile(path, s.cfg.Typescript)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("cannot parse file", err), nil
	}
	defer mod.Close()

	assignments, err := s.cfg.Scanner.Assignments(mod)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("cannot read display names", err), nil
	}
	names := make(map[string]string, len(assignments))
	for _, a := range assignments {
		names[a.Symbol] = a.Value
	}

	comps := s.cfg.Scanner.Components(mod)
	out := listComponentsResult{Path: path, Components: make([]componentInfo, 0, len(comps))}
	known := make(map[string]bool, len(comps))
	for _, c := range comps {
		pos := mod.Lines.Position(c.StartByte)
		out.Components = append(out.Components, componentInfo{
			Name:        c.Symbol,
			Kind:        string(c.Kind),
			Wrapper:     c.Wrapper,
			Line:        pos.Line + 1,
			Column:      pos.Column + 1,
			DisplayName: names[c.Symbol],
		})
		known[c.Symbol] = true
	}
	for _, a := range assignments {
		if !known[a.Symbol] {
			out.Orphans = append(out.Orphans, a.Symbol)
		}
	}
	return jsonResult(out)
}

func (s *Server) handleAddDisplayNames(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := s.requirePath(req)
	if errResult != nil {
		return errResult, nil
	}
	prefix := req.GetString("prefix", s.cfg.Prefix)

	res, err := s.cfg.Engine.Add(path, prefix)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("add_display_names failed", err), nil
	}
	return jsonResult(displayNameResult{Path: path, Modified: res.Modified, Added: res.Added, Existing: res.Existing})
}

func (s *Server) handleRemoveDisplayNames(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := s.requirePath(req)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.cfg.Engine.Remove(path)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("remove_display_names failed", err), nil
	}
	return jsonResult(displayNameResult{Path: path, Modified: res.Modified, Removed: res.Removed})
}

func (s *Server) handleRenameDisplayNames(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := s.requirePath(req)
	if errResult != nil {
		return errResult, nil
	}
	prefix, err := req.RequireString("prefix")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.cfg.Engine.Rename(path, prefix)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("rename_display_names failed", err), nil
	}
	return jsonResult(displayNameResult{Path: path, Modified: res.Modified, Renamed: res.Renamed})
}

func (s *Server) handleCreateStory(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := s.requirePath(req)
	if errResult != nil {
		return errResult, nil
	}
	component := req.GetString("component", "")

	var (
		gen storybook.Generated
		err error
	)
	if component == "" {
		gen, err = s.cfg.Generator.Generate(path)
	} else {
		if err := s.checkComponent(path, component); err != nil {
			return mcp.NewToolResultErrorFromErr("create_story failed", err), nil
		}
		gen, err = s.cfg.Generator.GenerateComponent(path, component)
	}
	if errors.Is(err, storybook.ErrDuplicateArtifact) {
		return mcp.NewToolResultError(fmt.Sprintf("Story already exists for %s", path)), nil
	}
	if err != nil {
		return mcp.NewToolResultErrorFromErr("create_story failed", err), nil
	}
	return jsonResult(storyResult{Source: gen.Source, Component: gen.Component, Target: gen.Target})
}

func (s *Server) checkComponent(path, component string) error {
	mod, err := s.cfg.Scanner.ParseFile(path, s.cfg.Typescript)
	if err != nil {
		return err
	}
	defer mod.Close()

	for _, c := range s.cfg.Scanner.Components(mod) {
		if c.Symbol == component {
			return nil
		}
	}
	return fmt.Errorf("%w named %s in %s", storybook.ErrNoComponent, component, path)
}

// requirePath resolves the path argument against the root directory and
// rejects ignored files.
func (s *Server) requirePath(req mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	p, err := req.RequireString("path")
	if err != nil {
		return "", mcp.NewToolResultError(err.Error())
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.cfg.RootDir, p)
	}
	if scanner.ShouldIgnore(s.cfg.Ignore, s.cfg.RootDir, p) {
		return "", mcp.NewToolResultError(fmt.Sprintf("%s is ignored by configuration", p))
	}
	return p, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
