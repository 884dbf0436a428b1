package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/gnana997/remod/pkg/scanner"
)

// componentRow is one line of the components listing. Position is 1-based.
type componentRow struct {
	Name        string
	Kind        string
	Position    string
	DisplayName string
}

func newComponentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "components <file>...",
		Short: "List the components and displayName assignments found in files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := scanner.NewScanner(a.log)
			defer s.Close()

			out := cmd.OutOrStdout()
			for i, path := range args {
				if i > 0 {
					fmt.Fprintln(out)
				}
				rows, orphans, err := inspectFile(s, a.cfg.Typescript, path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				printComponents(out, filepath.Clean(path), rows, orphans)
			}
			return nil
		},
	}
}

func inspectFile(s *scanner.Scanner, typescript *bool, path string) ([]componentRow, []string, error) {
	mod, err := s.ParseFile(path, typescript)
	if err != nil {
		return nil, nil, err
	}
	defer mod.Close()

	assignments, err := s.Assignments(mod)
	if err != nil {
		return nil, nil, err
	}
	values := make(map[string]string, len(assignments))
	for _, as := range assignments {
		values[as.Symbol] = as.Value
	}

	comps := s.Components(mod)
	rows := make([]componentRow, 0, len(comps))
	known := make(map[string]bool, len(comps))
	for _, c := range comps {
		kind := string(c.Kind)
		if c.Wrapper != "" {
			kind += " (" + c.Wrapper + ")"
		}
		pos := mod.Lines.Position(c.StartByte)
		rows = append(rows, componentRow{
			Name:        c.Symbol,
			Kind:        kind,
			Position:    fmt.Sprintf("%d:%d", pos.Line+1, pos.Column+1),
			DisplayName: values[c.Symbol],
		})
		known[c.Symbol] = true
	}

	var orphans []string
	for _, as := range assignments {
		if !known[as.Symbol] {
			orphans = append(orphans, as.Symbol)
		}
	}
	return rows, orphans, nil
}

// printComponents renders the rows with dynamic column widths.
func printComponents(w io.Writer, path string, rows []componentRow, orphans []string) {
	if len(rows) == 0 {
		fmt.Fprintf(w, "%s  (no components)\n", path)
	} else {
		fmt.Fprintln(w, path)

		nameW, kindW, posW := len("NAME"), len("KIND"), len("LINE")
		for _, r := range rows {
			nameW = max(nameW, runewidth.StringWidth(r.Name))
			kindW = max(kindW, runewidth.StringWidth(r.Kind))
			posW = max(posW, runewidth.StringWidth(r.Position))
		}

		row := func(name, kind, pos, display string) {
			fmt.Fprintf(w, "  %s  %s  %s  %s\n",
				runewidth.FillRight(name, nameW),
				runewidth.FillRight(kind, kindW),
				runewidth.FillRight(pos, posW),
				display)
		}

		row("NAME", "KIND", "LINE", "DISPLAY NAME")
		fmt.Fprintf(w, "  %s\n", strings.Repeat("─", nameW+kindW+posW+18))
		for _, r := range rows {
			display := r.DisplayName
			if display == "" {
				display = "—"
			}
			row(r.Name, r.Kind, r.Position, display)
		}
	}

	if len(orphans) > 0 {
		fmt.Fprintf(w, "  displayName set on non-components: %s\n", strings.Join(orphans, ", "))
	}
}
