package storybook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/gnana997/remod/pkg/report"
	"github.com/gnana997/remod/pkg/scanner"
)

// Generated describes a story file written by the generator.
type Generated struct {
	Source    string
	Component string
	Target    string
}

// Generator writes story files for component files.
type Generator struct {
	Scanner     *scanner.Scanner
	Synthesizer Synthesizer
	// Typescript selects the grammar for component files.
	Typescript *bool
	Printer    *report.Printer
	RootDir    string
	Ignore     []string
	Log        *slog.Logger
}

// Generate writes the story for path's primary component: the first one
// bound by a variable declaration, or the first function declaration when
// the file has none.
func (g *Generator) Generate(path string) (Generated, error) {
	mod, err := g.Scanner.ParseFile(path, g.Typescript)
	if err != nil {
		return Generated{}, err
	}
	comps := g.Scanner.Components(mod)
	mod.Close()

	if len(comps) == 0 {
		return Generated{}, fmt.Errorf("%w in %s", ErrNoComponent, path)
	}
	return g.GenerateComponent(path, primaryComponent(comps).Symbol)
}

func primaryComponent(comps []scanner.ComponentBinding) scanner.ComponentBinding {
	for _, c := range comps {
		if c.Kind != scanner.BindingFunction {
			return c
		}
	}
	return comps[0]
}

// GenerateComponent writes the story for component, which the caller has
// already found in path.
func (g *Generator) GenerateComponent(path, component string) (Generated, error) {
	plan, err := g.Synthesizer.Synthesize(component, path)
	if err != nil {
		return Generated{}, err
	}
	if err := writeNew(plan.Target, plan.Text); err != nil {
		return Generated{}, err
	}

	return Generated{Source: path, Component: component, Target: plan.Target}, nil
}

// Run generates stories for every file in order. Existing stories and
// ignored files count as ignored; errors are reported and counted as
// failed without stopping the run.
func (g *Generator) Run(ctx context.Context, files []string) (report.Stats, error) {
	var stats report.Stats
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats = stats.Record(g.processFile(path))
	}

	g.logger().Info("stories done",
		"total", stats.Total,
		"created", stats.Created,
		"ignored", stats.Ignored,
		"failed", stats.Failed)
	return stats, nil
}

func (g *Generator) processFile(path string) report.Outcome {
	if scanner.ShouldIgnore(g.Ignore, g.RootDir, path) {
		g.print(path, report.OutcomeIgnored, "")
		return report.OutcomeIgnored
	}

	gen, err := g.Generate(path)
	switch {
	case err == nil:
		g.print(path, report.OutcomeCreated, gen.Target)
		return report.OutcomeCreated

	case errors.Is(err, ErrDuplicateArtifact):
		if g.Printer != nil {
			g.Printer.Notice("Story already exists for %s", path)
		}
		return report.OutcomeIgnored

	case errors.Is(err, ErrNoComponent):
		g.logger().Debug("no component to generate a story for", "path", path)
		return report.OutcomeUnchanged

	default:
		g.logger().Warn("skipping file", "path", path, "error", err)
		if g.Printer != nil {
			g.Printer.Failed(path, err)
		}
		return report.OutcomeFailed
	}
}

func (g *Generator) print(path string, o report.Outcome, detail string) {
	if g.Printer != nil {
		g.Printer.File(path, o, detail)
	}
}

func (g *Generator) logger() *slog.Logger {
	if g.Log == nil {
		return slog.Default()
	}
	return g.Log
}

// writeText is replaced in tests to simulate a failing disk.
var writeText = func(f *os.File, text string) error {
	_, err := f.WriteString(text)
	return err
}

// writeNew creates path exclusively and writes text to it. A file that
// cannot be written in full is removed.
func writeNew(path, text string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrDuplicateArtifact, path)
		}
		return fmt.Errorf("create %s: %w", path, err)
	}

	err = writeText(f, text)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
