package displayname

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gnana997/remod/pkg/report"
	"github.com/gnana997/remod/pkg/scanner"
)

// Operation is one of the three display-name edits.
type Operation int

const (
	OpAdd Operation = iota
	OpRemove
	OpRename
)

func (op Operation) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Batch applies one operation to many files, one file at a time.
type Batch struct {
	Engine  *Engine
	Printer *report.Printer
	// RootDir and Ignore decide which files are counted as ignored.
	RootDir string
	Ignore  []string
	Log     *slog.Logger
}

// Run applies op to every file in order. A file that fails is reported and
// counted; the run continues with the next file. Run stops early only when
// ctx is cancelled or a rename has no prefix.
func (b *Batch) Run(ctx context.Context, files []string, op Operation, prefix string) (report.Stats, error) {
	var stats report.Stats
	if op == OpRename && prefix == "" {
		return stats, ErrMissingPrefix
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats = stats.Record(b.processFile(path, op, prefix))
	}

	b.logger().Info("display names done",
		"operation", op.String(),
		"total", stats.Total,
		"modified", stats.Modified,
		"ignored", stats.Ignored,
		"failed", stats.Failed)
	return stats, nil
}

func (b *Batch) processFile(path string, op Operation, prefix string) report.Outcome {
	if scanner.ShouldIgnore(b.Ignore, b.RootDir, path) {
		b.print(path, report.OutcomeIgnored, "")
		return report.OutcomeIgnored
	}

	var (
		res Result
		err error
	)
	switch op {
	case OpAdd:
		res, err = b.Engine.Add(path, prefix)
	case OpRemove:
		res, err = b.Engine.Remove(path)
	case OpRename:
		res, err = b.Engine.Rename(path, prefix)
	}
	if err != nil {
		b.logger().Warn("skipping file", "path", path, "operation", op.String(), "error", err)
		if b.Printer != nil {
			b.Printer.Failed(path, err)
		}
		return report.OutcomeFailed
	}

	if b.Printer != nil {
		for _, symbol := range res.Existing {
			b.Printer.Notice("display name already exists for %s in %s", symbol, path)
		}
	}

	if !res.Modified {
		return report.OutcomeUnchanged
	}
	b.print(path, report.OutcomeModified, describe(res))
	if res.Diff != "" && b.Printer != nil {
		b.Printer.Diff(res.Diff)
	}
	return report.OutcomeModified
}

func (b *Batch) print(path string, o report.Outcome, detail string) {
	if b.Printer != nil {
		b.Printer.File(path, o, detail)
	}
}

func (b *Batch) logger() *slog.Logger {
	if b.Log == nil {
		return slog.Default()
	}
	return b.Log
}

func describe(res Result) string {
	switch {
	case len(res.Added) > 0:
		return "added " + strings.Join(res.Added, ", ")
	case len(res.Renamed) > 0:
		return "renamed " + strings.Join(res.Renamed, ", ")
	case res.Removed == 1:
		return "removed 1 assignment"
	case res.Removed > 1:
		return fmt.Sprintf("removed %d assignments", res.Removed)
	default:
		return ""
	}
}
