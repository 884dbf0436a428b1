package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
)

// Mode selects the wording of the summary: display-name runs count
// modified files, story runs count created files.
type Mode int

const (
	ModeDisplayNames Mode = iota
	ModeStories
)

var (
	modifiedColor = color.New(color.FgGreen, color.Bold)
	ignoredColor  = color.New(color.FgYellow)
	failedColor   = color.New(color.FgRed, color.Bold)
	noticeColor   = color.New(color.FgCyan)
	addedColor    = color.New(color.FgGreen)
	removedColor  = color.New(color.FgRed)
)

// Printer writes per-file status lines and the final summary.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
	// colored is set when out is a terminal.
	colored bool
}

// NewPrinter returns a printer writing to out, or stdout when out is nil.
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out, colored: isTerminal(out)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *Printer) paint(c *color.Color, format string, args ...any) {
	if p.colored {
		_, _ = c.Fprintf(p.out, format, args...)
		return
	}
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// File prints one status line for path. Unchanged files print nothing.
func (p *Printer) File(path string, o Outcome, detail string) {
	var label *color.Color
	switch o {
	case OutcomeModified, OutcomeCreated:
		label = modifiedColor
	case OutcomeIgnored:
		label = ignoredColor
	case OutcomeFailed:
		label = failedColor
	default:
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.paint(label, "%-9s", o.String())
	if detail != "" {
		_, _ = fmt.Fprintf(p.out, " %s (%s)\n", path, detail)
		return
	}
	_, _ = fmt.Fprintf(p.out, " %s\n", path)
}

// Failed prints an error line for path.
func (p *Printer) Failed(path string, err error) {
	p.File(path, OutcomeFailed, err.Error())
}

// Notice prints an informational line, e.g. an existing display name that
// was left alone.
func (p *Printer) Notice(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paint(noticeColor, format+"\n", args...)
}

// Diff prints a unified diff, coloring added and removed lines.
func (p *Printer) Diff(diff string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			_, _ = io.WriteString(p.out, line)
		case strings.HasPrefix(line, "+"):
			p.paint(addedColor, "%s", line)
		case strings.HasPrefix(line, "-"):
			p.paint(removedColor, "%s", line)
		default:
			_, _ = io.WriteString(p.out, line)
		}
	}
}

// Summary prints the run counters as a table.
func (p *Printer) Summary(s Stats, mode Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, "\n%s", RenderTable(s, mode))
}

// RenderTable renders the counters as a borderless table.
func RenderTable(s Stats, mode Mode) string {
	var buf bytes.Buffer

	changed, changedLabel := s.Modified, "Modified"
	if mode == ModeStories {
		changed, changedLabel = s.Created, "Created"
	}

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Total", changedLabel, "Ignored", "Failed"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.Append([]string{
		strconv.Itoa(s.Total),
		strconv.Itoa(changed),
		strconv.Itoa(s.Ignored),
		strconv.Itoa(s.Failed),
	})
	table.Render()

	return buf.String()
}
