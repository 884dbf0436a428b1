package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsRecord(t *testing.T) {
	var s Stats
	for _, o := range []Outcome{
		OutcomeModified,
		OutcomeUnchanged,
		OutcomeIgnored,
		OutcomeFailed,
		OutcomeCreated,
		OutcomeModified,
	} {
		s = s.Record(o)
	}

	assert.Equal(t, Stats{Total: 6, Modified: 2, Created: 1, Ignored: 1, Failed: 1}, s)
}

func TestStatsRecordDoesNotMutateReceiver(t *testing.T) {
	before := Stats{Total: 1}
	after := before.Record(OutcomeModified)

	assert.Equal(t, Stats{Total: 1}, before)
	assert.Equal(t, Stats{Total: 2, Modified: 1}, after)
}

func TestStatsMerge(t *testing.T) {
	a := Stats{Total: 2, Modified: 1, Ignored: 1}
	b := Stats{Total: 3, Created: 2, Failed: 1}
	assert.Equal(t, Stats{Total: 5, Modified: 1, Created: 2, Ignored: 1, Failed: 1}, a.Merge(b))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "modified", OutcomeModified.String())
	assert.Equal(t, "ignored", OutcomeIgnored.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	assert.False(t, p.colored, "buffers are never colored")

	p.File("a.tsx", OutcomeModified, "Widget")
	p.File("b.tsx", OutcomeUnchanged, "")
	p.File("c.tsx", OutcomeIgnored, "")
	p.Failed("d.tsx", errors.New("permission denied"))
	p.Notice("display name already exists for %s", "Card")

	out := buf.String()
	assert.Contains(t, out, "modified  a.tsx (Widget)")
	assert.NotContains(t, out, "b.tsx")
	assert.Contains(t, out, "ignored   c.tsx")
	assert.Contains(t, out, "failed    d.tsx (permission denied)")
	assert.Contains(t, out, "display name already exists for Card")
}

func TestPrinterDiff(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	diff := "--- a/x.tsx\n+++ b/x.tsx\n@@ -1 +1 @@\n-old\n+new\n"
	p.Diff(diff)
	assert.Equal(t, diff, buf.String())
}

func TestRenderTable(t *testing.T) {
	s := Stats{Total: 4, Modified: 2, Created: 3, Ignored: 1}

	names := RenderTable(s, ModeDisplayNames)
	assert.Contains(t, names, "MODIFIED")
	assert.NotContains(t, names, "CREATED")

	stories := RenderTable(s, ModeStories)
	assert.Contains(t, stories, "CREATED")
	assert.Contains(t, stories, "3")
}
