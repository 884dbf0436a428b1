package displayname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatchSetApply(t *testing.T) {
	text := "l0\nl1\nl2\nl3\nl4\n"

	tests := []struct {
		name    string
		patches PatchSet
		want    string
	}{
		{"empty set", nil, text},
		{"drop one line", PatchSet{Drop(1, 1)}, "l0\nl2\nl3\nl4\n"},
		{"drop range", PatchSet{Drop(1, 3)}, "l0\nl4\n"},
		{"replace one line", PatchSet{Replace(2, 2, "X")}, "l0\nl1\nX\nl3\nl4\n"},
		{"replace range collapses", PatchSet{Replace(0, 2, "X")}, "X\nl3\nl4\n"},
		{"unordered patches", PatchSet{Drop(4, 4), Replace(0, 0, "X")}, "X\nl1\nl2\nl3\n"},
		{"overlap keeps first", PatchSet{Replace(1, 2, "A"), Replace(2, 3, "B")}, "l0\nA\nl4\n"},
		{"out of range ignored", PatchSet{Drop(40, 41)}, text},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.patches.Apply(text))
		})
	}
}

func TestPatchSetApply_NoTrailingNewline(t *testing.T) {
	assert.Equal(t, "a", PatchSet{Drop(1, 1)}.Apply("a\nb"))
}

func TestStatement(t *testing.T) {
	assert.Equal(t, `Widget.displayName = "App_Widget"`, Statement("Widget", "App"))
}
