package displayname

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders the change from before to after as a unified diff
// with three lines of context. It returns "" when the texts are equal.
func UnifiedDiff(path, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}
	return out, nil
}
