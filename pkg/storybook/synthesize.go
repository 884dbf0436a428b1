package storybook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnana997/remod/pkg/config"
)

var (
	// ErrDuplicateArtifact means a story file already exists under one of
	// the recognized names. Existing stories are never overwritten.
	ErrDuplicateArtifact = errors.New("story already exists")
	// ErrNoParentDirectory means the source path has no usable directory.
	ErrNoParentDirectory = errors.New("not a recognisable directory")
	// ErrNoComponent means the source file declares no component.
	ErrNoComponent = errors.New("no component found")
)

// historicalExts are story names checked regardless of configuration.
var historicalExts = []string{".stories.tsx", ".story.tsx"}

// Plan is a synthesized artifact and where it should be written.
type Plan struct {
	Artifact *Artifact
	Target   string
	Text     string
}

// Synthesizer builds story artifacts and checks for existing story files.
// It never writes.
type Synthesizer struct {
	// StoryExt is appended to the source stem to name the story file.
	StoryExt string
}

// NewSynthesizer returns a synthesizer for the configured extension.
func NewSynthesizer(ext string) Synthesizer {
	if strings.TrimSpace(ext) == "" {
		ext = config.DefaultStoryFileExt
	}
	return Synthesizer{StoryExt: ext}
}

// Stem returns the file name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Synthesize builds the story for component declared in sourcePath.
//
// It returns ErrNoParentDirectory when sourcePath has no existing parent
// directory and ErrDuplicateArtifact when <stem>.stories.tsx,
// <stem>.story.tsx or <stem><StoryExt> already exists next to it.
func (s Synthesizer) Synthesize(component, sourcePath string) (Plan, error) {
	if component == "" {
		return Plan{}, ErrNoComponent
	}

	dir, err := parentDir(sourcePath)
	if err != nil {
		return Plan{}, err
	}

	stem := Stem(sourcePath)
	ext := s.StoryExt
	if ext == "" {
		ext = config.DefaultStoryFileExt
	}
	target := filepath.Join(dir, stem+ext)

	for _, candidate := range candidates(dir, stem, ext) {
		if _, err := os.Stat(candidate); err == nil {
			return Plan{}, fmt.Errorf("%w for %s: %s", ErrDuplicateArtifact, sourcePath, candidate)
		}
	}

	artifact := NewArtifact(component, stem)
	text, err := artifact.Emit()
	if err != nil {
		return Plan{}, err
	}

	return Plan{Artifact: artifact, Target: target, Text: text}, nil
}

func candidates(dir, stem, ext string) []string {
	out := make([]string, 0, len(historicalExts)+1)
	for _, e := range historicalExts {
		out = append(out, filepath.Join(dir, stem+e))
	}
	if ext != historicalExts[0] && ext != historicalExts[1] {
		out = append(out, filepath.Join(dir, stem+ext))
	}
	return out
}

func parentDir(sourcePath string) (string, error) {
	if strings.TrimSpace(sourcePath) == "" {
		return "", fmt.Errorf("%w: empty path", ErrNoParentDirectory)
	}

	clean := filepath.Clean(sourcePath)
	dir := filepath.Dir(clean)
	if dir == clean {
		return "", fmt.Errorf("%w: %s", ErrNoParentDirectory, sourcePath)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNoParentDirectory, dir)
	}
	return dir, nil
}
