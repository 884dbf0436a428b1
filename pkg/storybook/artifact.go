// Package storybook generates companion story files for components.
package storybook

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteArtifact is returned by Emit when a section is missing.
var ErrIncompleteArtifact = errors.New("story artifact is incomplete")

// PrimarySuffix names the story every artifact starts with.
const PrimarySuffix = "_Primary"

// Story is one exported story object.
type Story struct {
	Name string
	// Type is the annotation on the declaration, "Story" for generated ones.
	Type string
	// Render is the render function source.
	Render string
}

// Artifact is the in-memory form of a story file.
type Artifact struct {
	Component       string
	ImportTypes     string
	ImportComponent string
	Meta            string
	StoryType       string
	Stories         []Story
}

// NewArtifact builds the artifact for component, imported from ./<stem>.
func NewArtifact(component, stem string) *Artifact {
	return &Artifact{
		Component:       component,
		ImportTypes:     "import type { Meta, StoryObj } from '@storybook/react';",
		ImportComponent: fmt.Sprintf("import { %s } from './%s';", component, stem),
		Meta: fmt.Sprintf("const meta: Meta<typeof %s> = {\n  component: %s,\n};\n\nexport default meta;",
			component, component),
		StoryType: fmt.Sprintf("type Story = StoryObj<typeof %s>;", component),
		Stories: []Story{{
			Name:   component + PrimarySuffix,
			Type:   "Story",
			Render: fmt.Sprintf("(args) => <%s {...args} />", component),
		}},
	}
}

// PrimaryStory returns the identifier of the first story.
func (a *Artifact) PrimaryStory() string {
	if len(a.Stories) == 0 {
		return ""
	}
	return a.Stories[0].Name
}

// Emit serializes the artifact. It fails without producing any text when a
// section is empty.
func (a *Artifact) Emit() (string, error) {
	sections := map[string]string{
		"component":        a.Component,
		"type import":      a.ImportTypes,
		"component import": a.ImportComponent,
		"meta":             a.Meta,
		"story type":       a.StoryType,
	}
	for name, text := range sections {
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("%w: empty %s", ErrIncompleteArtifact, name)
		}
	}
	if len(a.Stories) == 0 {
		return "", fmt.Errorf("%w: no stories", ErrIncompleteArtifact)
	}

	var b strings.Builder
	b.WriteString(a.ImportTypes)
	b.WriteString("\n")
	b.WriteString(a.ImportComponent)
	b.WriteString("\n\n")
	b.WriteString(a.Meta)
	b.WriteString("\n\n")
	b.WriteString(a.StoryType)
	b.WriteString("\n")

	for _, s := range a.Stories {
		if s.Name == "" || s.Type == "" || s.Render == "" {
			return "", fmt.Errorf("%w: story without name, type or render", ErrIncompleteArtifact)
		}
		fmt.Fprintf(&b, "\nexport const %s: %s = {\n  render: %s,\n};\n", s.Name, s.Type, s.Render)
	}
	return b.String(), nil
}
