package storybook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetStory = `import type { Meta, StoryObj } from '@storybook/react';
import { Widget } from './Widget';

const meta: Meta<typeof Widget> = {
  component: Widget,
};

export default meta;

type Story = StoryObj<typeof Widget>;

export const Widget_Primary: Story = {
  render: (args) => <Widget {...args} />,
};
`

func TestArtifactEmit(t *testing.T) {
	a := NewArtifact("Widget", "Widget")

	text, err := a.Emit()
	require.NoError(t, err)
	assert.Equal(t, widgetStory, text)
	assert.Equal(t, "Widget_Primary", a.PrimaryStory())
}

func TestArtifactEmit_StemDiffersFromComponent(t *testing.T) {
	text, err := NewArtifact("Card", "index").Emit()
	require.NoError(t, err)
	assert.Contains(t, text, "import { Card } from './index';")
	assert.Contains(t, text, "export const Card_Primary: Story")
}

func TestArtifactEmit_Incomplete(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *Artifact)
	}{
		{"no component", func(a *Artifact) { a.Component = "" }},
		{"no type import", func(a *Artifact) { a.ImportTypes = "" }},
		{"no component import", func(a *Artifact) { a.ImportComponent = " " }},
		{"no meta", func(a *Artifact) { a.Meta = "" }},
		{"no story type", func(a *Artifact) { a.StoryType = "" }},
		{"no stories", func(a *Artifact) { a.Stories = nil }},
		{"unnamed story", func(a *Artifact) { a.Stories[0].Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArtifact("Widget", "Widget")
			tt.mutate(a)

			text, err := a.Emit()
			assert.ErrorIs(t, err, ErrIncompleteArtifact)
			assert.Empty(t, text)
		})
	}
}

func TestStem(t *testing.T) {
	assert.Equal(t, "Widget", Stem("/a/b/Widget.tsx"))
	assert.Equal(t, "Button.view", Stem("Button.view.jsx"))
	assert.Equal(t, "README", Stem("README"))
}
