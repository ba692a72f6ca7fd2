package toc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPanel_Empty(t *testing.T) {
	assert.Equal(t, EmptyPanelText, FormatPanel(nil, ""))
	assert.Equal(t, EmptyPanelText, FormatPanel(SectionIndex{}, "anything"))
}

func TestFormatPanel_IndentsAndMarksActive(t *testing.T) {
	idx := Extract("# Intro\n## Setup\n")

	out := FormatPanel(idx, "setup")

	assert.Equal(t, "  - Intro (#intro)\n>   - Setup (#setup)\n", out)
}
