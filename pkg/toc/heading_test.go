package toc

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_BasicDocument(t *testing.T) {
	text := `# Getting Started

Some intro text.

## Installation

Run the installer.

### Linux Notes
#### Troubleshooting
`

	idx := Extract(text)

	assert.Equal(t, SectionIndex{
		{ID: "getting-started", Text: "Getting Started", Level: 1},
		{ID: "installation", Text: "Installation", Level: 2},
		{ID: "linux-notes", Text: "Linux Notes", Level: 3},
		{ID: "troubleshooting", Text: "Troubleshooting", Level: 4},
	}, idx)
}

func TestExtract_DuplicateHeadings(t *testing.T) {
	idx := Extract("# A\n# A\n# A\n")

	assert.Equal(t, []string{"a", "a-1", "a-2"}, idx.IDs())
	for _, h := range idx {
		assert.Equal(t, "A", h.Text)
		assert.Equal(t, 1, h.Level)
	}
}

func TestExtract_DuplicatesAcrossLevels(t *testing.T) {
	idx := Extract("# Usage\n## Usage\n### Usage\n")

	assert.Equal(t, []string{"usage", "usage-1", "usage-2"}, idx.IDs())
	assert.Equal(t, []int{1, 2, 3}, []int{idx[0].Level, idx[1].Level, idx[2].Level})
}

func TestExtract_IgnoresNonHeadingLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"five markers", "##### Too Deep"},
		{"six markers", "###### Deeper"},
		{"no space", "#NoSpace"},
		{"marker only", "#"},
		{"marker and space only", "#   "},
		{"marker and single space", "# "},
		{"h2 marker and single space", "## "},
		{"marker and single space with CR", "# \r"},
		{"leading indent", "  # Indented"},
		{"plain text", "just a paragraph"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Extract(tt.line))
		})
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	idx := Extract("")

	assert.NotNil(t, idx)
	assert.Empty(t, idx)
}

func TestExtract_CRLFAndTrim(t *testing.T) {
	idx := Extract("## Spaced Out   \r\n# Next\r\n")

	require.Len(t, idx, 2)
	assert.Equal(t, "Spaced Out", idx[0].Text)
	assert.Equal(t, "spaced-out", idx[0].ID)
	assert.Equal(t, "next", idx[1].ID)
}

func TestExtract_LiteralCollisionWithGeneratedID(t *testing.T) {
	idx := Extract("# A 1\n# A\n# A\n")

	assert.Equal(t, []string{"a-1", "a", "a-2"}, idx.IDs())
}

func TestExtract_FallbackSlug(t *testing.T) {
	idx := Extract("# !!!\n# ???\n")

	assert.Equal(t, []string{"section", "section-1"}, idx.IDs())
}

func TestExtract_CountersResetPerCall(t *testing.T) {
	first := Extract("# Intro\n# Intro\n")
	second := Extract("# Intro\n")

	assert.Equal(t, []string{"intro", "intro-1"}, first.IDs())
	assert.Equal(t, []string{"intro"}, second.IDs())
}

func TestExtract_IDsPairwiseDistinct(t *testing.T) {
	inputs := []string{
		"# A\n# A 1\n# A\n# a-1\n# A\n",
		"# x\n## X\n### x!\n#### X?\n# x-1\n# x-2\n",
		"# Section\n# !!!\n# section\n# ---\n",
	}

	var generated strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&generated, "%s Item %d\n", strings.Repeat("#", i%4+1), i%5)
		generated.WriteString("# Item\n")
	}
	inputs = append(inputs, generated.String())

	for i, input := range inputs {
		t.Run(fmt.Sprintf("input_%d", i), func(t *testing.T) {
			idx := Extract(input)
			seen := make(map[string]bool)
			for _, h := range idx {
				assert.False(t, seen[h.ID], "duplicate id %q", h.ID)
				seen[h.ID] = true
			}
		})
	}
}

func TestSectionIndex_Lookups(t *testing.T) {
	idx := Extract("# One\n## Two\n")

	assert.Equal(t, 2, idx.Len())
	assert.True(t, idx.Contains("two"))
	assert.False(t, idx.Contains("three"))

	h, ok := idx.Find("one")
	require.True(t, ok)
	assert.Equal(t, "One", h.Text)

	_, ok = idx.Find("missing")
	assert.False(t, ok)
}
