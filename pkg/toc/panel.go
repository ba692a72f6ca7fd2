package toc

import "strings"

// EmptyPanelText is what a TOC panel shows when there is nothing to list.
const EmptyPanelText = "No items found"

// FormatPanel renders the index as an indented plain-text TOC, marking the active entry.
// A nil or empty index renders EmptyPanelText.
func FormatPanel(idx SectionIndex, active string) string {
	if len(idx) == 0 {
		return EmptyPanelText
	}

	var sb strings.Builder
	for _, h := range idx {
		marker := "  "
		if h.ID == active {
			marker = "> "
		}
		sb.WriteString(marker)
		sb.WriteString(strings.Repeat("  ", h.Level-1))
		sb.WriteString("- ")
		sb.WriteString(h.Text)
		sb.WriteString(" (#")
		sb.WriteString(h.ID)
		sb.WriteString(")\n")
	}
	return sb.String()
}
