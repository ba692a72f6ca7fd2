package toc

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExtractMarkdown parses markdown content and returns its level 1-4 headings.
// Unlike Extract it understands markdown structure, so '#' lines inside fenced
// code blocks are not mistaken for headings. Ids follow the same slug and
// disambiguation rules as Extract.
func ExtractMarkdown(markdown []byte) SectionIndex {
	reader := text.NewReader(markdown)
	doc := goldmark.DefaultParser().Parse(reader)

	b := newBuilder()
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if heading.Level < minLevel || heading.Level > maxLevel {
			return ast.WalkSkipChildren, nil
		}
		var buf bytes.Buffer
		collectText(heading, markdown, &buf)
		if headingText := strings.TrimSpace(buf.String()); headingText != "" {
			b.add(headingText, heading.Level)
		}
		return ast.WalkSkipChildren, nil
	})

	return b.index
}

// collectText appends the plain text of n's inline descendants to buf.
func collectText(n ast.Node, source []byte, buf *bytes.Buffer) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		default:
			collectText(child, source, buf)
		}
	}
}
