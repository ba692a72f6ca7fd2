package toc

import (
	"bufio"
	"fmt"
	"strings"
)

const (
	headingMarker = '#'
	minLevel      = 1
	maxLevel      = 4

	// fallbackSlug is used when heading text slugifies to nothing (e.g. only punctuation or non-Latin script).
	fallbackSlug = "section"
)

// HeadingDescriptor is one navigable section of a document.
// Level is only used for indentation; it does not take part in identity or ordering.
type HeadingDescriptor struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// SectionIndex is the ordered set of headings of one document, in document order.
// No two descriptors share an ID. An index is rebuilt in full whenever its document changes.
type SectionIndex []HeadingDescriptor

// Len returns the number of headings in the index.
func (idx SectionIndex) Len() int { return len(idx) }

// IDs returns the heading ids in document order.
func (idx SectionIndex) IDs() []string {
	ids := make([]string, len(idx))
	for i, h := range idx {
		ids[i] = h.ID
	}
	return ids
}

// Find returns the descriptor with the given id.
func (idx SectionIndex) Find(id string) (HeadingDescriptor, bool) {
	for _, h := range idx {
		if h.ID == id {
			return h, true
		}
	}
	return HeadingDescriptor{}, false
}

// Contains reports whether id belongs to the index.
func (idx SectionIndex) Contains(id string) bool {
	_, ok := idx.Find(id)
	return ok
}

// Extract scans text line by line and returns its headings.
// A heading line starts with 1-4 '#' markers followed by a space and the heading text.
// Every other line, including ones with five or more markers, is ignored.
func Extract(text string) SectionIndex {
	b := newBuilder()
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		level, headingText, ok := parseHeadingLine(scanner.Text())
		if !ok {
			continue
		}
		b.add(headingText, level)
	}
	return b.index
}

// parseHeadingLine reports whether line is a heading line and returns its level and trimmed text.
func parseHeadingLine(line string) (int, string, bool) {
	line = strings.TrimRight(line, "\r")
	level := 0
	for level < len(line) && line[level] == headingMarker {
		level++
	}
	if level < minLevel || level > maxLevel {
		return 0, "", false
	}
	if level >= len(line) || line[level] != ' ' {
		return 0, "", false
	}
	headingText := strings.TrimSpace(line[level+1:])
	if headingText == "" { // a marker with no text is not a heading
		return 0, "", false
	}
	return level, headingText, true
}

// builder assigns unique ids to headings of a single document.
// Counters live only as long as one extraction call.
type builder struct {
	counts map[string]int  // slug -> number of repeats seen so far
	used   map[string]bool // every id already emitted
	index  SectionIndex
}

func newBuilder() *builder {
	return &builder{
		counts: make(map[string]int),
		used:   make(map[string]bool),
		index:  SectionIndex{},
	}
}

func (b *builder) add(text string, level int) {
	slug := Slugify(text)
	if slug == "" {
		slug = fallbackSlug
	}

	id := slug
	n, seen := b.counts[slug]
	if seen {
		n++
		id = fmt.Sprintf("%s-%d", slug, n)
	}
	// A generated "slug-N" may already be taken by a literal heading; keep counting until free.
	for b.used[id] {
		n++
		id = fmt.Sprintf("%s-%d", slug, n)
	}
	b.counts[slug] = n
	b.used[id] = true

	b.index = append(b.index, HeadingDescriptor{ID: id, Text: text, Level: level})
}
