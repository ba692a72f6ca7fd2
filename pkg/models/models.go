package models

import (
	"time"

	"github.com/Sriram-PR/docnav/pkg/toc"
)

// DocumentRef locates one document of a collection: the (category, slug) pair
// the docs viewer routes on, plus where the content lives on disk
type DocumentRef struct {
	Category string         `json:"category"`
	Slug     string         `json:"slug"`
	Title    string         `json:"title"`     // Display label; first heading or file stem
	FileName string         `json:"file_name"` // Base name, shown by the toolbar
	FilePath string         `json:"file_path"` // Absolute or config-relative path
	Format   DocumentFormat `json:"format"`
}

// DocumentEntry is the cached index of a document, stored in the database
type DocumentEntry struct {
	Ref         DocumentRef      `json:"ref"`
	ContentHash string           `json:"content_hash"` // SHA-256 of the raw file
	Headings    toc.SectionIndex `json:"headings"`
	IndexedAt   time.Time        `json:"indexed_at"`
	ErrorType   string           `json:"error_type,omitempty"` // Set when extraction failed; Headings is then empty
}

// NavEntry is one leaf of the left navigation tree / tab bar
type NavEntry struct {
	Slug  string `json:"slug"`  // Collection (category) the leaf belongs to
	Value string `json:"value"` // Document slug, mirrored in the URL query parameter
	Label string `json:"label"` // Display label
}
