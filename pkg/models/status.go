package models

// EntryStatus represents the lookup result of a document entry in the database
type EntryStatus string

const (
	EntryStatusUnset    EntryStatus = ""          // Zero value = unset/unknown
	EntryStatusFound    EntryStatus = "found"     // Entry present and decoded
	EntryStatusCorrupt  EntryStatus = "corrupt"   // Entry present but could not be decoded
	EntryStatusNotFound EntryStatus = "not_found" // Entry not in database
	EntryStatusDBError  EntryStatus = "db_error"  // Database error occurred
)

// String implements fmt.Stringer for logging
func (s EntryStatus) String() string {
	if s == "" {
		return "unset"
	}
	return string(s)
}

// DocumentFormat is the source format of a document, chosen by file extension
type DocumentFormat string

const (
	FormatUnknown  DocumentFormat = ""
	FormatMarkdown DocumentFormat = "markdown"
	FormatText     DocumentFormat = "text"
	FormatHTML     DocumentFormat = "html"
)

// FormatFromExt maps a file extension (with dot) to a DocumentFormat
func FormatFromExt(ext string) DocumentFormat {
	switch ext {
	case ".md", ".markdown", ".mdx":
		return FormatMarkdown
	case ".txt":
		return FormatText
	case ".html", ".htm":
		return FormatHTML
	}
	return FormatUnknown
}

// IsValid returns true if the format is one the indexer understands
func (f DocumentFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatText, FormatHTML:
		return true
	}
	return false
}
