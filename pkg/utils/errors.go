package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// --- Sentinel Errors for Categorization ---
var (
	ErrConfigValidation  = errors.New("configuration validation error")
	ErrParsing           = errors.New("parsing error")    // Wraps specific parsing error (HTML, markdown, JSON)
	ErrFilesystem        = errors.New("filesystem error") // Wraps os errors
	ErrDatabase          = errors.New("database error")   // Wraps badger errors
	ErrDocumentNotFound  = errors.New("document not found")
	ErrCollectionUnknown = errors.New("unknown collection")
	ErrContentSelector   = errors.New("content selector not found")
	ErrMarkdownConvert   = errors.New("failed to convert HTML to markdown")
	ErrPartialSelection  = errors.New("selection must set slug, value and label together")
	ErrSessionNotFound   = errors.New("viewer session not found")
	ErrInvalidRequest    = errors.New("invalid request")
)

// WrapErrorf annotates err with a formatted message, keeping it matchable with errors.Is.
// Returns nil when err is nil.
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// CategorizeError maps an error to a predefined category string for logging and API responses.
func CategorizeError(err error) string {
	if err == nil {
		return "None"
	}

	switch {
	case errors.Is(err, ErrConfigValidation):
		return "Config_Validation"
	case errors.Is(err, ErrDocumentNotFound):
		return "Lookup_DocumentNotFound"
	case errors.Is(err, ErrCollectionUnknown):
		return "Lookup_CollectionUnknown"
	case errors.Is(err, ErrSessionNotFound):
		return "Session_NotFound"
	case errors.Is(err, ErrPartialSelection):
		return "Selection_Partial"
	case errors.Is(err, ErrInvalidRequest):
		return "Request_Invalid"
	case errors.Is(err, ErrContentSelector):
		return "Content_SelectorNotFound"
	case errors.Is(err, ErrMarkdownConvert):
		return "Content_Markdown"
	case errors.Is(err, ErrParsing):
		errMsg := err.Error()
		if strings.Contains(errMsg, "HTML") {
			return "Content_ParsingHTML"
		}
		if strings.Contains(errMsg, "JSON") {
			return "Content_ParsingJSON"
		}
		if strings.Contains(errMsg, "YAML") {
			return "Content_ParsingYAML"
		}
		return "Content_ParsingOther"
	case errors.Is(err, ErrFilesystem):
		if errors.Is(err, os.ErrPermission) {
			return "Filesystem_Permission"
		}
		if errors.Is(err, os.ErrNotExist) {
			return "Filesystem_NotExist"
		}
		return "Filesystem_Other"
	case errors.Is(err, ErrDatabase):
		return "Database_Other"
	}

	if errors.Is(err, context.Canceled) {
		return "System_ContextCanceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "System_ContextDeadlineExceeded"
	}
	if errors.Is(err, os.ErrNotExist) {
		return "Filesystem_NotExist"
	}

	return "Unknown"
}
