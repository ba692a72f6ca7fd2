package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizeError_NilError(t *testing.T) {
	assert.Equal(t, "None", CategorizeError(nil))
}

func TestCategorizeError_SentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ConfigValidation", ErrConfigValidation, "Config_Validation"},
		{"DocumentNotFound", ErrDocumentNotFound, "Lookup_DocumentNotFound"},
		{"CollectionUnknown", ErrCollectionUnknown, "Lookup_CollectionUnknown"},
		{"SessionNotFound", ErrSessionNotFound, "Session_NotFound"},
		{"PartialSelection", ErrPartialSelection, "Selection_Partial"},
		{"InvalidRequest", ErrInvalidRequest, "Request_Invalid"},
		{"ContentSelector", ErrContentSelector, "Content_SelectorNotFound"},
		{"MarkdownConvert", ErrMarkdownConvert, "Content_Markdown"},
		{"Database", ErrDatabase, "Database_Other"},
		{"Filesystem", ErrFilesystem, "Filesystem_Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeError(tt.err))
			wrapped := fmt.Errorf("outer context: %w", tt.err)
			assert.Equal(t, tt.expected, CategorizeError(wrapped))
		})
	}
}

func TestCategorizeError_ParsingErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"HTML", fmt.Errorf("%w: bad HTML document", ErrParsing), "Content_ParsingHTML"},
		{"JSON", fmt.Errorf("%w: decoding JSON entry", ErrParsing), "Content_ParsingJSON"},
		{"YAML", fmt.Errorf("%w: YAML config", ErrParsing), "Content_ParsingYAML"},
		{"Other", fmt.Errorf("%w: something odd", ErrParsing), "Content_ParsingOther"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeError(tt.err))
		})
	}
}

func TestCategorizeError_Filesystem(t *testing.T) {
	assert.Equal(t, "Filesystem_Permission",
		CategorizeError(fmt.Errorf("%w: %w", ErrFilesystem, os.ErrPermission)))
	assert.Equal(t, "Filesystem_NotExist",
		CategorizeError(fmt.Errorf("%w: %w", ErrFilesystem, os.ErrNotExist)))
	assert.Equal(t, "Filesystem_NotExist", CategorizeError(os.ErrNotExist))
}

func TestCategorizeError_ContextErrors(t *testing.T) {
	assert.Equal(t, "System_ContextCanceled", CategorizeError(context.Canceled))
	assert.Equal(t, "System_ContextDeadlineExceeded", CategorizeError(context.DeadlineExceeded))
}

func TestCategorizeError_Unknown(t *testing.T) {
	assert.Equal(t, "Unknown", CategorizeError(errors.New("mystery")))
}

func TestSanitizeSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Simple", "docs", "docs"},
		{"Uppercase", "README", "readme"},
		{"Spaces", "Getting Started", "getting-started"},
		{"WithSlash", "guides/setup", "guides-setup"},
		{"WithColon", "api:v2", "api-v2"},
		{"KeepsDotsAndUnderscores", "v1.2_notes", "v1.2_notes"},
		{"ConsecutiveInvalid", "a ?? b", "a-b"},
		{"LeadingTrailing", "  -notes.  ", "notes"},
		{"Empty", "", "untitled"},
		{"OnlyInvalidChars", "<>:", "untitled"},
		{"ControlChars", "doc\x01\x02name", "doc-name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeSlug(tt.input))
		})
	}
}

func TestSanitizeSlug_LongNames(t *testing.T) {
	result := SanitizeSlug(strings.Repeat("a", 150))
	assert.Len(t, result, 100)
}

func TestCompileRegexPatterns(t *testing.T) {
	compiled, err := CompileRegexPatterns([]string{`^drafts/`, "", `\.bak$`})
	require.NoError(t, err)
	assert.Len(t, compiled, 2)

	_, err = CompileRegexPatterns([]string{`[unclosed`})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigValidation)
}

func TestCalculateStringSHA256(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		CalculateStringSHA256(""))
	assert.Equal(t,
		"b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		CalculateStringSHA256("hello world"))
}

func TestCalculateFileSHA256(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(tmpFile, []byte("hello world"), 0644))

	result, err := CalculateFileSHA256(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, CalculateStringSHA256("hello world"), result)

	_, err = CalculateFileSHA256(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}

func TestWrapErrorf(t *testing.T) {
	assert.Nil(t, WrapErrorf(nil, "ignored"))

	original := errors.New("original error")
	wrapped := WrapErrorf(original, "context %s", "value")
	require.Error(t, wrapped)
	assert.ErrorIs(t, wrapped, original)
	assert.Equal(t, "context value: original error", wrapped.Error())
}

func TestMatchesAny(t *testing.T) {
	patterns, err := CompileRegexPatterns([]string{`^drafts/`, `\.bak$`})
	require.NoError(t, err)

	assert.True(t, MatchesAny(patterns, "drafts/intro.md"))
	assert.True(t, MatchesAny(patterns, "guide.md.bak"))
	assert.False(t, MatchesAny(patterns, "guide.md"))
	assert.False(t, MatchesAny(nil, "anything"))
}
