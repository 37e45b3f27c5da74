// Package validate checks and sanitizes user-supplied files and text before
// they enter the pipeline.
package validate

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// MaxFileSize is the largest accepted input file, 10MB.
	MaxFileSize = 10 * 1024 * 1024
	// MaxTextLength bounds any free-form text input.
	MaxTextLength = 100000
	// MaxFilesPerRequest bounds one batch of uploads.
	MaxFilesPerRequest = 20
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".txt":  true,
}

var (
	reScriptTag    = regexp.MustCompile(`(?is)<script.*?>.*?</script>`)
	reJavascript   = regexp.MustCompile(`(?i)javascript:`)
	reEventHandler = regexp.MustCompile(`(?i)on\w+\s*=`)
	reWhitespace   = regexp.MustCompile(`\s+`)
)

// Error marks a rejected input.
type Error struct {
	Field string
	Msg   string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return "validation: " + e.Msg
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Msg)
}

// File checks a single input file's extension and size.
func File(name string, size int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return &Error{Field: name, Msg: "file extension not allowed, only .pdf, .doc, .docx, .xls, .xlsx and .txt are supported"}
	}

	if size > MaxFileSize {
		return &Error{Field: name, Msg: "file size exceeds the 10MB limit"}
	}

	return nil
}

// FileCount rejects batches bigger than MaxFilesPerRequest.
func FileCount(n int) error {
	if n == 0 {
		return &Error{Msg: "at least one file is required"}
	}
	if n > MaxFilesPerRequest {
		return &Error{Msg: fmt.Sprintf("too many files, maximum %d allowed per run", MaxFilesPerRequest)}
	}
	return nil
}

// Text checks a free-form text input for presence, length and script
// injection markers.
func Text(text, field string, required bool) error {
	if required && strings.TrimSpace(text) == "" {
		return &Error{Field: field, Msg: "is required"}
	}

	if len(text) > MaxTextLength {
		return &Error{Field: field, Msg: fmt.Sprintf("exceeds maximum length of %d characters", MaxTextLength)}
	}

	if reScriptTag.MatchString(text) || reJavascript.MatchString(text) || reEventHandler.MatchString(text) {
		return &Error{Field: field, Msg: "invalid content detected"}
	}

	return nil
}

// SanitizeText strips script injection markers and normalizes all whitespace
// runs to single spaces.
func SanitizeText(text string) string {
	text = reScriptTag.ReplaceAllString(text, "")
	text = reJavascript.ReplaceAllString(text, "")
	text = reEventHandler.ReplaceAllString(text, "")

	return strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
}
