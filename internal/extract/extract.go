// Package extract pulls plain text out of resume files.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ProcessingError reports which file failed and at which stage.
type ProcessingError struct {
	File  string
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.File, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// FromFile extracts text from a resume file, dispatching on extension.
func FromFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return fromPDF(path)
	case ".txt":
		return fromPlainText(path)
	default:
		return "", &ProcessingError{
			File:  path,
			Stage: "extract",
			Err:   fmt.Errorf("unsupported file type %q", filepath.Ext(path)),
		}
	}
}

func fromPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", &ProcessingError{File: path, Stage: "open pdf", Err: err}
	}
	defer f.Close()

	var builder strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		// A single broken page should not sink the whole document.
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		builder.WriteString(text)
		builder.WriteString("\n\n")
	}

	text := builder.String()
	if strings.TrimSpace(text) == "" {
		return "", &ProcessingError{
			File:  path,
			Stage: "extract pdf",
			Err:   fmt.Errorf("no text content found"),
		}
	}

	return text, nil
}

func fromPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ProcessingError{File: path, Stage: "read", Err: err}
	}
	return string(data), nil
}
