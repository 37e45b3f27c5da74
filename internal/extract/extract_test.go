package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFromFilePlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("John Smith\nGo developer"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	text, err := FromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "John Smith\nGo developer" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestFromFileUnsupportedExtension(t *testing.T) {
	_, err := FromFile("resume.docx")
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}

	var pe *ProcessingError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProcessingError, got %T", err)
	}
	if pe.File != "resume.docx" {
		t.Fatalf("unexpected file in error: %q", pe.File)
	}
}

func TestFromFileMissingFile(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "gone.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

func TestFromFileBrokenPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := FromFile(path)
	if err == nil {
		t.Fatal("expected error for broken pdf")
	}

	var pe *ProcessingError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProcessingError, got %T", err)
	}
}
