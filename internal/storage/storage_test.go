package storage

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, err := store.Save("resume.PDF", []byte("pdf bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(id, ".pdf") {
		t.Fatalf("expected lowercased extension, got %q", id)
	}

	if !store.Exists(id) {
		t.Fatalf("stored file not found: %q", id)
	}

	data, err := store.Read(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, []byte("pdf bytes")) {
		t.Fatalf("unexpected content: %q", data)
	}

	if err := store.Delete(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Exists(id) {
		t.Fatal("file still exists after delete")
	}
}

func TestStoreUniqueIds(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := store.Save("resume.pdf", []byte("a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := store.Save("resume.pdf", []byte("b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
}

func TestStoreRejectsTraversalIds(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []string{"", "../secret", "a/b", `a\b`, ".."} {
		if _, err := store.Read(id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Read(%q) = %v, want ErrNotFound", id, err)
		}
		if store.Exists(id) {
			t.Fatalf("Exists(%q) = true", id)
		}
	}
}

func TestStoreDeleteUnknownId(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Delete("does-not-exist.pdf"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
