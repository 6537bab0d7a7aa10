package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"quill/internal/types"
)

func newTestNoteStore(t *testing.T) *FileNoteStore {
	t.Helper()
	return NewFileNoteStore(filepath.Join(t.TempDir(), "notes.json"))
}

func TestFileNoteStoreCreateDefaults(t *testing.T) {
	ctx := context.Background()
	store := newTestNoteStore(t)

	note, err := store.Create(ctx, "nb_1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if note.Title != types.DefaultNoteTitle {
		t.Fatalf("expected default title %q, got %q", types.DefaultNoteTitle, note.Title)
	}
	if note.NotebookID != "nb_1" {
		t.Fatalf("expected notebook id nb_1, got %q", note.NotebookID)
	}
	if note.ID == "" {
		t.Fatalf("expected generated note id")
	}
	if note.Trashed {
		t.Fatalf("new note should not be trashed")
	}
}

func TestFileNoteStoreCreateRequiresNotebook(t *testing.T) {
	ctx := context.Background()
	store := newTestNoteStore(t)

	if _, err := store.Create(ctx, "  "); err == nil {
		t.Fatalf("expected error for blank notebook id")
	}
}

func TestFileNoteStorePutPreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := newTestNoteStore(t)

	created, err := store.Create(ctx, "nb_1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	created.Title = "Plan"
	created.Content = json.RawMessage(`{"text":"hello"}`)
	updated, err := store.Put(ctx, created)
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("expected CreatedAt preserved")
	}
	if updated.Title != "Plan" {
		t.Fatalf("expected title update, got %q", updated.Title)
	}
	if string(updated.Content) != `{"text":"hello"}` {
		t.Fatalf("unexpected content: %s", updated.Content)
	}

	if _, err := store.Put(ctx, &types.Note{ID: "missing"}); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestFileNoteStoreListEntriesOrderAndTrash(t *testing.T) {
	ctx := context.Background()
	store := newTestNoteStore(t)

	first, err := store.Create(ctx, "nb_1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second, err := store.Create(ctx, "nb_1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := store.Create(ctx, "nb_other"); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Touch the first note so it becomes the most recently updated.
	first.Title = "Touched"
	if _, err := store.Put(ctx, first); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	entries, err := store.ListEntries(ctx, "nb_1")
	if err != nil {
		t.Fatalf("ListEntries returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != first.ID {
		t.Fatalf("expected most recently updated note first, got %q", entries[0].ID)
	}

	if err := store.Trash(ctx, second.ID); err != nil {
		t.Fatalf("Trash returned error: %v", err)
	}
	entries, err = store.ListEntries(ctx, "nb_1")
	if err != nil {
		t.Fatalf("ListEntries returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != first.ID {
		t.Fatalf("expected trashed note excluded from listing")
	}

	count, err := store.CountActive(ctx, "nb_1")
	if err != nil {
		t.Fatalf("CountActive returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 active note, got %d", count)
	}
}

func TestFileNoteStoreTrashIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestNoteStore(t)

	note, err := store.Create(ctx, "nb_1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := store.Trash(ctx, note.ID); err != nil {
		t.Fatalf("Trash returned error: %v", err)
	}
	if err := store.Trash(ctx, note.ID); err != nil {
		t.Fatalf("second Trash should be a no-op, got %v", err)
	}

	stored, ok, err := store.Get(ctx, note.ID)
	if err != nil || !ok {
		t.Fatalf("expected trashed note still stored, got ok=%v err=%v", ok, err)
	}
	if !stored.Trashed || stored.TrashedAt == nil {
		t.Fatalf("expected trash markers set")
	}

	if err := store.Trash(ctx, "missing"); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}
