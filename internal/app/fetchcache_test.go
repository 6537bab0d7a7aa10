package app

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"quill/internal/types"
)

func TestFetchCacheNoteDetailSharesInFlight(t *testing.T) {
	cache := NewFetchCache()

	var calls atomic.Int32
	release := make(chan struct{})
	loader := func() (*types.Note, error) {
		calls.Add(1)
		<-release
		return &types.Note{ID: "note_1"}, nil
	}

	var wg sync.WaitGroup
	results := make([]*types.Note, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			note, err := cache.NoteDetail("note_1", loader)
			if err != nil {
				t.Errorf("NoteDetail returned error: %v", err)
			}
			results[i] = note
		}(i)
	}
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one loader call for concurrent fetches, got %d", got)
	}
	for _, note := range results {
		if note == nil || note.ID != "note_1" {
			t.Fatalf("expected shared result, got %+v", note)
		}
	}
}

func TestFetchCacheNoteDetailEvictsOnSettle(t *testing.T) {
	cache := NewFetchCache()

	var calls atomic.Int32
	loader := func() (*types.Note, error) {
		calls.Add(1)
		return &types.Note{ID: "note_1"}, nil
	}

	if _, err := cache.NoteDetail("note_1", loader); err != nil {
		t.Fatalf("NoteDetail returned error: %v", err)
	}
	if _, err := cache.NoteDetail("note_1", loader); err != nil {
		t.Fatalf("NoteDetail returned error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected a fresh load after settle, got %d calls", got)
	}
}

func TestFetchCacheNoteDetailPropagatesErrors(t *testing.T) {
	cache := NewFetchCache()
	want := errors.New("boom")

	_, err := cache.NoteDetail("note_1", func() (*types.Note, error) {
		return nil, want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected loader error, got %v", err)
	}

	// Failure also evicts; the next call loads fresh.
	note, err := cache.NoteDetail("note_1", func() (*types.Note, error) {
		return &types.Note{ID: "note_1"}, nil
	})
	if err != nil || note == nil {
		t.Fatalf("expected fresh load after failure, got note=%v err=%v", note, err)
	}
}

func TestFetchCacheNoteListRetainsPerEpoch(t *testing.T) {
	cache := NewFetchCache()

	var calls atomic.Int32
	loader := func() ([]*types.NoteListEntry, error) {
		calls.Add(1)
		return []*types.NoteListEntry{{ID: "note_1"}}, nil
	}

	for i := 0; i < 3; i++ {
		entries, err := cache.NoteList("nb_1", 0, loader)
		if err != nil {
			t.Fatalf("NoteList returned error: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("unexpected entries %+v", entries)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one load per epoch, got %d", got)
	}

	// A new epoch is a new key.
	if _, err := cache.NoteList("nb_1", 1, loader); err != nil {
		t.Fatalf("NoteList returned error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected a load for the new epoch, got %d", got)
	}
}

func TestFetchCacheNoteListRetainsErrors(t *testing.T) {
	cache := NewFetchCache()
	want := errors.New("list failed")

	var calls atomic.Int32
	loader := func() ([]*types.NoteListEntry, error) {
		calls.Add(1)
		return nil, want
	}

	if _, err := cache.NoteList("nb_1", 0, loader); !errors.Is(err, want) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, err := cache.NoteList("nb_1", 0, loader); !errors.Is(err, want) {
		t.Fatalf("expected retained error for the epoch, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected failed epoch retained, got %d calls", got)
	}
}

func TestFetchCacheReset(t *testing.T) {
	cache := NewFetchCache()

	var calls atomic.Int32
	loader := func() ([]*types.NoteListEntry, error) {
		calls.Add(1)
		return nil, nil
	}

	if _, err := cache.NoteList("nb_1", 0, loader); err != nil {
		t.Fatalf("NoteList returned error: %v", err)
	}
	cache.Reset()
	if _, err := cache.NoteList("nb_1", 0, loader); err != nil {
		t.Fatalf("NoteList returned error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected reload after Reset, got %d calls", got)
	}
}
