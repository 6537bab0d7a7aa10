package store

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"quill/internal/types"
)

var ErrNoteNotFound = errors.New("note not found")

const noteSchemaVersion = 1

type NoteStore interface {
	// ListEntries returns the non-trashed notes of a notebook as list
	// projections, most recently updated first.
	ListEntries(ctx context.Context, notebookID string) ([]*types.NoteListEntry, error)
	// CountActive reports how many non-trashed notes a notebook holds.
	CountActive(ctx context.Context, notebookID string) (int, error)
	Get(ctx context.Context, id string) (*types.Note, bool, error)
	Create(ctx context.Context, notebookID string) (*types.Note, error)
	// Put replaces a note wholesale. CreatedAt is preserved from the stored
	// copy; UpdatedAt is stamped here.
	Put(ctx context.Context, note *types.Note) (*types.Note, error)
	// Trash soft-deletes a note. Trashed notes stay on disk but disappear
	// from listings and counts.
	Trash(ctx context.Context, id string) error
}

type FileNoteStore struct {
	path string
	mu   sync.Mutex
}

type noteFile struct {
	Version int           `json:"version"`
	Notes   []*types.Note `json:"notes"`
}

func NewFileNoteStore(path string) *FileNoteStore {
	return &FileNoteStore{path: path}
}

func (s *FileNoteStore) ListEntries(ctx context.Context, notebookID string) ([]*types.NoteListEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*types.NoteListEntry{}, nil
		}
		return nil, err
	}
	out := make([]*types.NoteListEntry, 0)
	for _, note := range file.Notes {
		if note == nil || note.Trashed || note.NotebookID != notebookID {
			continue
		}
		out = append(out, &types.NoteListEntry{
			ID:        note.ID,
			Title:     note.Title,
			UpdatedAt: note.UpdatedAt,
		})
	}
	sortEntriesByUpdated(out)
	return out, nil
}

func (s *FileNoteStore) CountActive(ctx context.Context, notebookID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	count := 0
	for _, note := range file.Notes {
		if note != nil && !note.Trashed && note.NotebookID == notebookID {
			count++
		}
	}
	return count, nil
}

func (s *FileNoteStore) Get(ctx context.Context, id string) (*types.Note, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	for _, note := range file.Notes {
		if note.ID == id {
			return cloneNote(note), true, nil
		}
	}
	return nil, false, nil
}

func (s *FileNoteStore) Create(ctx context.Context, notebookID string) (*types.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notebookID = strings.TrimSpace(notebookID)
	if notebookID == "" {
		return nil, errors.New("notebook id is required")
	}

	file, err := s.load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if file == nil {
		file = newNoteFile()
	}

	now := time.Now().UTC()
	created := &types.Note{
		ID:         newNoteID(),
		NotebookID: notebookID,
		Title:      types.DefaultNoteTitle,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	file.Notes = append(file.Notes, created)
	if err := s.save(file); err != nil {
		return nil, err
	}
	return cloneNote(created), nil
}

func (s *FileNoteStore) Put(ctx context.Context, note *types.Note) (*types.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note == nil {
		return nil, errors.New("note is required")
	}
	file, err := s.load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	for i, existing := range file.Notes {
		if existing.ID != note.ID {
			continue
		}
		next := cloneNote(note)
		next.CreatedAt = existing.CreatedAt
		next.UpdatedAt = time.Now().UTC()
		file.Notes[i] = next
		if err := s.save(file); err != nil {
			return nil, err
		}
		return cloneNote(next), nil
	}
	return nil, ErrNoteNotFound
}

func (s *FileNoteStore) Trash(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoteNotFound
		}
		return err
	}
	for _, note := range file.Notes {
		if note.ID != id {
			continue
		}
		if note.Trashed {
			return nil
		}
		now := time.Now().UTC()
		note.Trashed = true
		note.TrashedAt = &now
		note.UpdatedAt = now
		return s.save(file)
	}
	return ErrNoteNotFound
}

func (s *FileNoteStore) load() (*noteFile, error) {
	file := newNoteFile()
	if err := readJSON(s.path, file); err != nil {
		return nil, err
	}
	if file.Version == 0 {
		file.Version = noteSchemaVersion
	}
	if file.Notes == nil {
		file.Notes = []*types.Note{}
	}
	return file, nil
}

func (s *FileNoteStore) save(file *noteFile) error {
	file.Version = noteSchemaVersion
	return writeJSONAtomic(s.path, file)
}

func newNoteFile() *noteFile {
	return &noteFile{Version: noteSchemaVersion, Notes: []*types.Note{}}
}

func sortEntriesByUpdated(entries []*types.NoteListEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].UpdatedAt.Equal(entries[j].UpdatedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
}

func cloneNote(note *types.Note) *types.Note {
	if note == nil {
		return nil
	}
	copy := *note
	if note.Content != nil {
		copy.Content = append([]byte(nil), note.Content...)
	}
	if note.TrashedAt != nil {
		at := *note.TrashedAt
		copy.TrashedAt = &at
	}
	return &copy
}

func newNoteID() string {
	return "note_" + randomHex(8)
}
