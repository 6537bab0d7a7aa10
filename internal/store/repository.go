package store

import (
	"context"
	"errors"
	"strings"
)

const (
	RepositoryBackendFile  = "file"
	RepositoryBackendBbolt = "bbolt"
)

type Repository interface {
	Notebooks() NotebookStore
	Notes() NoteStore
	Backend() string
	Close() error
}

type RepositoryPaths struct {
	NotebooksPath string
	NotesPath     string
	DBPath        string
}

type fileRepository struct {
	notebooks NotebookStore
	notes     NoteStore
}

func NewFileRepository(paths RepositoryPaths) Repository {
	return &fileRepository{
		notebooks: NewFileNotebookStore(paths.NotebooksPath),
		notes:     NewFileNoteStore(paths.NotesPath),
	}
}

func (r *fileRepository) Notebooks() NotebookStore {
	return r.notebooks
}

func (r *fileRepository) Notes() NoteStore {
	return r.notes
}

func (r *fileRepository) Backend() string {
	return RepositoryBackendFile
}

func (r *fileRepository) Close() error {
	return nil
}

func OpenRepository(paths RepositoryPaths, backend string) (Repository, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", RepositoryBackendBbolt:
		if strings.TrimSpace(paths.DBPath) == "" {
			return nil, errors.New("db path is required for bbolt repository")
		}
		return NewBboltRepository(paths.DBPath)
	case RepositoryBackendFile:
		return NewFileRepository(paths), nil
	default:
		return nil, errors.New("unsupported repository backend: " + backend)
	}
}

// SeedRepositoryFromFiles copies file-backed data into dst when dst is empty.
// Keeps startup backward-compatible for users who ran the file backend before
// the bbolt default.
func SeedRepositoryFromFiles(ctx context.Context, dst Repository, paths RepositoryPaths) error {
	if dst == nil || dst.Backend() == RepositoryBackendFile {
		return nil
	}
	src := NewFileRepository(paths)
	defer src.Close()

	seeded, err := seedNotebooks(ctx, dst.Notebooks(), src.Notebooks())
	if err != nil {
		return err
	}
	if !seeded {
		return nil
	}
	return seedNotes(ctx, dst.Notes(), src.Notes(), src.Notebooks())
}

func seedNotebooks(ctx context.Context, dst NotebookStore, src NotebookStore) (bool, error) {
	if dst == nil || src == nil {
		return false, nil
	}
	current, err := dst.List(ctx)
	if err != nil {
		return false, err
	}
	if len(current) > 0 {
		return false, nil
	}
	legacy, err := src.List(ctx)
	if err != nil {
		return false, err
	}
	for _, nb := range legacy {
		if _, err := dst.Add(ctx, nb); err != nil {
			return false, err
		}
	}
	return len(legacy) > 0, nil
}

func seedNotes(ctx context.Context, dst NoteStore, src NoteStore, srcNotebooks NotebookStore) error {
	if dst == nil || src == nil || srcNotebooks == nil {
		return nil
	}
	notebooks, err := srcNotebooks.List(ctx)
	if err != nil {
		return err
	}
	for _, nb := range notebooks {
		entries, err := src.ListEntries(ctx, nb.ID)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			note, ok, err := src.Get(ctx, entry.ID)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			created, err := dst.Create(ctx, note.NotebookID)
			if err != nil {
				return err
			}
			note.ID = created.ID
			if _, err := dst.Put(ctx, note); err != nil {
				return err
			}
		}
	}
	return nil
}
