package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"quill/internal/types"
)

var (
	bucketNotebooks = []byte("notebooks")
	bucketNotes     = []byte("notes")
)

type bboltRepository struct {
	db        *bolt.DB
	notebooks NotebookStore
	notes     NoteStore
}

func NewBboltRepository(path string) (Repository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("repository db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := initBboltSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &bboltRepository{
		db:        db,
		notebooks: &bboltNotebookStore{db: db},
		notes:     &bboltNoteStore{db: db},
	}, nil
}

func (r *bboltRepository) Notebooks() NotebookStore {
	return r.notebooks
}

func (r *bboltRepository) Notes() NoteStore {
	return r.notes
}

func (r *bboltRepository) Backend() string {
	return RepositoryBackendBbolt
}

func (r *bboltRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func initBboltSchema(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketNotebooks); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketNotes); err != nil {
			return err
		}
		return nil
	})
}

type bboltNotebookStore struct {
	db *bolt.DB
	mu sync.Mutex
}

func (s *bboltNotebookStore) List(ctx context.Context) ([]*types.Notebook, error) {
	out := make([]*types.Notebook, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotebooks)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var nb types.Notebook
			if err := json.Unmarshal(v, &nb); err != nil {
				return err
			}
			out = append(out, &nb)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortNotebooksByName(out)
	return out, nil
}

func (s *bboltNotebookStore) Get(ctx context.Context, id string) (*types.Notebook, bool, error) {
	var (
		out *types.Notebook
		ok  bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotebooks)
		if b == nil {
			return nil
		}
		raw := b.Get([]byte(id))
		if len(raw) == 0 {
			return nil
		}
		var nb types.Notebook
		if err := json.Unmarshal(raw, &nb); err != nil {
			return err
		}
		out = &nb
		ok = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, ok, nil
}

func (s *bboltNotebookStore) Add(ctx context.Context, notebook *types.Notebook) (*types.Notebook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if notebook == nil {
		return nil, errors.New("notebook is required")
	}
	name := strings.TrimSpace(notebook.Name)
	if name == "" {
		return nil, ErrNotebookName
	}
	now := time.Now().UTC()
	created := &types.Notebook{
		ID:        strings.TrimSpace(notebook.ID),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if created.ID == "" {
		created.ID = newNotebookID()
	}
	raw, err := json.Marshal(created)
	if err != nil {
		return nil, err
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotebooks)
		if b == nil {
			return errors.New("notebooks bucket missing")
		}
		key := []byte(created.ID)
		if b.Get(key) != nil {
			return errors.New("notebook already exists")
		}
		return b.Put(key, raw)
	}); err != nil {
		return nil, err
	}
	return cloneNotebook(created), nil
}

func (s *bboltNotebookStore) Rename(ctx context.Context, id, name string) (*types.Notebook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNotebookName
	}
	var out *types.Notebook
	if err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotebooks)
		if b == nil {
			return errors.New("notebooks bucket missing")
		}
		key := []byte(id)
		raw := b.Get(key)
		if len(raw) == 0 {
			return ErrNotebookNotFound
		}
		var nb types.Notebook
		if err := json.Unmarshal(raw, &nb); err != nil {
			return err
		}
		nb.Name = name
		nb.UpdatedAt = time.Now().UTC()
		next, err := json.Marshal(&nb)
		if err != nil {
			return err
		}
		if err := b.Put(key, next); err != nil {
			return err
		}
		out = &nb
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *bboltNotebookStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotebooks)
		if b == nil {
			return errors.New("notebooks bucket missing")
		}
		key := []byte(id)
		if b.Get(key) == nil {
			return ErrNotebookNotFound
		}
		return b.Delete(key)
	})
}

type bboltNoteStore struct {
	db *bolt.DB
	mu sync.Mutex
}

func (s *bboltNoteStore) ListEntries(ctx context.Context, notebookID string) ([]*types.NoteListEntry, error) {
	out := make([]*types.NoteListEntry, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var note types.Note
			if err := json.Unmarshal(v, &note); err != nil {
				return err
			}
			if note.Trashed || note.NotebookID != notebookID {
				return nil
			}
			out = append(out, &types.NoteListEntry{
				ID:        note.ID,
				Title:     note.Title,
				UpdatedAt: note.UpdatedAt,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortEntriesByUpdated(out)
	return out, nil
}

func (s *bboltNoteStore) CountActive(ctx context.Context, notebookID string) (int, error) {
	count := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var note types.Note
			if err := json.Unmarshal(v, &note); err != nil {
				return err
			}
			if !note.Trashed && note.NotebookID == notebookID {
				count++
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *bboltNoteStore) Get(ctx context.Context, id string) (*types.Note, bool, error) {
	var (
		out *types.Note
		ok  bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return nil
		}
		raw := b.Get([]byte(id))
		if len(raw) == 0 {
			return nil
		}
		var note types.Note
		if err := json.Unmarshal(raw, &note); err != nil {
			return err
		}
		out = &note
		ok = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, ok, nil
}

func (s *bboltNoteStore) Create(ctx context.Context, notebookID string) (*types.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notebookID = strings.TrimSpace(notebookID)
	if notebookID == "" {
		return nil, errors.New("notebook id is required")
	}
	now := time.Now().UTC()
	created := &types.Note{
		ID:         newNoteID(),
		NotebookID: notebookID,
		Title:      types.DefaultNoteTitle,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	raw, err := json.Marshal(created)
	if err != nil {
		return nil, err
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return errors.New("notes bucket missing")
		}
		return b.Put([]byte(created.ID), raw)
	}); err != nil {
		return nil, err
	}
	return cloneNote(created), nil
}

func (s *bboltNoteStore) Put(ctx context.Context, note *types.Note) (*types.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note == nil {
		return nil, errors.New("note is required")
	}
	var out *types.Note
	if err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return errors.New("notes bucket missing")
		}
		key := []byte(note.ID)
		raw := b.Get(key)
		if len(raw) == 0 {
			return ErrNoteNotFound
		}
		var existing types.Note
		if err := json.Unmarshal(raw, &existing); err != nil {
			return err
		}
		next := cloneNote(note)
		next.CreatedAt = existing.CreatedAt
		next.UpdatedAt = time.Now().UTC()
		encoded, err := json.Marshal(next)
		if err != nil {
			return err
		}
		if err := b.Put(key, encoded); err != nil {
			return err
		}
		out = next
		return nil
	}); err != nil {
		return nil, err
	}
	return cloneNote(out), nil
}

func (s *bboltNoteStore) Trash(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return errors.New("notes bucket missing")
		}
		key := []byte(id)
		raw := b.Get(key)
		if len(raw) == 0 {
			return ErrNoteNotFound
		}
		var note types.Note
		if err := json.Unmarshal(raw, &note); err != nil {
			return err
		}
		if note.Trashed {
			return nil
		}
		now := time.Now().UTC()
		note.Trashed = true
		note.TrashedAt = &now
		note.UpdatedAt = now
		encoded, err := json.Marshal(&note)
		if err != nil {
			return err
		}
		return b.Put(key, encoded)
	})
}
