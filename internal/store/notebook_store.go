package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"quill/internal/types"
)

var (
	ErrNotebookNotFound = errors.New("notebook not found")
	ErrNotebookName     = errors.New("notebook name is required")
)

const notebookSchemaVersion = 1

type NotebookStore interface {
	List(ctx context.Context) ([]*types.Notebook, error)
	Get(ctx context.Context, id string) (*types.Notebook, bool, error)
	Add(ctx context.Context, notebook *types.Notebook) (*types.Notebook, error)
	Rename(ctx context.Context, id, name string) (*types.Notebook, error)
	Delete(ctx context.Context, id string) error
}

type FileNotebookStore struct {
	path string
	mu   sync.Mutex
}

type notebookFile struct {
	Version   int               `json:"version"`
	Notebooks []*types.Notebook `json:"notebooks"`
}

func NewFileNotebookStore(path string) *FileNotebookStore {
	return &FileNotebookStore{path: path}
}

func (s *FileNotebookStore) List(ctx context.Context) ([]*types.Notebook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*types.Notebook{}, nil
		}
		return nil, err
	}
	out := make([]*types.Notebook, 0, len(file.Notebooks))
	for _, nb := range file.Notebooks {
		out = append(out, cloneNotebook(nb))
	}
	sortNotebooksByName(out)
	return out, nil
}

func (s *FileNotebookStore) Get(ctx context.Context, id string) (*types.Notebook, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	for _, nb := range file.Notebooks {
		if nb.ID == id {
			return cloneNotebook(nb), true, nil
		}
	}
	return nil, false, nil
}

func (s *FileNotebookStore) Add(ctx context.Context, notebook *types.Notebook) (*types.Notebook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if notebook == nil {
		return nil, errors.New("notebook is required")
	}
	name := strings.TrimSpace(notebook.Name)
	if name == "" {
		return nil, ErrNotebookName
	}

	file, err := s.load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if file == nil {
		file = newNotebookFile()
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
	for _, nb := range file.Notebooks {
		if nb.ID == created.ID {
			return nil, errors.New("notebook already exists")
		}
	}
	file.Notebooks = append(file.Notebooks, created)
	if err := s.save(file); err != nil {
		return nil, err
	}
	return cloneNotebook(created), nil
}

func (s *FileNotebookStore) Rename(ctx context.Context, id, name string) (*types.Notebook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNotebookName
	}
	file, err := s.load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotebookNotFound
		}
		return nil, err
	}
	for _, nb := range file.Notebooks {
		if nb.ID != id {
			continue
		}
		nb.Name = name
		nb.UpdatedAt = time.Now().UTC()
		if err := s.save(file); err != nil {
			return nil, err
		}
		return cloneNotebook(nb), nil
	}
	return nil, ErrNotebookNotFound
}

func (s *FileNotebookStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotebookNotFound
		}
		return err
	}
	filtered := file.Notebooks[:0]
	found := false
	for _, nb := range file.Notebooks {
		if nb.ID == id {
			found = true
			continue
		}
		filtered = append(filtered, nb)
	}
	if !found {
		return ErrNotebookNotFound
	}
	file.Notebooks = filtered
	return s.save(file)
}

func (s *FileNotebookStore) load() (*notebookFile, error) {
	file := newNotebookFile()
	if err := readJSON(s.path, file); err != nil {
		return nil, err
	}
	if file.Version == 0 {
		file.Version = notebookSchemaVersion
	}
	if file.Notebooks == nil {
		file.Notebooks = []*types.Notebook{}
	}
	return file, nil
}

func (s *FileNotebookStore) save(file *notebookFile) error {
	file.Version = notebookSchemaVersion
	return writeJSONAtomic(s.path, file)
}

func newNotebookFile() *notebookFile {
	return &notebookFile{Version: notebookSchemaVersion, Notebooks: []*types.Notebook{}}
}

func sortNotebooksByName(notebooks []*types.Notebook) {
	sort.Slice(notebooks, func(i, j int) bool {
		left := strings.ToLower(notebooks[i].Name)
		right := strings.ToLower(notebooks[j].Name)
		if left == right {
			return notebooks[i].CreatedAt.Before(notebooks[j].CreatedAt)
		}
		return left < right
	})
}

func cloneNotebook(nb *types.Notebook) *types.Notebook {
	if nb == nil {
		return nil
	}
	copy := *nb
	return &copy
}

func newNotebookID() string {
	return "nb_" + randomHex(8)
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return hex.EncodeToString([]byte(time.Now().UTC().Format("20060102150405")))
	}
	return hex.EncodeToString(buf)
}
