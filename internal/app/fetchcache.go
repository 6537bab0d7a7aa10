package app

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"quill/internal/types"
)

type noteListResult struct {
	epoch   int
	entries []*types.NoteListEntry
	err     error
}

// FetchCache deduplicates entity fetches. Point lookups (note detail) share
// one in-flight loader per id and forget the outcome once it settles; list
// lookups retain the settled outcome per (notebook, epoch) so re-renders of
// the same epoch never refetch. A newer epoch replaces the retained entry
// for its notebook.
type FetchCache struct {
	group singleflight.Group

	mu    sync.Mutex
	lists map[string]*noteListResult
}

func NewFetchCache() *FetchCache {
	return &FetchCache{lists: make(map[string]*noteListResult)}
}

// NoteDetail loads a note through the cache. Concurrent callers for the same
// id share a single loader invocation; the result is not retained.
func (c *FetchCache) NoteDetail(noteID string, loader func() (*types.Note, error)) (*types.Note, error) {
	key := "note:" + noteID
	value, err, _ := c.group.Do(key, func() (any, error) {
		return loader()
	})
	if err != nil {
		return nil, err
	}
	note, _ := value.(*types.Note)
	return note, nil
}

// NoteList loads the entry list for a notebook at a given refresh epoch.
// The settled outcome, error included, is retained for that epoch.
func (c *FetchCache) NoteList(notebookID string, epoch int, loader func() ([]*types.NoteListEntry, error)) ([]*types.NoteListEntry, error) {
	c.mu.Lock()
	if cached, ok := c.lists[notebookID]; ok && cached.epoch == epoch {
		c.mu.Unlock()
		return cached.entries, cached.err
	}
	c.mu.Unlock()

	key := fmt.Sprintf("notes:%s@%d", notebookID, epoch)
	value, err, _ := c.group.Do(key, func() (any, error) {
		entries, loadErr := loader()
		c.settleList(notebookID, epoch, entries, loadErr)
		return entries, loadErr
	})
	if err != nil {
		return nil, err
	}
	entries, _ := value.([]*types.NoteListEntry)
	return entries, nil
}

func (c *FetchCache) settleList(notebookID string, epoch int, entries []*types.NoteListEntry, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.lists[notebookID]; ok && cached.epoch > epoch {
		// A newer epoch already settled; a late stale load must not clobber it.
		return
	}
	c.lists[notebookID] = &noteListResult{epoch: epoch, entries: entries, err: err}
}

// Reset drops all retained outcomes.
func (c *FetchCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists = make(map[string]*noteListResult)
	c.group = singleflight.Group{}
}
