package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"quill/internal/store"
	"quill/internal/types"
)

func newTestStores(t *testing.T) *Stores {
	t.Helper()
	dir := t.TempDir()
	return &Stores{
		Notebooks: store.NewFileNotebookStore(filepath.Join(dir, "notebooks.json")),
		Notes:     store.NewFileNoteStore(filepath.Join(dir, "notes.json")),
	}
}

func newTestServer(stores *Stores) *httptest.Server {
	api := &API{Version: "test", Stores: stores}
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	return httptest.NewServer(TokenAuthMiddleware("token", mux))
}

func doRequest(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func seedNotebook(t *testing.T, stores *Stores, name string) string {
	t.Helper()
	nb, err := stores.Notebooks.Add(context.Background(), &types.Notebook{Name: name})
	if err != nil {
		t.Fatalf("seed notebook: %v", err)
	}
	return nb.ID
}

func TestNotebookEndpointsCRUD(t *testing.T) {
	stores := newTestStores(t)
	server := newTestServer(stores)
	defer server.Close()

	createResp := doRequest(t, http.MethodPost, server.URL+"/v1/notebooks", CreateNotebookRequest{Name: "Work"})
	if createResp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", createResp.StatusCode)
	}
	var created types.Notebook
	decodeBody(t, createResp, &created)
	if created.ID == "" || created.Name != "Work" {
		t.Fatalf("unexpected notebook %+v", created)
	}

	listResp := doRequest(t, http.MethodGet, server.URL+"/v1/notebooks", nil)
	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", listResp.StatusCode)
	}
	var listPayload struct {
		Notebooks []*types.Notebook `json:"notebooks"`
	}
	decodeBody(t, listResp, &listPayload)
	if len(listPayload.Notebooks) != 1 {
		t.Fatalf("expected 1 notebook, got %d", len(listPayload.Notebooks))
	}

	renameResp := doRequest(t, http.MethodPatch, server.URL+"/v1/notebooks/"+created.ID, UpdateNotebookRequest{Name: "Archive"})
	if renameResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", renameResp.StatusCode)
	}
	var renamed types.Notebook
	decodeBody(t, renameResp, &renamed)
	if renamed.Name != "Archive" {
		t.Fatalf("expected renamed notebook, got %q", renamed.Name)
	}

	deleteResp := doRequest(t, http.MethodDelete, server.URL+"/v1/notebooks/"+created.ID, nil)
	defer deleteResp.Body.Close()
	if deleteResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", deleteResp.StatusCode)
	}
}

func TestNotebookCreateRejectsBlankName(t *testing.T) {
	stores := newTestStores(t)
	server := newTestServer(stores)
	defer server.Close()

	resp := doRequest(t, http.MethodPost, server.URL+"/v1/notebooks", CreateNotebookRequest{Name: "   "})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNotebookDeleteConflictsWhenNotesRemain(t *testing.T) {
	stores := newTestStores(t)
	server := newTestServer(stores)
	defer server.Close()

	notebookID := seedNotebook(t, stores, "Busy")
	if _, err := stores.Notes.Create(context.Background(), notebookID); err != nil {
		t.Fatalf("seed note: %v", err)
	}

	resp := doRequest(t, http.MethodDelete, server.URL+"/v1/notebooks/"+notebookID, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	// Trashing the note clears the conflict.
	entries, err := stores.Notes.ListEntries(context.Background(), notebookID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	for _, entry := range entries {
		if err := stores.Notes.Trash(context.Background(), entry.ID); err != nil {
			t.Fatalf("trash note: %v", err)
		}
	}
	resp = doRequest(t, http.MethodDelete, server.URL+"/v1/notebooks/"+notebookID, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after trashing notes, got %d", resp.StatusCode)
	}
}

func TestNoteEndpointsLifecycle(t *testing.T) {
	stores := newTestStores(t)
	server := newTestServer(stores)
	defer server.Close()

	notebookID := seedNotebook(t, stores, "Journal")

	createResp := doRequest(t, http.MethodPost, server.URL+"/v1/notebooks/"+notebookID+"/notes", nil)
	if createResp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", createResp.StatusCode)
	}
	var created types.Note
	decodeBody(t, createResp, &created)
	if created.Title != types.DefaultNoteTitle {
		t.Fatalf("expected default title, got %q", created.Title)
	}

	title := "Morning pages"
	patchResp := doRequest(t, http.MethodPatch, server.URL+"/v1/notes/"+created.ID, UpdateNoteRequest{
		Title:   &title,
		Content: json.RawMessage(`{"text":"hello"}`),
	})
	if patchResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", patchResp.StatusCode)
	}
	var updated types.Note
	decodeBody(t, patchResp, &updated)
	if updated.Title != "Morning pages" {
		t.Fatalf("expected updated title, got %q", updated.Title)
	}
	if string(updated.Content) != `{"text":"hello"}` {
		t.Fatalf("unexpected content: %s", updated.Content)
	}

	getResp := doRequest(t, http.MethodGet, server.URL+"/v1/notes/"+created.ID, nil)
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", getResp.StatusCode)
	}
	var fetched types.Note
	decodeBody(t, getResp, &fetched)
	if fetched.Title != "Morning pages" {
		t.Fatalf("unexpected fetched title %q", fetched.Title)
	}

	deleteResp := doRequest(t, http.MethodDelete, server.URL+"/v1/notes/"+created.ID, nil)
	defer deleteResp.Body.Close()
	if deleteResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", deleteResp.StatusCode)
	}

	// Trashed notes read as missing and leave the listing.
	goneResp := doRequest(t, http.MethodGet, server.URL+"/v1/notes/"+created.ID, nil)
	defer goneResp.Body.Close()
	if goneResp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after trash, got %d", goneResp.StatusCode)
	}
	listResp := doRequest(t, http.MethodGet, server.URL+"/v1/notebooks/"+notebookID+"/notes", nil)
	var listPayload struct {
		Notes []*types.NoteListEntry `json:"notes"`
	}
	decodeBody(t, listResp, &listPayload)
	if len(listPayload.Notes) != 0 {
		t.Fatalf("expected empty listing, got %d", len(listPayload.Notes))
	}
}

func TestNotePatchRejectsEmptyPayload(t *testing.T) {
	stores := newTestStores(t)
	server := newTestServer(stores)
	defer server.Close()

	notebookID := seedNotebook(t, stores, "Journal")
	note, err := stores.Notes.Create(context.Background(), notebookID)
	if err != nil {
		t.Fatalf("seed note: %v", err)
	}

	resp := doRequest(t, http.MethodPatch, server.URL+"/v1/notes/"+note.ID, map[string]any{"unknown": true})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty patch, got %d", resp.StatusCode)
	}
}

func TestNotePatchMovesBetweenNotebooks(t *testing.T) {
	stores := newTestStores(t)
	server := newTestServer(stores)
	defer server.Close()

	sourceID := seedNotebook(t, stores, "Source")
	targetID := seedNotebook(t, stores, "Target")
	note, err := stores.Notes.Create(context.Background(), sourceID)
	if err != nil {
		t.Fatalf("seed note: %v", err)
	}

	resp := doRequest(t, http.MethodPatch, server.URL+"/v1/notes/"+note.ID, UpdateNoteRequest{NotebookID: &targetID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var moved types.Note
	decodeBody(t, resp, &moved)
	if moved.NotebookID != targetID {
		t.Fatalf("expected note moved to %q, got %q", targetID, moved.NotebookID)
	}

	missing := "nb_missing"
	resp = doRequest(t, http.MethodPatch, server.URL+"/v1/notes/"+note.ID, UpdateNoteRequest{NotebookID: &missing})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown target notebook, got %d", resp.StatusCode)
	}
}

func TestNoteListForUnknownNotebook(t *testing.T) {
	stores := newTestStores(t)
	server := newTestServer(stores)
	defer server.Close()

	resp := doRequest(t, http.MethodGet, server.URL+"/v1/notebooks/nb_missing/notes", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAuthRequiredForAPIRoutes(t *testing.T) {
	stores := newTestStores(t)
	server := newTestServer(stores)
	defer server.Close()

	resp, err := http.Get(server.URL + "/v1/notebooks")
	if err != nil {
		t.Fatalf("list notebooks: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	healthResp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer healthResp.Body.Close()
	if healthResp.StatusCode != http.StatusOK {
		t.Fatalf("expected health to skip auth, got %d", healthResp.StatusCode)
	}
}
