package daemon

import (
	"encoding/json"
	"net/http"
	"strings"
)

func (a *API) Notebooks(w http.ResponseWriter, r *http.Request) {
	service := NewNotebookService(a.Stores)
	switch r.Method {
	case http.MethodGet:
		notebooks, err := service.List(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"notebooks": notebooks})
	case http.MethodPost:
		var req CreateNotebookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
			return
		}
		notebook, err := service.Create(r.Context(), req.Name)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, notebook)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (a *API) NotebookByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/notebooks/")
	path = strings.Trim(path, "/")
	if path == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	if id, ok := strings.CutSuffix(path, "/notes"); ok {
		a.notebookNotes(w, r, strings.TrimSpace(id))
		return
	}
	if strings.Contains(path, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	id := strings.TrimSpace(path)

	service := NewNotebookService(a.Stores)
	switch r.Method {
	case http.MethodPatch:
		var req UpdateNotebookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
			return
		}
		notebook, err := service.Rename(r.Context(), id, req.Name)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, notebook)
	case http.MethodDelete:
		if err := service.Delete(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (a *API) notebookNotes(w http.ResponseWriter, r *http.Request, notebookID string) {
	service := NewNoteService(a.Stores)
	switch r.Method {
	case http.MethodGet:
		entries, err := service.ListForNotebook(r.Context(), notebookID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"notes": entries})
	case http.MethodPost:
		note, err := service.Create(r.Context(), notebookID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, note)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}
