package daemon

import "net/http"

func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", a.Health)
	mux.HandleFunc("/v1/notebooks", a.Notebooks)
	mux.HandleFunc("/v1/notebooks/", a.NotebookByID)
	mux.HandleFunc("/v1/notes/", a.NoteByID)
	mux.HandleFunc("/v1/shutdown", a.ShutdownDaemon)
}
