package daemon

import (
	"context"
	"errors"
	"net/http"
	"time"

	"quill/internal/logging"
	"quill/internal/types"
)

type Daemon struct {
	addr    string
	token   string
	version string
	logger  logging.Logger
	server  *http.Server
	stores  *Stores
}

type Stores struct {
	Notebooks NotebookStore
	Notes     NoteStore
}

type NotebookStore interface {
	List(ctx context.Context) ([]*types.Notebook, error)
	Get(ctx context.Context, id string) (*types.Notebook, bool, error)
	Add(ctx context.Context, notebook *types.Notebook) (*types.Notebook, error)
	Rename(ctx context.Context, id, name string) (*types.Notebook, error)
	Delete(ctx context.Context, id string) error
}

type NoteStore interface {
	ListEntries(ctx context.Context, notebookID string) ([]*types.NoteListEntry, error)
	CountActive(ctx context.Context, notebookID string) (int, error)
	Get(ctx context.Context, id string) (*types.Note, bool, error)
	Create(ctx context.Context, notebookID string) (*types.Note, error)
	Put(ctx context.Context, note *types.Note) (*types.Note, error)
	Trash(ctx context.Context, id string) error
}

func New(addr, token, version string, logger logging.Logger, stores *Stores) *Daemon {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Daemon{
		addr:    addr,
		token:   token,
		version: version,
		logger:  logger,
		stores:  stores,
	}
}

func (d *Daemon) Run(ctx context.Context) error {
	api := &API{
		Version: d.version,
		Stores:  d.stores,
		Logger:  d.logger,
	}

	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	handler := TokenAuthMiddleware(d.token, LoggingMiddleware(d.logger, mux))
	d.server = &http.Server{
		Addr:    d.addr,
		Handler: handler,
	}
	api.Shutdown = d.server.Shutdown

	errCh := make(chan error, 1)
	go func() {
		d.logger.Info("daemon_listening", logging.F("addr", d.addr))
		errCh <- d.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
