package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"quill/internal/config"
	"quill/internal/types"
)

const defaultBaseURL = "http://127.0.0.1:7474"

type Client struct {
	baseURL   string
	tokenPath string
	token     string
	http      *http.Client
}

func New() (*Client, error) {
	tokenPath, err := config.TokenPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadCoreConfig()
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   cfg.DaemonBaseURL(),
		tokenPath: tokenPath,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	_ = c.loadToken()
	return c, nil
}

func NewWithBaseURL(baseURL, token string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		tokenPath: "",
		token:     token,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListNotebooks(ctx context.Context) ([]*types.Notebook, error) {
	var resp NotebooksResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/notebooks", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Notebooks, nil
}

func (c *Client) CreateNotebook(ctx context.Context, name string) (*types.Notebook, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("notebook name is required")
	}
	var notebook types.Notebook
	req := CreateNotebookRequest{Name: name}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/notebooks", req, true, &notebook); err != nil {
		return nil, err
	}
	return &notebook, nil
}

func (c *Client) RenameNotebook(ctx context.Context, id, name string) (*types.Notebook, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("notebook id is required")
	}
	var notebook types.Notebook
	req := UpdateNotebookRequest{Name: name}
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/notebooks/"+strings.TrimSpace(id), req, true, &notebook); err != nil {
		return nil, err
	}
	return &notebook, nil
}

func (c *Client) DeleteNotebook(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("notebook id is required")
	}
	return c.doJSON(ctx, http.MethodDelete, "/v1/notebooks/"+strings.TrimSpace(id), nil, true, nil)
}

func (c *Client) ListNotes(ctx context.Context, notebookID string) ([]*types.NoteListEntry, error) {
	if strings.TrimSpace(notebookID) == "" {
		return nil, errors.New("notebook id is required")
	}
	var resp NotesResponse
	path := fmt.Sprintf("/v1/notebooks/%s/notes", strings.TrimSpace(notebookID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Notes, nil
}

func (c *Client) CreateNote(ctx context.Context, notebookID string) (*types.Note, error) {
	if strings.TrimSpace(notebookID) == "" {
		return nil, errors.New("notebook id is required")
	}
	var note types.Note
	path := fmt.Sprintf("/v1/notebooks/%s/notes", strings.TrimSpace(notebookID))
	if err := c.doJSON(ctx, http.MethodPost, path, nil, true, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) GetNote(ctx context.Context, id string) (*types.Note, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("note id is required")
	}
	var note types.Note
	if err := c.doJSON(ctx, http.MethodGet, "/v1/notes/"+strings.TrimSpace(id), nil, true, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) UpdateNote(ctx context.Context, id string, patch UpdateNoteRequest) (*types.Note, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("note id is required")
	}
	var note types.Note
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/notes/"+strings.TrimSpace(id), patch, true, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) TrashNote(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("note id is required")
	}
	return c.doJSON(ctx, http.MethodDelete, "/v1/notes/"+strings.TrimSpace(id), nil, true, nil)
}

func (c *Client) ShutdownDaemon(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/shutdown", nil, true, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, requireAuth bool, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requireAuth {
		if err := c.ensureToken(); err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) ensureToken() error {
	if strings.TrimSpace(c.token) == "" {
		if err := c.loadToken(); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.token) == "" {
		return errors.New("token not found; is the daemon running?")
	}
	return nil
}

func (c *Client) loadToken() error {
	if c.tokenPath == "" {
		return nil
	}
	data, err := os.ReadFile(c.tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			c.token = ""
			return nil
		}
		return err
	}
	c.token = strings.TrimSpace(string(data))
	return nil
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error string `json:"error"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// IsNotFound reports whether err is a 404 from the daemon.
func IsNotFound(err error) bool {
	apiErr := AsAPIError(err)
	return apiErr != nil && apiErr.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err is a 409 from the daemon.
func IsConflict(err error) bool {
	apiErr := AsAPIError(err)
	return apiErr != nil && apiErr.StatusCode == http.StatusConflict
}
