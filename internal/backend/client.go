// Package backend provides the HTTP client for the answer service.
// This file implements the /query, /documents and /upload endpoints.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// QuerySource is one raw evidence entry in a /query response.
// All fields are optional on the wire; defaulting happens in the search layer.
type QuerySource struct {
	Document *string `json:"document"`
	Page     *int    `json:"page"`
	Snippet  *string `json:"snippet"`
}

// QueryResponse is the full /query response payload.
type QueryResponse struct {
	Answer  string        `json:"answer"`
	Sources []QuerySource `json:"sources"`
}

// DocumentInfo is one entry in a /documents response.
type DocumentInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// UploadFile describes one file in an upload batch. Open is called at
// transfer time so the file is not held open while the batch is queued.
type UploadFile struct {
	ID   string
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// ProgressFunc receives byte-level transfer progress for one upload file.
type ProgressFunc func(id string, sent, total int64)

// StatusError reports a non-2xx response from the backend.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: %s returned %s", e.Endpoint, e.Status)
}

// Client communicates with the answer service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the given base URL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Query sends the question to POST /query and returns the decoded response.
// Exactly one request is issued; failures are never retried here.
func (c *Client) Query(ctx context.Context, question string) (*QueryResponse, error) {
	body, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return nil, fmt.Errorf("backend: marshalling query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("backend: building query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: querying: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Endpoint: "/query", StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var out QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("backend: decoding query response: %w", err)
	}

	return &out, nil
}

// ListDocuments fetches the document catalog from GET /documents.
func (c *Client) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/documents", nil)
	if err != nil {
		return nil, fmt.Errorf("backend: building documents request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: listing documents: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Endpoint: "/documents", StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var docs []DocumentInfo
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("backend: decoding documents response: %w", err)
	}

	return docs, nil
}

// Upload sends the whole batch as one multipart POST /upload with a repeated
// "files" field. The body is streamed; progress reports real bytes written to
// the request body per file, not a simulated animation.
func (c *Client) Upload(ctx context.Context, files []UploadFile, progress ProgressFunc) error {
	if len(files) == 0 {
		return fmt.Errorf("backend: upload batch is empty")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		if err := writeBatch(mw, files, progress); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", pr)
	if err != nil {
		return fmt.Errorf("backend: building upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: uploading: %w", err)
	}
	defer resp.Body.Close()

	// Ingestion acknowledgment body is opaque; only the status matters.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Endpoint: "/upload", StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return nil
}

// writeBatch writes every file as a "files" form part, reporting byte progress.
func writeBatch(mw *multipart.Writer, files []UploadFile, progress ProgressFunc) error {
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return fmt.Errorf("backend: creating form part for %s: %w", f.Name, err)
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("backend: opening %s: %w", f.Name, err)
		}

		reader := &progressReader{r: rc, id: f.ID, total: f.Size, fn: progress}
		_, copyErr := io.Copy(part, reader)
		closeErr := rc.Close()
		if copyErr != nil {
			return fmt.Errorf("backend: streaming %s: %w", f.Name, copyErr)
		}
		if closeErr != nil {
			return fmt.Errorf("backend: closing %s: %w", f.Name, closeErr)
		}
	}
	return nil
}

// progressReader counts bytes read from the underlying file and forwards
// cumulative progress to the callback.
type progressReader struct {
	r     io.Reader
	id    string
	total int64
	sent  int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.fn != nil {
			p.fn(p.id, p.sent, p.total)
		}
	}
	return n, err
}
