package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestQueryDecodesOptionalFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/query" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if body["question"] != "what is the refund policy?" {
			t.Errorf("question: got %q", body["question"])
		}
		io.WriteString(w, `{"answer":"Refunds are allowed within 30 days[1].",`+
			`"sources":[{"document":"policy.pdf","page":2,"snippet":"30-day refund window"},{}]}`)
	})

	resp, err := client.Query(context.Background(), "what is the refund policy?")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(resp.Sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(resp.Sources))
	}
	if resp.Sources[0].Document == nil || *resp.Sources[0].Document != "policy.pdf" {
		t.Errorf("first source document mismatch: %+v", resp.Sources[0])
	}
	if resp.Sources[1].Document != nil || resp.Sources[1].Page != nil || resp.Sources[1].Snippet != nil {
		t.Errorf("empty source should decode to nil fields: %+v", resp.Sources[1])
	}
}

func TestQueryNon2xxReturnsStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Query(context.Background(), "anything")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("want StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status code: got %d", statusErr.StatusCode)
	}
}

func TestListDocuments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		io.WriteString(w, `[{"id":"0","name":"policy.pdf","type":"PDF"},{"id":"1","name":"notes.txt","type":"TXT"}]`)
	})

	docs, err := client.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(docs) != 2 || docs[0].Name != "policy.pdf" {
		t.Errorf("unexpected docs: %+v", docs)
	}
}

func TestUploadStreamsMultipartBatch(t *testing.T) {
	var gotNames []string
	var gotContents []string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parsing multipart: %v", err)
		}
		for _, fh := range r.MultipartForm.File["files"] {
			gotNames = append(gotNames, fh.Filename)
			f, err := fh.Open()
			if err != nil {
				t.Fatalf("opening part: %v", err)
			}
			data, _ := io.ReadAll(f)
			f.Close()
			gotContents = append(gotContents, string(data))
		}
		io.WriteString(w, `{"message":"ok"}`)
	})

	files := []UploadFile{
		{ID: "a", Name: "one.txt", Size: 5, Open: stringOpener("hello")},
		{ID: "b", Name: "two.txt", Size: 5, Open: stringOpener("world")},
	}

	progress := make(map[string]int64)
	err := client.Upload(context.Background(), files, func(id string, sent, total int64) {
		progress[id] = sent
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if len(gotNames) != 2 || gotNames[0] != "one.txt" || gotNames[1] != "two.txt" {
		t.Errorf("file names: got %v", gotNames)
	}
	if gotContents[0] != "hello" || gotContents[1] != "world" {
		t.Errorf("file contents: got %v", gotContents)
	}
	if progress["a"] != 5 || progress["b"] != 5 {
		t.Errorf("progress should reach full size per file: %v", progress)
	}
}

func TestUploadNon2xxReturnsStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		http.Error(w, "nope", http.StatusBadGateway)
	})

	files := []UploadFile{{ID: "a", Name: "one.txt", Size: 5, Open: stringOpener("hello")}}
	err := client.Upload(context.Background(), files, nil)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("want StatusError, got %v", err)
	}
	if statusErr.Endpoint != "/upload" {
		t.Errorf("endpoint: got %q", statusErr.Endpoint)
	}
}

func TestUploadEmptyBatchRejected(t *testing.T) {
	client := NewClient("http://localhost:0", time.Second)
	if err := client.Upload(context.Background(), nil, nil); err == nil {
		t.Fatal("empty batch should error without a network call")
	}
}

func stringOpener(s string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(s)), nil
	}
}
