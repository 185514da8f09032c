// Package upload manages batched document ingestion: type filtering,
// per-file progress and a single transfer per batch.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/veridoc-dev/veridoc/internal/backend"
	"github.com/veridoc-dev/veridoc/internal/log"
)

// Status is the lifecycle state of one upload item.
type Status int

const (
	StatusIdle Status = iota
	StatusUploading
	StatusSuccess
	StatusError
)

// String returns the machine name of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusUploading:
		return "uploading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// acceptedTypes maps supported file extensions to their MIME types.
var acceptedTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

// Item is one file in an upload batch. Items are addressed by a stable ID
// assigned at acceptance time, never by position, so overlapping batches
// cannot misattribute progress. Progress only increases while uploading;
// StatusError is terminal for the item.
type Item struct {
	ID       string
	Name     string
	Path     string
	MIME     string
	Size     int64
	Progress int
	Status   Status
	Err      string
}

// Rejected describes a candidate file that was not enqueued, with the reason.
type Rejected struct {
	Name   string
	Reason string
}

// ErrNothingToUpload is returned by Transfer when no item is pending.
var ErrNothingToUpload = errors.New("upload: no files pending")

// Uploader is the backend dependency of a Queue.
type Uploader interface {
	Upload(ctx context.Context, files []backend.UploadFile, progress backend.ProgressFunc) error
}

// Queue holds the upload batch state. One Transfer call performs exactly one
// network request covering every pending item; displayed progress is driven
// by real bytes written to that request.
type Queue struct {
	uploader Uploader
	logger   *log.Logger
	maxBytes int64

	mu     sync.Mutex
	items  []*Item
	index  map[string]int
	notify func(Item)
}

// NewQueue creates a Queue. maxFileBytes caps individual file size; zero
// means unlimited. logger may be nil.
func NewQueue(u Uploader, logger *log.Logger, maxFileBytes int64) *Queue {
	return &Queue{
		uploader: u,
		logger:   logger,
		maxBytes: maxFileBytes,
		index:    make(map[string]int),
	}
}

// SetNotify registers a callback invoked with an item snapshot after every
// visible change. Used by UIs; may be left unset.
func (q *Queue) SetNotify(fn func(Item)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.notify = fn
}

// Accept filters candidate paths to supported document types and enqueues
// the survivors as Idle items. Unsupported, unreadable or oversized files are
// returned in the rejected list with reasons; they never become error items.
func (q *Queue) Accept(paths []string) ([]Item, []Rejected) {
	var accepted []Item
	var rejected []Rejected

	for _, path := range paths {
		name := filepath.Base(path)

		mime, ok := acceptedTypes[strings.ToLower(filepath.Ext(path))]
		if !ok {
			rejected = append(rejected, Rejected{Name: name, Reason: "unsupported file type (want PDF, DOCX or TXT)"})
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			rejected = append(rejected, Rejected{Name: name, Reason: fmt.Sprintf("cannot read file: %v", err)})
			continue
		}
		if q.maxBytes > 0 && info.Size() > q.maxBytes {
			rejected = append(rejected, Rejected{Name: name, Reason: fmt.Sprintf("file exceeds %d bytes", q.maxBytes)})
			continue
		}

		item := &Item{
			ID:     uuid.NewString(),
			Name:   name,
			Path:   path,
			MIME:   mime,
			Size:   info.Size(),
			Status: StatusIdle,
		}

		q.mu.Lock()
		q.index[item.ID] = len(q.items)
		q.items = append(q.items, item)
		snapshot := *item
		q.mu.Unlock()

		accepted = append(accepted, snapshot)
	}

	if len(accepted) > 0 {
		q.logEvent(log.LogEvent{Event: log.EventUploadAccepted, Files: len(accepted)})
	}

	return accepted, rejected
}

// Items returns snapshots of every item in acceptance order.
func (q *Queue) Items() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Item, len(q.items))
	for i, item := range q.items {
		out[i] = *item
	}
	return out
}

// Transfer uploads every Idle item as one batch with exactly one network
// call. Per-item progress tracks the bytes of that item written to the
// request body. On failure every item of the batch is marked Error.
func (q *Queue) Transfer(ctx context.Context) error {
	q.mu.Lock()
	var batch []*Item
	for _, item := range q.items {
		if item.Status == StatusIdle {
			item.Status = StatusUploading
			item.Progress = 0
			batch = append(batch, item)
		}
	}
	files := make([]backend.UploadFile, len(batch))
	for i, item := range batch {
		path := item.Path
		files[i] = backend.UploadFile{
			ID:   item.ID,
			Name: item.Name,
			Size: item.Size,
			Open: func() (io.ReadCloser, error) { return os.Open(path) },
		}
	}
	q.mu.Unlock()

	if len(batch) == 0 {
		return ErrNothingToUpload
	}
	for _, item := range batch {
		q.emit(item.ID)
	}

	err := q.uploader.Upload(ctx, files, q.onBytes)
	if err != nil {
		for _, item := range batch {
			q.setFailed(item.ID, err)
		}
		q.logEvent(log.LogEvent{Event: log.EventUploadFailed, Files: len(batch), Error: err.Error()})
		return fmt.Errorf("upload: transferring batch: %w", err)
	}

	for _, item := range batch {
		q.setDone(item.ID)
	}
	q.logEvent(log.LogEvent{Event: log.EventUploadComplete, Files: len(batch)})
	return nil
}

// Retry re-enqueues every failed item as a fresh Idle item and transfers
// again. The failed items themselves stay Error (terminal) and are dropped
// from the queue in favor of their replacements.
func (q *Queue) Retry(ctx context.Context) error {
	q.mu.Lock()
	var kept []*Item
	var paths []string
	for _, item := range q.items {
		if item.Status == StatusError {
			paths = append(paths, item.Path)
			continue
		}
		kept = append(kept, item)
	}
	q.items = kept
	q.reindexLocked()
	q.mu.Unlock()

	if len(paths) == 0 {
		return ErrNothingToUpload
	}

	if _, rejected := q.Accept(paths); len(rejected) > 0 {
		return fmt.Errorf("upload: %d file(s) no longer readable", len(rejected))
	}
	return q.Transfer(ctx)
}

// Remove deletes a terminal item from the queue. Items still uploading
// cannot be removed.
func (q *Queue) Remove(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	i, ok := q.index[id]
	if !ok {
		return fmt.Errorf("upload: no item %s", id)
	}
	if q.items[i].Status == StatusUploading {
		return fmt.Errorf("upload: item %s is still uploading", id)
	}

	q.items = append(q.items[:i], q.items[i+1:]...)
	q.reindexLocked()
	return nil
}

// onBytes converts byte-level transfer progress into a percentage, keeping
// the displayed value monotonic even if callbacks arrive out of order.
func (q *Queue) onBytes(id string, sent, total int64) {
	if total <= 0 {
		return
	}
	percent := int(sent * 100 / total)
	if percent > 100 {
		percent = 100
	}

	q.mu.Lock()
	i, ok := q.index[id]
	if !ok || q.items[i].Status != StatusUploading || percent <= q.items[i].Progress {
		q.mu.Unlock()
		return
	}
	q.items[i].Progress = percent
	q.mu.Unlock()

	q.emit(id)
}

func (q *Queue) setDone(id string) {
	q.mu.Lock()
	if i, ok := q.index[id]; ok {
		q.items[i].Progress = 100
		q.items[i].Status = StatusSuccess
	}
	q.mu.Unlock()
	q.emit(id)
}

func (q *Queue) setFailed(id string, err error) {
	q.mu.Lock()
	if i, ok := q.index[id]; ok {
		q.items[i].Status = StatusError
		q.items[i].Err = err.Error()
	}
	q.mu.Unlock()
	q.emit(id)
}

// emit sends an item snapshot to the notify callback, outside q.mu.
func (q *Queue) emit(id string) {
	q.mu.Lock()
	fn := q.notify
	var snapshot Item
	i, ok := q.index[id]
	if ok {
		snapshot = *q.items[i]
	}
	q.mu.Unlock()

	if fn != nil && ok {
		fn(snapshot)
	}
}

// reindexLocked rebuilds the ID index. Caller holds q.mu.
func (q *Queue) reindexLocked() {
	q.index = make(map[string]int, len(q.items))
	for i, item := range q.items {
		q.index[item.ID] = i
	}
}

func (q *Queue) logEvent(e log.LogEvent) {
	if q.logger == nil {
		return
	}
	_ = q.logger.Append(e)
}
