// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"github.com/veridoc-dev/veridoc/internal/registry"
	"github.com/veridoc-dev/veridoc/internal/search"
	"github.com/veridoc-dev/veridoc/internal/upload"
)

// ============================================================================
// Search Messages
// ============================================================================

// SearchStartedMsg signals that a query was accepted into the pipeline.
type SearchStartedMsg struct {
	Generation uint64
}

// SearchEventMsg carries one pipeline transition from the session.
type SearchEventMsg struct {
	Event search.Event
}

// SearchChannelClosedMsg signals that the session event channel closed.
type SearchChannelClosedMsg struct{}

// ============================================================================
// Upload Messages
// ============================================================================

// UploadProgressMsg carries a snapshot of one upload item after a change.
type UploadProgressMsg struct {
	Item upload.Item
}

// UploadAcceptedMsg reports the outcome of enqueueing candidate files.
type UploadAcceptedMsg struct {
	Accepted []upload.Item
	Rejected []upload.Rejected
}

// UploadFinishedMsg signals that a batch transfer completed.
type UploadFinishedMsg struct {
	Err error
}

// ============================================================================
// Catalog and History Messages
// ============================================================================

// DocumentsLoadedMsg carries a fresh or cached document catalog.
type DocumentsLoadedMsg struct {
	Documents []registry.Document
}

// DocumentsErrorMsg signals a catalog refresh failure.
type DocumentsErrorMsg struct {
	Err error
}

// HistoryLoadedMsg carries the recent conversation list.
type HistoryLoadedMsg struct {
	Conversations []registry.Summary
}

// HistoryQueriesMsg carries the recorded queries of one conversation.
type HistoryQueriesMsg struct {
	ConversationID string
	Records        []registry.QueryRecord
}

// HistoryErrorMsg signals a history store failure.
type HistoryErrorMsg struct {
	Err error
}

// ConversationSavedMsg signals that a settled query was recorded.
type ConversationSavedMsg struct {
	ConversationID string
}

// ============================================================================
// Utility Messages
// ============================================================================

// TickMsg is sent periodically to keep the search listener polling.
type TickMsg struct{}

// UploadTickMsg is sent periodically to keep the upload listener polling.
// Distinct from TickMsg so each listener re-arms exactly itself.
type UploadTickMsg struct{}

// ErrorMsg is a generic error message for unrecoverable errors.
type ErrorMsg struct {
	Err error
}
