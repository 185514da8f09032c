package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/veridoc-dev/veridoc/internal/tui"
	"github.com/veridoc-dev/veridoc/internal/upload"
)

// AcceptFilesCmd enqueues candidate paths and reports what was accepted
// and what was rejected with reasons.
func AcceptFilesCmd(q *upload.Queue, paths []string) tea.Cmd {
	return func() tea.Msg {
		accepted, rejected := q.Accept(paths)
		return tui.UploadAcceptedMsg{Accepted: accepted, Rejected: rejected}
	}
}

// TransferCmd starts the batch transfer in the background. Per-item progress
// arrives through the queue's notify channel; this command only reports the
// final outcome.
func TransferCmd(q *upload.Queue) tea.Cmd {
	return func() tea.Msg {
		return tui.UploadFinishedMsg{Err: q.Transfer(context.Background())}
	}
}

// RetryCmd re-enqueues failed items and transfers them again.
func RetryCmd(q *upload.Queue) tea.Cmd {
	return func() tea.Msg {
		return tui.UploadFinishedMsg{Err: q.Retry(context.Background())}
	}
}

// ListenUploadCmd polls the notify channel bridged from the queue.
func ListenUploadCmd(items <-chan upload.Item) tea.Cmd {
	return func() tea.Msg {
		select {
		case item, ok := <-items:
			if !ok {
				return tui.UploadTickMsg{}
			}
			return tui.UploadProgressMsg{Item: item}
		case <-time.After(100 * time.Millisecond):
			return tui.UploadTickMsg{}
		}
	}
}
