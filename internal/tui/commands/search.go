// Package commands provides Bubble Tea commands for TUI operations.
package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/veridoc-dev/veridoc/internal/search"
	"github.com/veridoc-dev/veridoc/internal/tui"
)

// SubmitQueryCmd pushes a question into the search session. The session
// supersedes any in-flight generation itself; the TUI only submits.
func SubmitQueryCmd(s *search.Session, query string) tea.Cmd {
	return func() tea.Msg {
		if err := s.Submit(context.Background(), query); err != nil {
			return tui.ErrorMsg{Err: err}
		}
		return tui.SearchStartedMsg{Generation: s.Generation()}
	}
}

// ListenSearchCmd polls the session event channel for pipeline transitions.
// Returns SearchEventMsg per event, SearchChannelClosedMsg when the channel
// closes, or TickMsg on timeout to keep polling.
func ListenSearchCmd(events <-chan search.Event) tea.Cmd {
	return func() tea.Msg {
		select {
		case event, ok := <-events:
			if !ok {
				return tui.SearchChannelClosedMsg{}
			}
			return tui.SearchEventMsg{Event: event}
		case <-time.After(100 * time.Millisecond):
			return tui.TickMsg{}
		}
	}
}
