package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/veridoc-dev/veridoc/internal/registry"
	"github.com/veridoc-dev/veridoc/internal/search"
	"github.com/veridoc-dev/veridoc/internal/tui"
)

// conversationTitleLimit caps how much of the first question becomes the
// conversation title.
const conversationTitleLimit = 60

// LoadDocumentsCmd fetches the document catalog, served from cache when fresh.
func LoadDocumentsCmd(c *registry.Catalog) tea.Cmd {
	return func() tea.Msg {
		docs, err := c.Documents(context.Background())
		if err != nil {
			return tui.DocumentsErrorMsg{Err: err}
		}
		return tui.DocumentsLoadedMsg{Documents: docs}
	}
}

// RefreshDocumentsCmd drops the cached catalog and refetches.
func RefreshDocumentsCmd(c *registry.Catalog) tea.Cmd {
	return func() tea.Msg {
		c.Invalidate()
		docs, err := c.Documents(context.Background())
		if err != nil {
			return tui.DocumentsErrorMsg{Err: err}
		}
		return tui.DocumentsLoadedMsg{Documents: docs}
	}
}

// LoadHistoryCmd lists the most recently active conversations.
func LoadHistoryCmd(st *registry.Store, limit int) tea.Cmd {
	return func() tea.Msg {
		summaries, err := st.ListConversations(limit)
		if err != nil {
			return tui.HistoryErrorMsg{Err: err}
		}
		return tui.HistoryLoadedMsg{Conversations: summaries}
	}
}

// LoadQueriesCmd fetches the recorded queries of one conversation.
func LoadQueriesCmd(st *registry.Store, conversationID string) tea.Cmd {
	return func() tea.Msg {
		records, err := st.GetQueries(conversationID)
		if err != nil {
			return tui.HistoryErrorMsg{Err: err}
		}
		return tui.HistoryQueriesMsg{ConversationID: conversationID, Records: records}
	}
}

// RecordQueryCmd persists a settled result into the conversation. When
// conversationID is empty a new conversation is created, titled after the
// question.
func RecordQueryCmd(st *registry.Store, conversationID string, result *search.Result) tea.Cmd {
	return func() tea.Msg {
		id := conversationID
		if id == "" {
			conv, err := st.CreateConversation(titleFromQuery(result.Query))
			if err != nil {
				return tui.HistoryErrorMsg{Err: err}
			}
			id = conv.ID
		}
		if err := st.AddQuery(id, result.Query, result.Answer, len(result.Sources)); err != nil {
			return tui.HistoryErrorMsg{Err: err}
		}
		return tui.ConversationSavedMsg{ConversationID: id}
	}
}

// titleFromQuery truncates a question to a display-friendly title.
func titleFromQuery(query string) string {
	runes := []rune(query)
	if len(runes) <= conversationTitleLimit {
		return query
	}
	return string(runes[:conversationTitleLimit-3]) + "..."
}
