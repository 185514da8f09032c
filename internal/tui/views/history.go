package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/veridoc-dev/veridoc/internal/registry"
	"github.com/veridoc-dev/veridoc/internal/tui"
	"github.com/veridoc-dev/veridoc/internal/tui/commands"
)

// historyLimit caps how many conversations the list shows.
const historyLimit = 50

// HistoryModel is the view model for the conversation history screen.
type HistoryModel struct {
	store *registry.Store

	summaries []registry.Summary
	records   []registry.QueryRecord
	selected  int
	showing   bool
	err       error

	width  int
	height int
}

// NewHistoryModel creates the history view.
func NewHistoryModel(store *registry.Store, width, height int) HistoryModel {
	return HistoryModel{
		store:  store,
		width:  width,
		height: height,
	}
}

// Init loads the conversation list on startup.
func (m HistoryModel) Init() tea.Cmd {
	return commands.LoadHistoryCmd(m.store, historyLimit)
}

// Update handles messages for the history view.
func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case tui.KeyUp:
			if !m.showing && m.selected > 0 {
				m.selected--
			}
		case tui.KeyDown:
			if !m.showing && m.selected < len(m.summaries)-1 {
				m.selected++
			}
		case tui.KeyEnter:
			if !m.showing && m.selected < len(m.summaries) {
				return m, commands.LoadQueriesCmd(m.store, m.summaries[m.selected].ID)
			}
		case tui.KeyEsc:
			m.showing = false
			m.records = nil
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tui.HistoryLoadedMsg:
		m.summaries = msg.Conversations
		if m.selected >= len(m.summaries) {
			m.selected = 0
		}
		m.err = nil
		return m, nil

	case tui.HistoryQueriesMsg:
		m.records = msg.Records
		m.showing = true
		return m, nil

	case tui.HistoryErrorMsg:
		m.err = msg.Err
		return m, nil

	case tui.ConversationSavedMsg:
		// A settled query changed the history; reload the list.
		return m, commands.LoadHistoryCmd(m.store, historyLimit)
	}

	return m, nil
}

// View renders the history view.
func (m HistoryModel) View() string {
	if m.showing {
		return m.viewConversation()
	}
	return m.viewList()
}

// viewList renders the conversation summaries.
func (m HistoryModel) viewList() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("History"))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(tui.ErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	case len(m.summaries) == 0:
		b.WriteString(tui.DimStyle.Render("No conversations yet. Ask a question to start one."))
		b.WriteString("\n")
	default:
		for i, sum := range m.summaries {
			line := fmt.Sprintf("%s  %s", sum.Title,
				tui.DimStyle.Render(fmt.Sprintf("%d queries, %s", sum.Queries, sum.UpdatedAt.Format("Jan 2 15:04"))))
			if i == m.selected {
				b.WriteString(tui.TitleStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("↑/↓: Select   Enter: Open   Tab: Switch tabs"))

	return tui.BoxStyle.Width(m.width - 4).Render(b.String())
}

// viewConversation renders one conversation's recorded queries.
func (m HistoryModel) viewConversation() string {
	var b strings.Builder

	title := "Conversation"
	if m.selected < len(m.summaries) {
		title = m.summaries[m.selected].Title
	}
	b.WriteString(tui.TitleStyle.Render(title))
	b.WriteString("\n\n")

	for _, rec := range m.records {
		b.WriteString(fmt.Sprintf("Q: %s\n", rec.Question))
		b.WriteString(fmt.Sprintf("A: %s\n", rec.Answer))
		b.WriteString(tui.DimStyle.Render(fmt.Sprintf("%d sources, %s", rec.Sources, rec.AskedAt.Format("Jan 2 15:04"))))
		b.WriteString("\n\n")
	}

	b.WriteString(tui.DimStyle.Render("Esc: Back to list"))

	return tui.BoxStyle.Width(m.width - 4).Render(b.String())
}
