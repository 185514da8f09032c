// Package views provides TUI view components for the veridoc application.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/veridoc-dev/veridoc/internal/answer"
	"github.com/veridoc-dev/veridoc/internal/evidence"
	"github.com/veridoc-dev/veridoc/internal/search"
	"github.com/veridoc-dev/veridoc/internal/tui"
	"github.com/veridoc-dev/veridoc/internal/tui/commands"
)

// askState tracks which part of the ask flow is on screen.
type askState int

const (
	askInput askState = iota
	askSearching
	askAnswer
	askFailed
)

// AskModel is the view model for the question-and-answer screen. The answer
// text and the evidence panel share one selection through the evidence store,
// so highlighting a citation badge highlights its card and vice versa.
type AskModel struct {
	session  *search.Session
	evidence *evidence.Store

	textInput textinput.Model
	spinner   spinner.Model
	viewport  viewport.Model

	state  askState
	stage  search.Stage
	result *search.Result
	err    error

	width  int
	height int
}

// NewAskModel creates the ask view.
func NewAskModel(session *search.Session, store *evidence.Store, width, height int) AskModel {
	ti := textinput.New()
	ti.Placeholder = "Ask a question about your documents..."
	ti.CharLimit = 2000
	ti.Width = width - 10
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(width-4, height-8)

	return AskModel{
		session:   session,
		evidence:  store,
		textInput: ti,
		spinner:   sp,
		viewport:  vp,
		state:     askInput,
		width:     width,
		height:    height,
	}
}

// Init returns the initial command for the ask view.
func (m AskModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages for the ask view.
func (m AskModel) Update(msg tea.Msg) (AskModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 8
		if m.state == askAnswer {
			m.viewport.SetContent(m.renderResult())
		}
		return m, nil

	case spinner.TickMsg:
		if m.state == askSearching {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tui.SearchEventMsg:
		return m.applyEvent(msg.Event), nil

	case tui.ErrorMsg:
		m.state = askFailed
		m.err = msg.Err
		return m, nil
	}

	if m.state == askInput {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	return m, cmd
}

// handleKey processes key presses per ask state.
func (m AskModel) handleKey(msg tea.KeyMsg) (AskModel, tea.Cmd) {
	var cmd tea.Cmd

	switch m.state {
	case askInput:
		if msg.String() == tui.KeyEnter {
			value := strings.TrimSpace(m.textInput.Value())
			if value == "" {
				return m, nil
			}
			m.state = askSearching
			m.stage = search.StageRetrieving
			return m, tea.Batch(
				commands.SubmitQueryCmd(m.session, value),
				m.spinner.Tick,
			)
		}
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd

	case askAnswer:
		switch msg.String() {
		case tui.KeyEsc:
			m.state = askInput
			m.textInput.SetValue("")
			m.textInput.Focus()
			return m, textinput.Blink
		case tui.KeyLeft:
			m.moveActive(-1)
			m.viewport.SetContent(m.renderResult())
			return m, nil
		case tui.KeyRight:
			m.moveActive(1)
			m.viewport.SetContent(m.renderResult())
			return m, nil
		case tui.KeyEnter:
			if active := m.evidence.Active(); active != evidence.NoActive {
				m.evidence.Select(active)
				m.viewport.SetContent(m.renderResult())
			}
			return m, nil
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			m.evidence.Select(int(msg.String()[0]-'0') - 1)
			m.viewport.SetContent(m.renderResult())
			return m, nil
		}
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case askFailed:
		switch msg.String() {
		case tui.KeyEsc, tui.KeyEnter:
			m.state = askInput
			m.err = nil
			m.textInput.Focus()
			return m, textinput.Blink
		}
	}

	return m, nil
}

// applyEvent folds one pipeline transition into the view state.
func (m AskModel) applyEvent(event search.Event) AskModel {
	switch event.Stage {
	case search.StageRetrieving, search.StageAnalyzing, search.StageGenerating:
		m.state = askSearching
		m.stage = event.Stage

	case search.StageSettled:
		m.state = askAnswer
		m.result = event.Result
		m.evidence.ClearActive()
		m.viewport.SetContent(m.renderResult())
		m.viewport.GotoTop()

	case search.StageFailed:
		m.state = askFailed
		m.err = event.Err
	}
	return m
}

// moveActive shifts the shared selection left or right, wrapping around.
func (m *AskModel) moveActive(delta int) {
	count := m.evidence.Len()
	if count == 0 {
		return
	}
	active := m.evidence.Active()
	if active == evidence.NoActive {
		active = 0
	} else {
		active = (active + delta + count) % count
	}
	m.evidence.SetActive(active)
}

// View renders the ask view.
func (m AskModel) View() string {
	switch m.state {
	case askSearching:
		return m.viewSearching()
	case askAnswer:
		return m.viewAnswer()
	case askFailed:
		return m.viewFailed()
	default:
		return m.viewInput()
	}
}

// viewInput renders the welcome screen with the question input.
func (m AskModel) viewInput() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("VeriDoc"))
	b.WriteString("\n\n")
	b.WriteString("Ask questions about your uploaded documents and get cited answers.")
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")
	b.WriteString(tui.DimStyle.Render("Enter: Ask       Tab: Switch tabs       Ctrl+C: Exit"))

	return tui.BoxStyle.Width(m.width - 4).Render(b.String())
}

// viewSearching renders the staged pipeline overlay.
func (m AskModel) viewSearching() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Searching"))
	b.WriteString("\n\n")

	for _, stage := range search.PipelineStages {
		switch {
		case stage < m.stage:
			b.WriteString(fmt.Sprintf("  %s %s\n", tui.IconDone, stage.Title()))
		case stage == m.stage:
			b.WriteString(fmt.Sprintf("  %s %s %s\n", tui.IconActive, stage.Title(), m.spinner.View()))
			b.WriteString(fmt.Sprintf("    %s\n", tui.DimStyle.Render(stage.Description())))
		default:
			b.WriteString(fmt.Sprintf("  %s %s\n", tui.IconPending, tui.DimStyle.Render(stage.Title())))
		}
	}

	return tui.BoxStyle.Width(m.width - 4).Render(b.String())
}

// viewAnswer renders the settled answer with its evidence panel.
func (m AskModel) viewAnswer() string {
	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("←/→: Select source   Enter/1-9: Expand   ↑/↓: Scroll   Esc: New question"))
	return b.String()
}

// viewFailed renders a search failure. The previous evidence state is
// untouched; only the error is shown.
func (m AskModel) viewFailed() string {
	var b strings.Builder

	b.WriteString(tui.ErrorStyle.Render("Search failed"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(m.err.Error())
		b.WriteString("\n\n")
	}
	b.WriteString(tui.DimStyle.Render("Enter: Try again"))

	return tui.BoxStyle.Width(m.width - 4).Render(b.String())
}

// renderResult builds the scrollable answer plus evidence content.
func (m AskModel) renderResult() string {
	if m.result == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Q: " + m.result.Query))
	b.WriteString("\n\n")
	b.WriteString(m.renderSegments())
	b.WriteString("\n\n")
	b.WriteString(m.renderEvidence())

	return b.String()
}

// renderSegments renders the answer prose with inline citation badges. The
// badge whose source matches the shared active selection is highlighted.
func (m AskModel) renderSegments() string {
	active := m.evidence.Active()

	var b strings.Builder
	for _, seg := range m.result.Segments {
		b.WriteString(seg.Text)
		if seg.Source == answer.NoSource {
			continue
		}
		badge := fmt.Sprintf("[%d]", seg.Source+1)
		if seg.Source == active {
			b.WriteString(tui.ActiveCitationStyle.Render(badge))
		} else {
			b.WriteString(tui.CitationStyle.Render(badge))
		}
	}
	return b.String()
}

// renderEvidence renders the evidence cards below the answer.
func (m AskModel) renderEvidence() string {
	sources := m.evidence.Sources()
	if len(sources) == 0 {
		return tui.DimStyle.Render("No supporting evidence was returned for this answer.")
	}

	active := m.evidence.Active()

	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render(fmt.Sprintf("Evidence (%d)", len(sources))))
	b.WriteString("\n")

	for i, src := range sources {
		header := fmt.Sprintf("[%d] %s", i+1, src.DocumentName)
		if src.PageNumber > 0 {
			header += fmt.Sprintf("  (page %d)", src.PageNumber)
		}
		header += tui.DimStyle.Render(fmt.Sprintf("  %.0f%%", src.RelevanceScore*100))

		body := header
		if m.evidence.Expanded(i) {
			snippet := src.HighlightedText
			if snippet == "" {
				snippet = tui.DimStyle.Render("(no snippet)")
			}
			body += "\n" + snippet
		} else if src.Snippet != "" {
			body += "\n" + tui.DimStyle.Render(truncate(src.Snippet, m.width-12))
		}

		style := tui.EvidenceCardStyle
		if i == active {
			style = tui.ActiveEvidenceCardStyle
		}
		b.WriteString(style.Width(m.width - 8).Render(body))
		b.WriteString("\n")
	}

	return b.String()
}

// truncate shortens s to at most max runes with an ellipsis.
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
