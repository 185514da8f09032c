package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/veridoc-dev/veridoc/internal/registry"
	"github.com/veridoc-dev/veridoc/internal/tui"
	"github.com/veridoc-dev/veridoc/internal/tui/commands"
)

// DocsModel is the view model for the document catalog screen.
type DocsModel struct {
	catalog *registry.Catalog

	spinner spinner.Model
	docs    []registry.Document
	loading bool
	err     error

	width  int
	height int
}

// NewDocsModel creates the documents view.
func NewDocsModel(catalog *registry.Catalog, width, height int) DocsModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return DocsModel{
		catalog: catalog,
		spinner: sp,
		loading: true,
		width:   width,
		height:  height,
	}
}

// Init loads the catalog on startup.
func (m DocsModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, commands.LoadDocumentsCmd(m.catalog))
}

// Update handles messages for the documents view.
func (m DocsModel) Update(msg tea.Msg) (DocsModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, commands.RefreshDocumentsCmd(m.catalog))
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tui.DocumentsLoadedMsg:
		m.loading = false
		m.docs = msg.Documents
		m.err = nil
		return m, nil

	case tui.DocumentsErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

// View renders the documents view.
func (m DocsModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Documents"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(fmt.Sprintf("%s Loading catalog...", m.spinner.View()))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(tui.ErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	case len(m.docs) == 0:
		b.WriteString(tui.DimStyle.Render("No documents uploaded yet. Switch to the Upload tab to add some."))
		b.WriteString("\n")
	default:
		for _, doc := range m.docs {
			b.WriteString(fmt.Sprintf("  %s  %s\n", doc.Name, tui.DimStyle.Render(doc.Type)))
		}
	}

	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("r: Refresh   Tab: Switch tabs"))

	return tui.BoxStyle.Width(m.width - 4).Render(b.String())
}
