package views

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/veridoc-dev/veridoc/internal/tui"
	"github.com/veridoc-dev/veridoc/internal/tui/commands"
	"github.com/veridoc-dev/veridoc/internal/upload"
)

// UploadModel is the view model for the document upload screen. Items are
// snapshots; the queue owns the truth and pushes changes through notify.
type UploadModel struct {
	queue *upload.Queue

	textInput    textinput.Model
	items        []upload.Item
	rejected     []upload.Rejected
	transferring bool
	lastErr      error

	width  int
	height int
}

// NewUploadModel creates the upload view.
func NewUploadModel(queue *upload.Queue, width, height int) UploadModel {
	ti := textinput.New()
	ti.Placeholder = "Path to a PDF, DOCX or TXT file..."
	ti.CharLimit = 1000
	ti.Width = width - 10
	ti.Focus()

	return UploadModel{
		queue:     queue,
		textInput: ti,
		width:     width,
		height:    height,
	}
}

// Init returns the initial command for the upload view.
func (m UploadModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the upload view.
func (m UploadModel) Update(msg tea.Msg) (UploadModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case tui.KeyEnter:
			value := strings.TrimSpace(m.textInput.Value())
			if value != "" {
				m.textInput.SetValue("")
				return m, commands.AcceptFilesCmd(m.queue, strings.Fields(value))
			}
			// Enter on an empty input starts the batch transfer.
			if !m.transferring {
				m.transferring = true
				m.lastErr = nil
				return m, commands.TransferCmd(m.queue)
			}
			return m, nil
		case "ctrl+r":
			if !m.transferring {
				m.transferring = true
				m.lastErr = nil
				return m, commands.RetryCmd(m.queue)
			}
			return m, nil
		}
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		return m, nil

	case tui.UploadAcceptedMsg:
		m.items = m.queue.Items()
		m.rejected = append(m.rejected, msg.Rejected...)
		return m, nil

	case tui.UploadProgressMsg:
		m.applyItem(msg.Item)
		return m, nil

	case tui.UploadFinishedMsg:
		m.transferring = false
		if msg.Err != nil {
			m.lastErr = msg.Err
		}
		m.items = m.queue.Items()
		return m, nil
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// applyItem folds one item snapshot into the displayed list.
func (m *UploadModel) applyItem(item upload.Item) {
	for i := range m.items {
		if m.items[i].ID == item.ID {
			m.items[i] = item
			return
		}
	}
	m.items = append(m.items, item)
}

// View renders the upload view.
func (m UploadModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Upload Documents"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	for _, r := range m.rejected {
		b.WriteString(tui.WarningStyle.Render(fmt.Sprintf("skipped %s: %s", r.Name, r.Reason)))
		b.WriteString("\n")
	}
	if len(m.rejected) > 0 {
		b.WriteString("\n")
	}

	if len(m.items) == 0 {
		b.WriteString(tui.DimStyle.Render("No files queued. Enter a path to add one."))
		b.WriteString("\n")
	}
	for _, item := range m.items {
		b.WriteString(renderUploadItem(item))
		b.WriteString("\n")
	}

	if m.lastErr != nil && !errIsNothingToUpload(m.lastErr) {
		b.WriteString("\n")
		b.WriteString(tui.ErrorStyle.Render(m.lastErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("Enter: Add path / start upload   Ctrl+R: Retry failed   Tab: Switch tabs"))

	return tui.BoxStyle.Width(m.width - 4).Render(b.String())
}

// renderUploadItem renders one queued file with its progress.
func renderUploadItem(item upload.Item) string {
	switch item.Status {
	case upload.StatusSuccess:
		return fmt.Sprintf("  %s %s", tui.IconDone, item.Name)
	case upload.StatusError:
		return fmt.Sprintf("  %s %s  %s", tui.IconFailed, item.Name, tui.ErrorStyle.Render(item.Err))
	case upload.StatusUploading:
		return fmt.Sprintf("  %s %s  %s %3d%%", tui.IconActive, item.Name, progressBar(item.Progress), item.Progress)
	default:
		return fmt.Sprintf("  %s %s  %s", tui.IconPending, item.Name, tui.DimStyle.Render("queued"))
	}
}

// progressBar renders a ten-cell progress bar.
func progressBar(percent int) string {
	filled := percent / 10
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

func errIsNothingToUpload(err error) bool {
	return errors.Is(err, upload.ErrNothingToUpload)
}
