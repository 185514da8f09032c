// Package app assembles the top-level Bubble Tea model from the view and
// command packages.
package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/veridoc-dev/veridoc/internal/tui"
	"github.com/veridoc-dev/veridoc/internal/tui/commands"
	"github.com/veridoc-dev/veridoc/internal/tui/views"
	"github.com/veridoc-dev/veridoc/internal/upload"
)

// App is the root model. It owns tab routing and the channel listeners; the
// per-tab behavior lives in the view models.
type App struct {
	deps tui.Deps
	tab  tui.Tab

	ask     views.AskModel
	upload  views.UploadModel
	docs    views.DocsModel
	history views.HistoryModel

	uploadItems  chan upload.Item
	conversation string

	width  int
	height int
}

// New creates the App and bridges the upload queue's notify callback into a
// channel the TUI can poll.
func New(deps tui.Deps) *App {
	const width, height = 80, 24

	items := make(chan upload.Item, 64)
	deps.Queue.SetNotify(func(item upload.Item) {
		// Never block the transfer goroutine on a slow UI.
		select {
		case items <- item:
		default:
		}
	})

	return &App{
		deps:        deps,
		tab:         tui.TabAsk,
		ask:         views.NewAskModel(deps.Session, deps.Evidence, width, height),
		upload:      views.NewUploadModel(deps.Queue, width, height),
		docs:        views.NewDocsModel(deps.Catalog, width, height),
		history:     views.NewHistoryModel(deps.History, width, height),
		uploadItems: items,
		width:       width,
		height:      height,
	}
}

// Init starts the views and both channel listeners.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.ask.Init(),
		a.upload.Init(),
		a.docs.Init(),
		a.history.Init(),
		commands.ListenSearchCmd(a.deps.Session.Events()),
		commands.ListenUploadCmd(a.uploadItems),
	)
}

// Update routes messages to the app and its views.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case tui.KeyCtrlC:
			return a, tea.Quit
		case tui.KeyTab:
			a.tab = (a.tab + 1) % tui.Tab(len(tui.TabNames))
			return a, nil
		}
		return a, a.updateActive(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ask, cmd = a.ask.Update(msg)
		cmds = append(cmds, cmd)
		a.upload, cmd = a.upload.Update(msg)
		cmds = append(cmds, cmd)
		a.docs, cmd = a.docs.Update(msg)
		cmds = append(cmds, cmd)
		a.history, cmd = a.history.Update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case spinner.TickMsg:
		a.ask, cmd = a.ask.Update(msg)
		cmds = append(cmds, cmd)
		a.docs, cmd = a.docs.Update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case tui.SearchEventMsg:
		a.ask, cmd = a.ask.Update(msg)
		cmds = append(cmds, cmd, commands.ListenSearchCmd(a.deps.Session.Events()))
		if msg.Event.Result != nil && a.deps.History != nil {
			cmds = append(cmds, commands.RecordQueryCmd(a.deps.History, a.conversation, msg.Event.Result))
		}
		return a, tea.Batch(cmds...)

	case tui.TickMsg:
		return a, commands.ListenSearchCmd(a.deps.Session.Events())

	case tui.SearchChannelClosedMsg:
		return a, nil

	case tui.UploadTickMsg:
		return a, commands.ListenUploadCmd(a.uploadItems)

	case tui.UploadProgressMsg:
		a.upload, cmd = a.upload.Update(msg)
		return a, tea.Batch(cmd, commands.ListenUploadCmd(a.uploadItems))

	case tui.UploadAcceptedMsg:
		a.upload, cmd = a.upload.Update(msg)
		return a, cmd

	case tui.UploadFinishedMsg:
		a.upload, cmd = a.upload.Update(msg)
		cmds = append(cmds, cmd)
		if msg.Err == nil {
			// The corpus changed; the cached catalog is stale.
			cmds = append(cmds, commands.RefreshDocumentsCmd(a.deps.Catalog))
		}
		return a, tea.Batch(cmds...)

	case tui.DocumentsLoadedMsg, tui.DocumentsErrorMsg:
		a.docs, cmd = a.docs.Update(msg)
		return a, cmd

	case tui.ConversationSavedMsg:
		a.conversation = msg.ConversationID
		a.history, cmd = a.history.Update(msg)
		return a, cmd

	case tui.HistoryLoadedMsg, tui.HistoryQueriesMsg, tui.HistoryErrorMsg:
		a.history, cmd = a.history.Update(msg)
		return a, cmd

	case tui.ErrorMsg:
		a.ask, cmd = a.ask.Update(msg)
		return a, cmd
	}

	return a, a.updateActive(msg)
}

// updateActive forwards a message to the active tab's view only.
func (a *App) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.tab {
	case tui.TabAsk:
		a.ask, cmd = a.ask.Update(msg)
	case tui.TabUpload:
		a.upload, cmd = a.upload.Update(msg)
	case tui.TabDocuments:
		a.docs, cmd = a.docs.Update(msg)
	case tui.TabHistory:
		a.history, cmd = a.history.Update(msg)
	}
	return cmd
}

// View renders the tab bar, the active view and the status bar.
func (a *App) View() string {
	var b strings.Builder

	var tabs []string
	for i, name := range tui.TabNames {
		if tui.Tab(i) == a.tab {
			tabs = append(tabs, tui.ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, tui.InactiveTabStyle.Render(name))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	switch a.tab {
	case tui.TabUpload:
		b.WriteString(a.upload.View())
	case tui.TabDocuments:
		b.WriteString(a.docs.View())
	case tui.TabHistory:
		b.WriteString(a.history.View())
	default:
		b.WriteString(a.ask.View())
	}

	b.WriteString("\n")
	b.WriteString(tui.StatusBarStyle.Width(a.width).Render(a.deps.Cfg.Backend.URL))

	return b.String()
}
