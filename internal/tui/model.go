// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"github.com/veridoc-dev/veridoc/internal/config"
	"github.com/veridoc-dev/veridoc/internal/evidence"
	"github.com/veridoc-dev/veridoc/internal/log"
	"github.com/veridoc-dev/veridoc/internal/registry"
	"github.com/veridoc-dev/veridoc/internal/search"
	"github.com/veridoc-dev/veridoc/internal/upload"
)

// Tab represents the active tab in the TUI.
type Tab int

const (
	TabAsk Tab = iota
	TabUpload
	TabDocuments
	TabHistory
)

// TabNames lists the tab labels in display order.
var TabNames = []string{"Ask", "Upload", "Documents", "History"}

// Deps bundles the wired application dependencies handed to the TUI.
// The CLI builds one Deps per invocation; nothing here is a singleton.
type Deps struct {
	Cfg      *config.Config
	Session  *search.Session
	Queue    *upload.Queue
	Evidence *evidence.Store
	Catalog  *registry.Catalog
	History  *registry.Store
	Logger   *log.Logger
}
