// workspace.go wires the per-invocation dependencies shared by the commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/veridoc-dev/veridoc/internal/backend"
	"github.com/veridoc-dev/veridoc/internal/config"
	"github.com/veridoc-dev/veridoc/internal/evidence"
	"github.com/veridoc-dev/veridoc/internal/log"
	"github.com/veridoc-dev/veridoc/internal/registry"
)

// workspace bundles the dependencies every command builds from the working
// directory. One workspace per invocation; nothing is global.
type workspace struct {
	dir     string
	cfg     *config.Config
	logger  *log.Logger
	client  *backend.Client
	store   *evidence.Store
	history *registry.Store
}

// openWorkspace reads the config (falling back to defaults when the project
// is not initialized) and wires the backend client, logger, evidence store
// and history store.
func openWorkspace() (*workspace, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := config.ReadConfig(dir)
	if err != nil {
		cfg = config.DefaultConfig()
	}
	if backendFlag != "" {
		cfg.Backend.URL = backendFlag
	}

	logger, err := log.NewLogger(dir)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	history, err := registry.NewStore(filepath.Join(config.Dir(dir), "history.db"))
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}

	return &workspace{
		dir:     dir,
		cfg:     cfg,
		logger:  logger,
		client:  backend.NewClient(cfg.Backend.URL, time.Duration(cfg.Backend.Timeout)*time.Second),
		store:   evidence.NewStore(),
		history: history,
	}, nil
}

// Close releases the workspace's resources.
func (w *workspace) Close() {
	_ = w.history.Close()
}

func (w *workspace) pacing() time.Duration {
	return time.Duration(w.cfg.Search.PacingDelayMS) * time.Millisecond
}

func (w *workspace) maxFileBytes() int64 {
	return int64(w.cfg.Upload.MaxFileMB) * 1024 * 1024
}

func (w *workspace) catalogTTL() time.Duration {
	return time.Duration(w.cfg.Catalog.CacheTTLSeconds) * time.Second
}
