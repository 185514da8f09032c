// Package cli defines Cobra command definitions for the veridoc CLI.
// This file contains the root command, version flag, and help output.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veridoc-dev/veridoc/internal/registry"
	"github.com/veridoc-dev/veridoc/internal/search"
	"github.com/veridoc-dev/veridoc/internal/tui"
	"github.com/veridoc-dev/veridoc/internal/tui/app"
	"github.com/veridoc-dev/veridoc/internal/upload"
)

var (
	backendFlag string
	version     = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "veridoc",
	Short: "Ask questions about your documents and get cited answers",
	Long: `Veridoc is a client for a document question-answering service.
It uploads PDF, DOCX and TXT files, runs questions through a staged
search pipeline, and correlates every answer with the evidence
passages that back it.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// When no subcommand is provided, launch TUI if TTY, show help otherwise
		if !tui.IsTTY() {
			return cmd.Help()
		}

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		deps := tui.Deps{
			Cfg:      ws.cfg,
			Session:  search.NewSession(ws.client, ws.store, ws.pacing(), ws.logger),
			Queue:    upload.NewQueue(ws.client, ws.logger, ws.maxFileBytes()),
			Evidence: ws.store,
			Catalog:  registry.NewCatalog(ws.client, ws.catalogTTL(), ws.logger),
			History:  ws.history,
			Logger:   ws.logger,
		}
		return tui.Run(app.New(deps))
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Backend URL override (default from .veridoc/config.yaml)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(historyCmd)
}
