// init.go implements the "veridoc init" command.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veridoc-dev/veridoc/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize veridoc in the current directory",
	Long: `Create the .veridoc/ directory with a default configuration.
The config holds the backend URL, upload limits and cache settings.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	// Check for an existing configuration.
	if _, readErr := config.ReadConfig(dir); readErr == nil {
		fmt.Println("Warning: .veridoc/config.yaml already exists.")
		fmt.Print("Reinitialize? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if backendFlag != "" {
		cfg.Backend.URL = backendFlag
	}

	if err := config.WriteConfig(dir, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Println("Veridoc initialized")
	fmt.Println("Configuration written to .veridoc/config.yaml")
	fmt.Printf("Backend: %s\n", cfg.Backend.URL)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Upload documents: veridoc upload report.pdf notes.txt")
	fmt.Println("  2. Ask a question:   veridoc ask \"what does the report conclude?\"")
	return nil
}
