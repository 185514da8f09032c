// docs.go implements the "veridoc docs" command listing the document catalog.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veridoc-dev/veridoc/internal/registry"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List documents in the knowledge base",
	RunE:  runDocs,
}

func runDocs(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	catalog := registry.NewCatalog(ws.client, ws.catalogTTL(), ws.logger)
	docs, err := catalog.Documents(cmd.Context())
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		fmt.Println("No documents uploaded yet. Add some with: veridoc upload <files>")
		return nil
	}

	for _, doc := range docs {
		fmt.Printf("  %-40s  %-6s  %s\n", doc.Name, doc.Type, doc.ID)
	}
	fmt.Println()
	fmt.Printf("%d document(s)\n", len(docs))
	return nil
}
