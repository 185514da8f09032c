// upload.go implements the "veridoc upload" command: batch document
// ingestion with per-file byte progress.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veridoc-dev/veridoc/internal/ui"
	"github.com/veridoc-dev/veridoc/internal/upload"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload documents to the knowledge base",
	Long: `Upload one or more PDF, DOCX or TXT files to the backend as a
single batch. Unsupported files are skipped with a reason; progress
per file reflects the bytes actually transferred.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	queue := upload.NewQueue(ws.client, ws.logger, ws.maxFileBytes())

	accepted, rejected := queue.Accept(args)
	for _, r := range rejected {
		fmt.Fprintf(os.Stderr, "skipping %s: %s\n", r.Name, r.Reason)
	}
	if len(accepted) == 0 {
		return fmt.Errorf("no uploadable files among %d candidate(s)", len(args))
	}

	display := ui.NewDisplay("Uploading documents")
	for _, item := range accepted {
		display.AddRow(item.ID, fmt.Sprintf("%s (%s)", item.Name, humanSize(item.Size)))
	}
	queue.SetNotify(func(item upload.Item) {
		switch item.Status {
		case upload.StatusUploading:
			display.SetPercent(item.ID, item.Progress)
		case upload.StatusSuccess:
			display.SetDone(item.ID)
		case upload.StatusError:
			display.SetFailed(item.ID, item.Err)
		}
	})
	display.Start()

	if err := queue.Transfer(cmd.Context()); err != nil {
		display.Finish("")
		fmt.Fprintln(os.Stderr, "Retry with the same command; failed files are re-sent as a new batch.")
		return err
	}

	display.Finish(fmt.Sprintf("Uploaded %d file(s).", len(accepted)))
	return nil
}

// humanSize formats a byte count for display.
func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
