// ask.go implements the "veridoc ask" command: one question through the
// staged pipeline, printed with citations and evidence.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veridoc-dev/veridoc/internal/answer"
	"github.com/veridoc-dev/veridoc/internal/search"
	"github.com/veridoc-dev/veridoc/internal/ui"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question and print the cited answer",
	Long: `Run one question through the search pipeline and print the answer
with its citation markers and the evidence passages backing them.
The result is recorded in the conversation history.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

var conversationFlag string

func init() {
	askCmd.Flags().StringVar(&conversationFlag, "conversation", "", "Append to an existing conversation ID instead of starting a new one")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	session := search.NewSession(ws.client, ws.store, ws.pacing(), ws.logger)

	display := ui.NewDisplay("Searching knowledge base")
	for _, stage := range search.PipelineStages {
		display.AddRow(stage.String(), stage.Title())
	}
	display.Start()

	if err := session.Submit(cmd.Context(), args[0]); err != nil {
		return err
	}

	var result *search.Result
	current := search.StageRetrieving
	for event := range session.Events() {
		switch event.Stage {
		case search.StageRetrieving, search.StageAnalyzing, search.StageGenerating:
			current = event.Stage
			for _, stage := range search.PipelineStages {
				if stage < current {
					display.SetDone(stage.String())
				} else if stage == current {
					display.SetActive(stage.String())
				}
			}
		case search.StageSettled:
			for _, stage := range search.PipelineStages {
				display.SetDone(stage.String())
			}
			result = event.Result
		case search.StageFailed:
			display.SetFailed(current.String(), event.Err.Error())
			display.Finish("")
			return fmt.Errorf("query failed: %w", event.Err)
		}
		if result != nil {
			break
		}
	}
	display.Finish("")

	printResult(result)

	return recordResult(ws, result)
}

// printResult writes the answer with citation markers, then the evidence list.
func printResult(result *search.Result) {
	fmt.Println()
	for _, seg := range result.Segments {
		fmt.Print(seg.Text)
		if seg.Source != answer.NoSource {
			fmt.Printf("[%d]", seg.Source+1)
		}
	}
	fmt.Println()
	fmt.Println()

	if len(result.Sources) == 0 {
		fmt.Println("No supporting evidence was returned for this answer.")
		return
	}

	fmt.Println("Sources:")
	for i, src := range result.Sources {
		fmt.Printf("  [%d] %s", i+1, src.DocumentName)
		if src.PageNumber > 0 {
			fmt.Printf(" (page %d)", src.PageNumber)
		}
		fmt.Println()
		if src.Snippet != "" {
			fmt.Printf("      %s\n", src.Snippet)
		}
	}
}

// recordResult saves the settled query to the conversation history.
func recordResult(ws *workspace, result *search.Result) error {
	conversationID := conversationFlag
	if conversationID != "" {
		conv, err := ws.history.GetConversation(conversationID)
		if err != nil {
			return fmt.Errorf("looking up conversation: %w", err)
		}
		if conv == nil {
			return fmt.Errorf("no conversation %s; run 'veridoc history' to list them", conversationID)
		}
	} else {
		title := result.Query
		if len([]rune(title)) > 60 {
			title = string([]rune(title)[:57]) + "..."
		}
		conv, err := ws.history.CreateConversation(title)
		if err != nil {
			return fmt.Errorf("creating conversation: %w", err)
		}
		conversationID = conv.ID
	}

	if err := ws.history.AddQuery(conversationID, result.Query, result.Answer, len(result.Sources)); err != nil {
		return fmt.Errorf("recording query: %w", err)
	}

	fmt.Println()
	fmt.Printf("Saved to conversation %s\n", conversationID)
	return nil
}
