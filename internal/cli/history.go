// history.go implements the "veridoc history" command for browsing
// recorded conversations.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [conversation-id]",
	Short: "Show conversation history",
	Long: `Without arguments, list recent conversations. With a conversation
ID, print every recorded question and answer in that conversation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var historyLimitFlag int

func init() {
	historyCmd.Flags().IntVar(&historyLimitFlag, "limit", 20, "Maximum conversations to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	if len(args) == 1 {
		return showConversation(ws, args[0])
	}

	summaries, err := ws.history.ListConversations(historyLimitFlag)
	if err != nil {
		return fmt.Errorf("listing conversations: %w", err)
	}
	if len(summaries) == 0 {
		fmt.Println("No conversations yet. Start one with: veridoc ask \"your question\"")
		return nil
	}

	for _, sum := range summaries {
		fmt.Printf("  %s  %s\n", sum.ID, sum.Title)
		fmt.Printf("      %d queries, last active %s\n", sum.Queries, sum.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// showConversation prints every recorded query of one conversation.
func showConversation(ws *workspace, id string) error {
	conv, err := ws.history.GetConversation(id)
	if err != nil {
		return fmt.Errorf("looking up conversation: %w", err)
	}
	if conv == nil {
		return fmt.Errorf("no conversation %s", id)
	}

	records, err := ws.history.GetQueries(id)
	if err != nil {
		return fmt.Errorf("loading queries: %w", err)
	}

	fmt.Println(conv.Title)
	fmt.Println()
	for _, rec := range records {
		fmt.Printf("Q: %s\n", rec.Question)
		fmt.Printf("A: %s\n", rec.Answer)
		fmt.Printf("   %d sources, %s\n\n", rec.Sources, rec.AskedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
