package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect assignment corpora",
}

var corpusListCmd = &cobra.Command{
	Use:   "list [assignment]",
	Short: "List accepted submissions for an assignment",
	Args:  cobra.ExactArgs(1),
	RunE:  runCorpusList,
}

var corpusExistsCmd = &cobra.Command{
	Use:   "exists [assignment] [sha256]",
	Short: "Check whether a content hash is already in the corpus",
	Args:  cobra.ExactArgs(2),
	RunE:  runCorpusExists,
}

func init() {
	corpusCmd.AddCommand(corpusListCmd)
	corpusCmd.AddCommand(corpusExistsCmd)
	rootCmd.AddCommand(corpusCmd)
}

func runCorpusList(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	assignment := args[0]
	entries, err := corpusStore.List(context.Background(), assignment)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		cmd.Printf("No submissions for assignment: %s\n", assignment)
		return nil
	}

	cmd.Printf("Submissions for assignment %s:\n\n", assignment)
	for _, entry := range entries {
		cmd.Printf("  %s\n", entry.Filename)
		cmd.Printf("    Hash: %s\n", entry.ContentHash)
		cmd.Printf("    Accepted: %s\n", entry.CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}
	cmd.Printf("Total: %d submissions\n", len(entries))
	return nil
}

func runCorpusExists(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	exists, err := corpusStore.Exists(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}
	if exists {
		cmd.Println("present")
	} else {
		cmd.Println("absent")
	}
	return nil
}
