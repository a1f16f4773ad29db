package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/veriscan-labs/veriscan-cli/internal/core/domain"
)

var (
	submitAssignment string
	submitJSON       bool
)

var submitCmd = &cobra.Command{
	Use:   "submit [file]",
	Short: "Check a document and admit it on acceptance",
	Long: `Checks the document against every previously accepted submission for
the assignment. Accepted documents join the corpus; rejected ones do
not. The exit code is non-zero when the submission is rejected.`,
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	RunE:          runSubmit,
}

func init() {
	submitCmd.Flags().StringVarP(&submitAssignment, "assignment", "a", "", "Assignment identifier (required)")
	submitCmd.Flags().BoolVar(&submitJSON, "json", false, "Print the verdict as JSON")
	_ = submitCmd.MarkFlagRequired("assignment")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	path := args[0]
	filename := filepath.Base(path)

	verdict, err := submissionService.Submit(context.Background(), path, submitAssignment, filename)
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	if submitJSON {
		data, err := json.MarshalIndent(verdict, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
	} else {
		printVerdict(cmd, filename, verdict)
	}

	if !verdict.Accepted {
		return errors.New("submission rejected")
	}
	return nil
}

func printVerdict(cmd *cobra.Command, filename string, v *domain.Verdict) {
	status := "REJECTED"
	if v.Accepted {
		status = "ACCEPTED"
	}
	cmd.Printf("%s  %s\n", status, filename)
	cmd.Printf("  %s\n", v.Message)
	cmd.Printf("  Document similarity: %.2f%%\n", v.DocumentSimilarity)
	if v.MatchedWith != nil {
		cmd.Printf("  Matched with: %s\n", *v.MatchedWith)
	}
	if len(v.SentenceMatches) > 0 {
		cmd.Printf("  Matching sentences (%d):\n", v.TotalSentenceMatches)
		for _, m := range v.SentenceMatches {
			cmd.Printf("    %.2f%%  %q\n", m.Similarity, m.SourceSentence)
			cmd.Printf("           ~ %q\n", m.MatchedSentence)
		}
	}
}
