package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datachat-ai/datachat/internal/progress"
)

var queryDataset bool

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a one-off question from the command line",
	Long: `Retrieves relevant chunks and streams the model's answer to stdout.
With --dataset, the question is answered over the indexed CSV and may
trigger a local analytic computation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(progress.NopReporter{})
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		question := args[0]
		const session = "cli"

		var chunks []string
		if queryDataset {
			chunks, err = a.retriever.Dataset(ctx, question)
		} else {
			chunks, err = a.retriever.Documents(ctx, question)
		}
		if err != nil {
			return fmt.Errorf("retrieval: %w", err)
		}

		var fragments <-chan string
		if queryDataset {
			fragments, err = a.engine.AnswerWithTools(ctx, session, question, chunks)
		} else {
			fragments, err = a.engine.Answer(ctx, session, question, chunks)
		}
		if err != nil {
			return fmt.Errorf("completion: %w", err)
		}

		for fragment := range fragments {
			fmt.Fprint(os.Stdout, fragment)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	queryCmd.Flags().BoolVar(&queryDataset, "dataset", false, "answer over the indexed dataset instead of documents")
	rootCmd.AddCommand(queryCmd)
}
