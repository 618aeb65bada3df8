package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datachat-ai/datachat/internal/ingest"
	"github.com/datachat-ai/datachat/internal/progress"
)

var trainDataset bool

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Ingest uploaded files into the vector indexes",
	Long: `Processes every PDF in the uploads directory into the chunk store,
or with --dataset, rebuilds the dataset index from the CSV in the
datasets directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(progress.NewReporter())
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()

		// Subscribe before starting so the final state cannot be missed.
		states, cancel := a.runner.Subscribe()
		defer cancel()

		if trainDataset {
			err = a.runner.TrainDataset(ctx, a.cfg.Paths.DatasetsDir)
		} else {
			err = a.runner.TrainDocuments(ctx, a.cfg.Paths.UploadsDir)
		}
		if err != nil {
			return err
		}

		final := waitForRun(states)
		for _, res := range final.Results {
			fmt.Printf("%-12s %s", res.Status, res.File)
			if res.Message != "" {
				fmt.Printf("  (%s)", res.Message)
			}
			fmt.Println()
		}
		if final.Error != "" {
			return fmt.Errorf("training failed: %s", final.Error)
		}
		return nil
	},
}

// waitForRun blocks until the in-flight run finishes and returns its final
// state.
func waitForRun(states <-chan ingest.RunState) ingest.RunState {
	for state := range states {
		if !state.Running {
			return state
		}
	}
	return ingest.RunState{}
}

func init() {
	trainCmd.Flags().BoolVar(&trainDataset, "dataset", false, "rebuild the dataset index instead of ingesting documents")
	rootCmd.AddCommand(trainCmd)
}
