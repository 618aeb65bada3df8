package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datachat-ai/datachat/internal/progress"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all ingested chunks and the dataset index",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(progress.NopReporter{})
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.documents.Reset(cmd.Context()); err != nil {
			return fmt.Errorf("resetting chunk store: %w", err)
		}
		if err := a.tables.Reset(); err != nil {
			return fmt.Errorf("resetting dataset index: %w", err)
		}
		fmt.Println("All indexes cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
