package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "datachat",
	Short: "Retrieval-augmented chat over your documents and datasets",
	Long: `Datachat ingests PDF documents and CSV datasets, builds vector
indexes over them, and answers questions grounded on the retrieved
content, streaming responses over HTTP. Dataset questions can invoke
local analytic computations before the model explains the result.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".datachat.yml", "config file path")
}
