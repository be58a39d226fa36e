package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev" // set by build flags

var rootCmd = &cobra.Command{
	Use:     "cdrgen",
	Short:   "Synthetic telecom CDR generator",
	Long:    `cdrgen synthesizes call, SMS, and data detail records for a simulated subscriber population, sharded across workers and written as deterministic, rotating CSV files.`,
	Version: version,
	RunE:    runGenerate,
}

func init() {
	registerFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}
