// Package cmd defines and implements the CLI commands for the snapwalk
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapwalk",
		Short: "Walks a URL list and captures a screenshot of every reachable URL.",
		Long: `snapwalk iterates over a list of URLs sourced from a CSV file or a SQLite
database, probes each URL's reachability, captures a screenshot of reachable
URLs through one of three interchangeable back-ends, and records one status
code per URL into a CSV index and/or the database.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	cmd.AddCommand(newRunCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
