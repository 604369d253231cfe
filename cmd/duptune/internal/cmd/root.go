// Package cmd implements the duptune CLI: scan a directory for audio
// duplicates, compare two files directly, and inspect the active
// comparator configuration. Grounded on
// _examples/zfogg-sidechain/cli/internal/cmd/root.go's cobra layout
// (package-level rootCmd, PersistentPreRun initializing shared state,
// an Execute entrypoint called from main).
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/audiodup/audiodup/internal/logger"
)

var (
	verbose    bool
	outputJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "duptune",
	Short: "Find near-duplicate audio files by acoustic fingerprint",
	Long: `duptune indexes audio files by their chromaprint fingerprint and
finds near-duplicates: re-encodes, trims, and loudness-normalized
copies of the same recording.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if verbose {
			level = "debug"
		}
		return logger.Initialize(level, "duptune.log")
	},
}

// Execute runs the root command, exiting non-zero on error the way
// the teacher's cli.Execute does.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "emit machine-readable JSON output")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(statsCmd)
}
