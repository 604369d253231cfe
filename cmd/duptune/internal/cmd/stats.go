package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audiodup/audiodup/internal/metrics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a snapshot of the in-process catalog counters",
	Long:  "Print the most recent catalog size and duplicate-group count recorded by this process, without scraping /metrics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot := metrics.GetManager().Snapshot()

		if outputJSON {
			enc, err := json.MarshalIndent(snapshot, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(enc))
			return nil
		}

		fmt.Printf("files_indexed:    %v\n", snapshot["files_indexed"])
		fmt.Printf("duplicate_groups: %v\n", snapshot["duplicate_groups"])
		return nil
	},
}
