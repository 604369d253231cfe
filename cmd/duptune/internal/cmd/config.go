package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audiodup/audiodup/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the default comparator/index configuration",
	Long:  "Print the default Snapshot used by scan and compare when no overrides are applied.",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap := config.Default()

		if outputJSON {
			enc, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(enc))
			return nil
		}

		fmt.Printf("similarity_threshold:          %.2f\n", snap.SimilarityThreshold)
		fmt.Printf("bit_error_threshold:           %.2f\n", snap.BitErrorThreshold)
		fmt.Printf("minimum_overlap:               %d\n", snap.MinimumOverlap)
		fmt.Printf("max_alignment_offset:          %d\n", snap.MaxAlignmentOffset)
		fmt.Printf("alignment_step:                %d\n", snap.AlignmentStep)
		fmt.Printf("hash_threshold:                %d\n", snap.HashThreshold)
		fmt.Printf("sliding_window_size:           %d\n", snap.SlidingWindowSize)
		fmt.Printf("sliding_window_stride:         %d\n", snap.SlidingWindowStride)
		fmt.Printf("segment_min_similarity_factor: %.2f\n", snap.SegmentMinSimilarityFactor)
		fmt.Printf("group_coverage_min:            %.2f\n", snap.GroupCoverageMin)
		fmt.Printf("group_min_matching_segments:   %d\n", snap.GroupMinMatchingSegments)
		fmt.Printf("quick_filter_slack:            %.2f\n", snap.QuickFilterSlack)
		return nil
	},
}
