package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audiodup/audiodup/internal/audio"
	"github.com/audiodup/audiodup/internal/comparator"
	"github.com/audiodup/audiodup/internal/config"
)

var compareCmd = &cobra.Command{
	Use:   "compare <file-a> <file-b>",
	Short: "Compare two audio files directly for near-duplication",
	Long:  "Fingerprint both files and run the single-offset comparator, printing the match result.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if err := audio.CheckFFmpegInstallation(); err != nil {
			return err
		}

		pre := audio.NewPreprocessor(audio.DefaultPreprocessOptions())
		producer := audio.NewChromaprintProducer(pre)

		fpA, err := producer.Produce(ctx, args[0])
		if err != nil {
			return fmt.Errorf("fingerprint %s: %w", args[0], err)
		}
		fpB, err := producer.Produce(ctx, args[1])
		if err != nil {
			return fmt.Errorf("fingerprint %s: %w", args[1], err)
		}

		if !fpA.MatchesAnyHashOf(fpB) {
			fmt.Fprintln(cmd.OutOrStderr(), "note: fingerprints share no low-hash bucket; a match here would be unusual")
		}

		cmp := comparator.New(config.Default())
		result := cmp.Compare(fpA, fpB)

		if outputJSON {
			enc, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(enc))
			return nil
		}

		fmt.Printf("similarity:      %.4f\n", result.SimilarityScore)
		fmt.Printf("is duplicate:    %v\n", result.IsDuplicate)
		fmt.Printf("best offset:     %d\n", result.BestOffset)
		fmt.Printf("bit error rate:  %.4f\n", result.BitErrorRate)
		fmt.Printf("coverage ratio:  %.4f\n", result.CoverageRatio)
		fmt.Printf("matched segments: %d\n", result.MatchedSegments)
		return nil
	},
}
