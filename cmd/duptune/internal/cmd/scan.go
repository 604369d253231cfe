package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/audiodup/audiodup/internal/audio"
	"github.com/audiodup/audiodup/internal/cache"
	"github.com/audiodup/audiodup/internal/catalog"
	"github.com/audiodup/audiodup/internal/logger"
	"github.com/audiodup/audiodup/internal/persistence"
	"github.com/audiodup/audiodup/internal/snapshot"
)

var (
	scanWorkers      int
	scanUseCache     bool
	scanRedisHost    string
	scanRedisPort    string
	scanRedisPass    string
	scanCacheTTL     time.Duration
	scanUseDB        bool
	scanSnapshotPath string
	scanS3Bucket     string
	scanS3Region     string
)

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "Index every audio file under a directory and report duplicate groups",
	Long: `scan walks a directory, fingerprints each .wav file found, indexes
it into an in-memory catalog, and runs the discovery sweep to report
groups of near-duplicate files. --cache attaches a Redis-backed
candidate-list cache, --db persists the resulting catalog and groups to
Postgres, and --snapshot writes a compressed archive of the catalog for
cold storage.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if err := audio.CheckFFmpegInstallation(); err != nil {
			return err
		}

		paths, err := findAudioFiles(args[0])
		if err != nil {
			return fmt.Errorf("walk %s: %w", args[0], err)
		}
		if len(paths) == 0 {
			fmt.Println("no audio files found")
			return nil
		}

		pre := audio.NewPreprocessor(audio.DefaultPreprocessOptions())
		producer := audio.NewChromaprintProducer(pre)
		cat := catalog.New()

		if scanUseCache {
			client, err := cache.New(scanRedisHost, scanRedisPort, scanRedisPass, scanCacheTTL)
			if err != nil {
				return fmt.Errorf("connect to candidate cache: %w", err)
			}
			defer client.Close()
			cat.SetCache(client)
		}

		var store *persistence.Store
		if scanUseDB {
			store, err = persistence.Open()
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer store.Close()
			if err := store.Migrate(); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
		}

		for _, path := range paths {
			fp, err := producer.Produce(ctx, path)
			if err != nil {
				logger.Log.Warn("skipping file that failed to fingerprint",
					logger.WithFilePath(path))
				continue
			}
			fileID, err := cat.AddFile(path, fp)
			if err != nil {
				logger.Log.Warn("skipping invalid fingerprint", logger.WithFilePath(path))
				continue
			}
			if store != nil {
				entry := &persistence.CatalogEntry{
					FileID:          fileID,
					Path:            path,
					FingerprintData: persistence.EncodeWords(fp.Data()),
					SampleRate:      fp.SampleRate(),
					Duration:        fp.Duration().Seconds(),
				}
				if err := store.SaveEntry(ctx, entry); err != nil {
					logger.Log.Warn("failed to persist catalog entry", logger.WithFilePath(path))
				}
			}
		}

		groups := cat.FindAllDuplicatesParallel(ctx, scanWorkers)

		if store != nil {
			if err := store.ClearGroups(ctx); err != nil {
				logger.Log.Warn("failed to clear previous duplicate groups")
			}
			for _, group := range groups {
				if _, err := store.SaveGroup(ctx, group.AvgSimilarity, group.FileIDs); err != nil {
					logger.Log.Warn("failed to persist duplicate group")
				}
			}
		}

		if scanSnapshotPath != "" || scanS3Bucket != "" {
			archive := snapshot.Build(cat, time.Now())
			compressed, err := snapshot.Compress(archive, 0)
			if err != nil {
				return fmt.Errorf("compress snapshot: %w", err)
			}
			if scanSnapshotPath != "" {
				if err := os.WriteFile(scanSnapshotPath, compressed, 0o644); err != nil {
					return fmt.Errorf("write snapshot %s: %w", scanSnapshotPath, err)
				}
			}
			if scanS3Bucket != "" {
				uploader, err := snapshot.NewUploader(ctx, scanS3Region, scanS3Bucket)
				if err != nil {
					return fmt.Errorf("connect to s3: %w", err)
				}
				key, err := uploader.Upload(ctx, archive, compressed)
				if err != nil {
					return fmt.Errorf("upload snapshot to s3: %w", err)
				}
				logger.Log.Info("uploaded snapshot to s3", logger.WithFilePath(key))
			}
		}

		if outputJSON {
			enc, err := json.MarshalIndent(groups, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(enc))
			return nil
		}

		fmt.Printf("indexed %d files, found %d duplicate group(s)\n", cat.Len(), len(groups))
		for i, group := range groups {
			fmt.Printf("\ngroup %d (avg similarity %.4f):\n", i+1, group.AvgSimilarity)
			for _, fileID := range group.FileIDs {
				entry, ok := cat.GetFile(fileID)
				if !ok {
					continue
				}
				fmt.Printf("  - %s\n", entry.Path)
			}
		}
		return nil
	},
}

func findAudioFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".wav") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

func init() {
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 4, "number of concurrent discovery workers")

	scanCmd.Flags().BoolVar(&scanUseCache, "cache", false, "attach a Redis-backed candidate cache")
	scanCmd.Flags().StringVar(&scanRedisHost, "redis-host", "localhost", "Redis host (with --cache)")
	scanCmd.Flags().StringVar(&scanRedisPort, "redis-port", "6379", "Redis port (with --cache)")
	scanCmd.Flags().StringVar(&scanRedisPass, "redis-password", "", "Redis password (with --cache)")
	scanCmd.Flags().DurationVar(&scanCacheTTL, "cache-ttl", 10*time.Minute, "candidate cache entry lifetime (with --cache)")

	scanCmd.Flags().BoolVar(&scanUseDB, "db", false, "persist the catalog and discovered groups to Postgres")
	scanCmd.Flags().StringVar(&scanSnapshotPath, "snapshot", "", "write a compressed archive of the catalog to this path")
	scanCmd.Flags().StringVar(&scanS3Bucket, "s3-bucket", "", "also upload the snapshot archive to this S3 bucket")
	scanCmd.Flags().StringVar(&scanS3Region, "s3-region", "us-east-1", "AWS region for --s3-bucket")
}
