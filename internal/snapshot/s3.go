package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader ships compressed archives to S3 for offsite backup, the
// "optional ... offsite backup" collaborator spec §6.4 mentions as
// outside the core's own responsibility. Grounded on the teacher's
// internal/storage.S3Uploader: config.LoadDefaultConfig + s3.NewFromConfig,
// a bucket-scoped PutObject call, metadata on the object.
type Uploader struct {
	client *s3.Client
	bucket string
}

// NewUploader loads AWS credentials from the standard SDK chain
// (environment, shared config, instance role) the way the teacher's
// NewS3Uploader does.
func NewUploader(ctx context.Context, region, bucket string) (*Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &Uploader{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// snapshotKey derives the S3 object key for an archive from its
// capture time, so uploads are naturally ordered and never collide.
func snapshotKey(capturedAt time.Time) string {
	return fmt.Sprintf("snapshots/%s.lzo", capturedAt.UTC().Format("20060102T150405Z"))
}

// Upload stores a compressed archive under a timestamped key and
// returns it.
func (u *Uploader) Upload(ctx context.Context, archive Archive, compressed []byte) (string, error) {
	key := snapshotKey(archive.CapturedAt)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(compressed),
		ContentType: aws.String("application/octet-stream"),
		Metadata: map[string]string{
			"entry-count": fmt.Sprintf("%d", len(archive.Entries)),
			"captured-at": archive.CapturedAt.UTC().Format(time.RFC3339),
			"compressed":  "lzo1x-999",
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload snapshot to s3: %w", err)
	}
	return key, nil
}
