// Package archive stores intake photos in S3.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive uploads photos to a bucket under a dated prefix
type S3Archive struct {
	client putObjectAPI
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3Archive loads the default AWS configuration for region
func NewS3Archive(ctx context.Context, bucket, region, prefix string) (*S3Archive, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	slog.Info("Intake photo archive enabled", "bucket", bucket, "prefix", prefix)
	return &S3Archive{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}, nil
}

// Store uploads the photo and returns its object key
func (a *S3Archive) Store(ctx context.Context, data []byte, mimeType string) (string, error) {
	ext := ".bin"
	if exts, _ := mime.ExtensionsByType(mimeType); len(exts) > 0 {
		ext = exts[0]
	}
	key := path.Join(a.prefix, a.now().UTC().Format("2006/01/02"), uuid.NewString()+ext)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return key, nil
}
