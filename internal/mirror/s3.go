package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// s3Mirror stores the snapshot document as a single JSON object in S3, keyed
// by installation id.
type s3Mirror struct {
	client *s3.Client
	bucket string
	key    string
	logger zerolog.Logger
}

// NewS3Mirror creates an S3-backed snapshot mirror scoped to one installation.
func NewS3Mirror(ctx context.Context, bucket, region, prefix, installationID string, logger zerolog.Logger) (Mirror, error) {
	logger = logger.With().Str("component", "s3-mirror").Logger()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	key := prefix + installationID + ".json"
	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("key", key).
		Msg("S3 mirror initialised")

	return &s3Mirror{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger,
	}, nil
}

// Available probes the bucket. Network or permission failures make the mirror
// unavailable; callers then skip reconciliation without touching local state.
func (m *s3Mirror) Available(ctx context.Context) bool {
	_, err := m.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(m.bucket),
	})
	if err != nil {
		m.logger.Debug().Err(err).Str("bucket", m.bucket).Msg("mirror unavailable")
		return false
	}
	return true
}

// Read fetches the snapshot document, or nil when none has been written yet.
func (m *s3Mirror) Read(ctx context.Context) (*Document, error) {
	result, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(m.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		m.logger.Error().Err(err).Str("key", m.key).Msg("failed to get snapshot from S3")
		return nil, fmt.Errorf("failed to get snapshot (bucket=%s, key=%s): %w", m.bucket, m.key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot body: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		m.logger.Error().Err(err).Str("key", m.key).Msg("malformed snapshot document")
		return nil, fmt.Errorf("malformed snapshot document %s: %w", m.key, err)
	}

	return &doc, nil
}

// Write replaces the snapshot document.
func (m *s3Mirror) Write(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(m.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		m.logger.Error().Err(err).Str("key", m.key).Msg("failed to put snapshot to S3")
		return fmt.Errorf("failed to put snapshot (bucket=%s, key=%s): %w", m.bucket, m.key, err)
	}

	m.logger.Debug().
		Str("key", m.key).
		Int("items", len(doc.Items)).
		Int64("last_modified", doc.LastModified).
		Msg("snapshot uploaded")

	return nil
}
