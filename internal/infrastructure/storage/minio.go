package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

// ObjectStore stores uploaded artifacts and returns a URL the
// speech-to-text provider can fetch them from
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (string, error)
}

// MinIOClient wraps MinIO operations
type MinIOClient struct {
	client    *minio.Client
	bucket    string
	publicURL string // Public URL for generating accessible URLs (e.g., https://minio.example.com)
	urlExpiry time.Duration
	logger    *zap.Logger
}

// NewMinIOClient creates a new MinIO client and makes sure the bucket exists
func NewMinIOClient(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (*MinIOClient, error) {
	client, err := newMinIOClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := client.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return client, nil
}

func newMinIOClient(cfg *config.StorageConfig, logger *zap.Logger) (*MinIOClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	return &MinIOClient{
		client:    minioClient,
		bucket:    cfg.BucketName,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		urlExpiry: expiry,
		logger:    logger,
	}, nil
}

// ensureBucket creates the bucket when missing. Objects stay private;
// the transcription provider reads them through presigned URLs.
func (m *MinIOClient) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		if m.logger != nil {
			m.logger.Info("🪣 created storage bucket", zap.String("bucket", m.bucket))
		}
	}
	return nil
}

// Put uploads data under key and returns a presigned GET URL for it
func (m *MinIOClient) Put(ctx context.Context, key string, data []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	info, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	if m.logger != nil {
		m.logger.Info("📦 uploaded object",
			zap.String("bucket", m.bucket),
			zap.String("key", key),
			zap.Int64("size", info.Size),
		)
	}

	return m.GetFileURL(ctx, key)
}

// GetFileURL gets a presigned URL for accessing an object
func (m *MinIOClient) GetFileURL(ctx context.Context, key string) (string, error) {
	presigned, err := m.client.PresignedGetObject(ctx, m.bucket, key, m.urlExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	// Swap the internal endpoint for the public one when MinIO sits behind a proxy
	if m.publicURL != "" {
		return m.publicURL + presigned.RequestURI(), nil
	}
	return presigned.String(), nil
}

// AudioObjectKey builds the storage key for an uploaded audio file:
// audio/<actor>/<yyyy>/<mm>/<uuid><ext>
func AudioObjectKey(actorID, filename string, now time.Time) string {
	if actorID == "" {
		actorID = "anonymous"
	}
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("audio/%s/%s/%s%s", actorID, now.UTC().Format("2006/01"), uuid.NewString(), ext)
}
