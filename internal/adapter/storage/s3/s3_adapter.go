package s3

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/devhermez/full-stack-sneakup/internal/app/config"
	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const productImagePrefix = "products/"

type Storage struct {
	client  *minio.Client
	bucket  string
	baseURL string
	log     logger.Logger
}

func NewStorage(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		log.Infof("Created storage bucket %s", cfg.Bucket)
	}

	baseURL := strings.TrimRight(cfg.PublicURL, "/")
	if baseURL == "" {
		baseURL = client.EndpointURL().String() + "/" + cfg.Bucket
	}

	return &Storage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
		log:     log,
	}, nil
}

// ObjectKey names an uploaded product image, keeping the original extension.
func ObjectKey(originalName string) string {
	return productImagePrefix + uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
}

// Upload stores an image and returns its public URL.
func (s *Storage) Upload(ctx context.Context, originalName, contentType string, body io.Reader, size int64) (string, error) {
	key := ObjectKey(originalName)

	info, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.bucket, err)
	}
	s.log.Infof("Uploaded product image %s (%d bytes)", info.Key, info.Size)

	return s.baseURL + "/" + key, nil
}
