package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vidtube-api/config"
)

// NewFromConfig builds the uploader for cfg.MediaDriver.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*Uploader, error) {
	if cfg.MediaBucket == "" {
		return nil, fmt.Errorf("MEDIA_BUCKET is required")
	}
	var (
		backend Backend
		base    string
	)
	switch cfg.MediaDriver {
	case "gcs", "":
		client, err := NewGCSClient(ctx, cfg.GCSCredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("gcs client: %w", err)
		}
		backend, base = NewGCS(client, cfg.MediaBucket), GCSPublicBase(cfg.MediaBucket)
	case "minio":
		m, err := NewMinio(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MediaBucket)
		if err != nil {
			return nil, err
		}
		if err := m.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		backend, base = m, MinioPublicBase(cfg.MinioEndpoint, cfg.MinioUseSSL, cfg.MediaBucket)
	case "s3":
		s, err := NewS3(ctx, cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.MediaBucket)
		if err != nil {
			return nil, err
		}
		backend, base = s, S3PublicBase(cfg.S3Endpoint, cfg.S3Region, cfg.MediaBucket)
	default:
		return nil, fmt.Errorf("unknown MEDIA_DRIVER %q", cfg.MediaDriver)
	}
	if cfg.MediaPublicBaseURL != "" {
		base = cfg.MediaPublicBaseURL
	}
	logger.WithFields(logrus.Fields{"driver": cfg.MediaDriver, "bucket": cfg.MediaBucket}).Info("media storage ready")
	return NewUploader(backend, Options{
		BaseURL:  base,
		Timeout:  cfg.MediaUploadTimeout,
		MaxTries: cfg.MediaUploadRetries,
		Logger:   logger,
	}), nil
}
