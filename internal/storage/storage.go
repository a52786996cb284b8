package storage

import (
	"context"
	"fmt"
	"time"
)

// ArtifactStore handles sweep artifact storage operations
type ArtifactStore interface {
	Upload(ctx context.Context, key string, contentType string, data []byte) error
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
	DownloadFile(ctx context.Context, key string) ([]byte, error)
	DeleteFile(ctx context.Context, key string) error
}

// Artifact content types
const (
	ContentTypePNG  = "image/png"
	ContentTypeCSV  = "text/csv"
	ContentTypeJSON = "application/json"
)

// downloadExpiry is how long pre-signed download URLs stay valid
const downloadExpiry = 24 * time.Hour

// Config holds configuration for the artifact store
type Config struct {
	Backend   string // s3 | minio
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// New creates the artifact store selected by cfg.Backend
func New(ctx context.Context, cfg Config) (ArtifactStore, error) {
	switch cfg.Backend {
	case "", "s3":
		return NewS3Service(ctx, cfg)
	case "minio":
		svc, err := NewMinioService(cfg)
		if err != nil {
			return nil, err
		}
		if err := svc.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

// ArtifactKey returns the object key of a sweep artifact
func ArtifactKey(sweepID, name string) string {
	return fmt.Sprintf("sweeps/%s/%s", sweepID, name)
}

// validateContentType validates that the content type is supported
func validateContentType(contentType string) error {
	validTypes := map[string]bool{
		ContentTypePNG:  true,
		ContentTypeCSV:  true,
		ContentTypeJSON: true,
	}

	if !validTypes[contentType] {
		return fmt.Errorf("invalid content type: %s. Supported types: image/png, text/csv, application/json", contentType)
	}

	return nil
}
