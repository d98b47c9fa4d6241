// Package storage puts uploaded images into a blob store and returns their
// public download URL.
package storage

import (
	"context"
	"fmt"
	"io"

	"instaclone-backend/config"
)

// Object is an upload body with its metadata.
type Object struct {
	Body        io.Reader
	Size        int64
	ContentType string
}

// BlobStore writes an object under key and returns a URL clients can fetch.
type BlobStore interface {
	Put(ctx context.Context, key string, obj Object) (string, error)
}

// New picks the driver named by cfg.StorageDriver.
func New(ctx context.Context, cfg config.Config) (BlobStore, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocalStorage(cfg.LocalStoragePath, cfg.BackendURL+"/uploads")
	case "s3":
		return NewS3Client(cfg.S3Region, cfg.S3Bucket)
	case "gcs":
		return NewGCSClient(ctx, cfg.GCSProjectID, cfg.GCSBucketName, cfg.GCSCredentialsFile)
	case "minio":
		return NewMinioClient(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
