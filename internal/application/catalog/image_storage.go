package catalog

import (
	"context"
	"time"
)

// ImageStorage abstracts the object store holding product images.
// Implementations live in infrastructure/storage.
type ImageStorage interface {
	// GenerateUploadURL generates a presigned URL for uploading an image.
	// Returns the upload URL and its expiration time.
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading an image.
	// Returns the download URL and its expiration time.
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an image from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an image exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}
