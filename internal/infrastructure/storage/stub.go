package storage

import (
	"context"
	"errors"
	"time"

	catalogapp "github.com/pawmart/backend/internal/application/catalog"
)

// StubImageStorage is used when object storage is disabled in configuration.
// URLs it produces are not usable for actual transfers.
type StubImageStorage struct {
	// BaseURL is the base URL for generated links
	BaseURL string
}

// NewStubImageStorage creates a new StubImageStorage
func NewStubImageStorage() *StubImageStorage {
	return &StubImageStorage{
		BaseURL: "https://storage.invalid",
	}
}

// Ensure StubImageStorage implements ImageStorage
var _ catalogapp.ImageStorage = (*StubImageStorage)(nil)

// GenerateUploadURL returns a placeholder upload URL
func (s *StubImageStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/upload/" + storageKey, expiresAt, nil
}

// GenerateDownloadURL returns a placeholder download URL
func (s *StubImageStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/download/" + storageKey, expiresAt, nil
}

// DeleteObject is a no-op
func (s *StubImageStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}

// ObjectExists reports true so confirmation flows keep working in development
func (s *StubImageStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	return true, nil
}
