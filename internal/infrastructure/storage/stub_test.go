package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubImageStorage(t *testing.T) {
	stub := NewStubImageStorage()
	ctx := context.Background()

	t.Run("upload URL includes the storage key", func(t *testing.T) {
		url, expiresAt, err := stub.GenerateUploadURL(ctx, "products/abc/main.jpg", "image/jpeg", time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "products/abc/main.jpg")
		assert.True(t, expiresAt.After(time.Now()))
	})

	t.Run("download URL includes the storage key", func(t *testing.T) {
		url, _, err := stub.GenerateDownloadURL(ctx, "products/abc/main.jpg", time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "products/abc/main.jpg")
	})

	t.Run("empty storage key rejected", func(t *testing.T) {
		_, _, err := stub.GenerateUploadURL(ctx, "", "image/jpeg", time.Minute)
		assert.Error(t, err)

		_, _, err = stub.GenerateDownloadURL(ctx, "", time.Minute)
		assert.Error(t, err)

		assert.Error(t, stub.DeleteObject(ctx, ""))

		_, err = stub.ObjectExists(ctx, "")
		assert.Error(t, err)
	})

	t.Run("delete and exists succeed", func(t *testing.T) {
		assert.NoError(t, stub.DeleteObject(ctx, "products/abc/main.jpg"))

		exists, err := stub.ObjectExists(ctx, "products/abc/main.jpg")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestNewS3ImageStorage_Validation(t *testing.T) {
	_, err := NewS3ImageStorage(nil)
	assert.Error(t, err)
}
