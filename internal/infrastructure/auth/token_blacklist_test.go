package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_JTI(t *testing.T) {
	bl := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	t.Run("unknown jti is not blacklisted", func(t *testing.T) {
		blacklisted, err := bl.IsBlacklisted(ctx, "unknown-jti")
		require.NoError(t, err)
		assert.False(t, blacklisted)
	})

	t.Run("added jti is blacklisted", func(t *testing.T) {
		require.NoError(t, bl.AddToBlacklist(ctx, "jti-1", time.Minute))

		blacklisted, err := bl.IsBlacklisted(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, blacklisted)
	})

	t.Run("expired entry is dropped", func(t *testing.T) {
		require.NoError(t, bl.AddToBlacklist(ctx, "jti-2", -time.Second))

		blacklisted, err := bl.IsBlacklisted(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, blacklisted)
	})
}

func TestInMemoryTokenBlacklist_UserInvalidation(t *testing.T) {
	bl := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	t.Run("user without invalidation keeps tokens valid", func(t *testing.T) {
		invalidated, err := bl.IsUserTokenInvalidated(ctx, "user-1", time.Now())
		require.NoError(t, err)
		assert.False(t, invalidated)
	})

	t.Run("tokens issued before invalidation are rejected", func(t *testing.T) {
		issuedAt := time.Now()
		time.Sleep(time.Millisecond)
		require.NoError(t, bl.AddUserTokensToBlacklist(ctx, "user-2", time.Hour))

		invalidated, err := bl.IsUserTokenInvalidated(ctx, "user-2", issuedAt)
		require.NoError(t, err)
		assert.True(t, invalidated)
	})

	t.Run("tokens issued after invalidation stay valid", func(t *testing.T) {
		require.NoError(t, bl.AddUserTokensToBlacklist(ctx, "user-3", time.Hour))
		time.Sleep(time.Millisecond)

		invalidated, err := bl.IsUserTokenInvalidated(ctx, "user-3", time.Now())
		require.NoError(t, err)
		assert.False(t, invalidated)
	})
}
