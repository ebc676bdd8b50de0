package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T) *User {
	user, err := NewActiveUser("jdoe", "Secret123")
	require.NoError(t, err)
	return user
}

// ============================================
// User Creation Tests
// ============================================

func TestNewUser(t *testing.T) {
	t.Run("creates pending user with hashed password", func(t *testing.T) {
		user, err := NewUser("jdoe", "Secret123")
		require.NoError(t, err)
		assert.Equal(t, "jdoe", user.Username)
		assert.Equal(t, UserStatusPending, user.Status)
		assert.NotEqual(t, "Secret123", user.PasswordHash)
		assert.True(t, user.VerifyPassword("Secret123"))
		assert.False(t, user.VerifyPassword("WrongPass1"))
	})

	t.Run("rejects short username", func(t *testing.T) {
		_, err := NewUser("ab", "Secret123")
		assert.Error(t, err)
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		for _, password := range []string{"short1", "alllowercase", "12345678"} {
			_, err := NewUser("jdoe", password)
			assert.Error(t, err, "password %q should be rejected", password)
		}
	})
}

// ============================================
// Password Tests
// ============================================

func TestUser_ChangePassword(t *testing.T) {
	t.Run("changes password with correct old password", func(t *testing.T) {
		user := createTestUser(t)
		err := user.ChangePassword("Secret123", "NewSecret456")
		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("NewSecret456"))
		assert.False(t, user.VerifyPassword("Secret123"))
	})

	t.Run("rejects wrong old password", func(t *testing.T) {
		user := createTestUser(t)
		err := user.ChangePassword("WrongOld1", "NewSecret456")
		assert.Error(t, err)
	})
}

func TestUser_ForcePasswordChange(t *testing.T) {
	user := createTestUser(t)
	assert.False(t, user.MustChangePassword)

	user.ForcePasswordChange()
	assert.True(t, user.MustChangePassword)

	require.NoError(t, user.SetPassword("NewSecret456"))
	assert.False(t, user.MustChangePassword)
}

// ============================================
// Role Assignment Tests
// ============================================

func TestUser_Roles(t *testing.T) {
	user := createTestUser(t)
	roleA := uuid.New()
	roleB := uuid.New()

	require.NoError(t, user.AssignRole(roleA))
	assert.True(t, user.HasRole(roleA))

	t.Run("assigning twice fails", func(t *testing.T) {
		err := user.AssignRole(roleA)
		assert.Error(t, err)
	})

	t.Run("set roles replaces the assignment", func(t *testing.T) {
		require.NoError(t, user.SetRoles([]uuid.UUID{roleB}))
		assert.False(t, user.HasRole(roleA))
		assert.True(t, user.HasRole(roleB))
	})

	t.Run("removes role", func(t *testing.T) {
		require.NoError(t, user.RemoveRole(roleB))
		assert.False(t, user.HasRole(roleB))
	})
}

// ============================================
// Status and Login Tests
// ============================================

func TestUser_StatusTransitions(t *testing.T) {
	t.Run("pending user can be activated", func(t *testing.T) {
		user, err := NewUser("jdoe", "Secret123")
		require.NoError(t, err)

		require.NoError(t, user.Activate())
		assert.True(t, user.IsActive())
		assert.True(t, user.CanLogin())
	})

	t.Run("deactivated user cannot login", func(t *testing.T) {
		user := createTestUser(t)
		require.NoError(t, user.Deactivate())
		assert.True(t, user.IsDeactivated())
		assert.False(t, user.CanLogin())
	})
}

func TestUser_Lockout(t *testing.T) {
	const maxAttempts = 5
	lockDuration := 30 * time.Minute

	t.Run("locks after repeated failures", func(t *testing.T) {
		user := createTestUser(t)

		for i := 0; i < maxAttempts-1; i++ {
			locked := user.RecordLoginFailure(maxAttempts, lockDuration)
			assert.False(t, locked)
		}
		locked := user.RecordLoginFailure(maxAttempts, lockDuration)
		assert.True(t, locked)
		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())
	})

	t.Run("successful login resets the counter", func(t *testing.T) {
		user := createTestUser(t)
		user.RecordLoginFailure(maxAttempts, lockDuration)
		user.RecordLoginFailure(maxAttempts, lockDuration)

		user.RecordLoginSuccess("10.0.0.5")
		assert.Equal(t, 0, user.FailedAttempts)
		assert.Equal(t, "10.0.0.5", user.LastLoginIP)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("expired lock allows login again", func(t *testing.T) {
		user := createTestUser(t)
		past := time.Now().Add(-time.Minute)
		user.Status = UserStatusLocked
		user.LockedUntil = &past

		assert.False(t, user.IsLocked())
	})

	t.Run("unlock clears the lock", func(t *testing.T) {
		user := createTestUser(t)
		require.NoError(t, user.Lock(lockDuration))
		assert.True(t, user.IsLocked())

		require.NoError(t, user.Unlock())
		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})
}

// ============================================
// Profile Tests
// ============================================

func TestUser_Profile(t *testing.T) {
	user := createTestUser(t)

	t.Run("sets valid email", func(t *testing.T) {
		require.NoError(t, user.SetEmail("jdoe@pawmart.example"))
		assert.Equal(t, "jdoe@pawmart.example", user.Email)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		err := user.SetEmail("not-an-email")
		assert.Error(t, err)
	})

	t.Run("full name falls back to username", func(t *testing.T) {
		assert.Equal(t, "jdoe", user.GetFullNameOrUsername())
		require.NoError(t, user.SetFullName("Jamie Doe"))
		assert.Equal(t, "Jamie Doe", user.GetFullNameOrUsername())
	})

	t.Run("assigns home store", func(t *testing.T) {
		storeID := uuid.New()
		user.AssignStore(&storeID)
		require.NotNil(t, user.StoreID)
		assert.Equal(t, storeID, *user.StoreID)
	})
}
