package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pawmart/backend/internal/infrastructure/auth"
	"github.com/pawmart/backend/internal/infrastructure/config"
)

// TestJWTSecret is the signing secret used by test tokens.
const TestJWTSecret = "test-secret-for-signing-tokens-only"

// NewTestJWTService returns a JWT service configured for tests.
func NewTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 TestJWTSecret,
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "pawmart-test",
	})
}

// TokenOption mutates the token input before signing.
type TokenOption func(*auth.GenerateTokenInput)

// WithStore scopes the token to a store.
func WithStore(storeID uuid.UUID) TokenOption {
	return func(in *auth.GenerateTokenInput) {
		in.StoreID = &storeID
	}
}

// WithRoles sets the role codes carried by the token.
func WithRoles(codes ...string) TokenOption {
	return func(in *auth.GenerateTokenInput) {
		in.RoleCodes = codes
	}
}

// WithPermissions sets the module:action permissions carried by the token.
func WithPermissions(perms ...string) TokenOption {
	return func(in *auth.GenerateTokenInput) {
		in.Permissions = perms
	}
}

// NewAccessToken signs an access token for the given user using the test
// JWT service.
func NewAccessToken(t *testing.T, svc *auth.JWTService, userID uuid.UUID, username string, opts ...TokenOption) string {
	t.Helper()

	input := auth.GenerateTokenInput{
		UserID:   userID,
		Username: username,
	}
	for _, opt := range opts {
		opt(&input)
	}

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err, "failed to generate token pair")
	return pair.AccessToken
}

// SetAuthHeader attaches a Bearer token to the request.
func SetAuthHeader(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}

// AuthHeaderFor signs a token for the user and returns the headers map
// ready for an HTTPTestCase.
func AuthHeaderFor(t *testing.T, svc *auth.JWTService, userID uuid.UUID, username string, opts ...TokenOption) map[string]string {
	t.Helper()

	token := NewAccessToken(t, svc, userID, username, opts...)
	return map[string]string{"Authorization": "Bearer " + token}
}
