package identity

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawmart/backend/internal/domain/identity"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/infrastructure/auth"
	"github.com/pawmart/backend/internal/infrastructure/config"
)

// AuthService handles authentication and session lifecycle
type AuthService struct {
	userRepo   identity.UserRepository
	roleRepo   identity.RoleRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     config.AuthConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	cfg config.AuthConfig,
	logger *zap.Logger,
) *AuthService {
	if cfg.MaxLoginAttempts <= 0 {
		cfg.MaxLoginAttempts = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     cfg,
		logger:     logger,
	}
}

// Login authenticates a user and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		s.logger.Warn("login for unknown username", zap.String("username", req.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.CanLogin() {
		switch {
		case user.IsLocked():
			s.logger.Warn("login for locked account", zap.String("username", req.Username))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Try again later or contact an administrator")
		case user.IsDeactivated():
			return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
		default:
			return nil, shared.NewDomainError("ACCOUNT_PENDING", "Account is pending activation")
		}
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockoutDuration)
		if updateErr := s.userRepo.Update(ctx, user); updateErr != nil {
			s.logger.Error("failed to persist login failure", zap.Error(updateErr))
		}

		if locked {
			s.logger.Warn("account locked after repeated failures",
				zap.String("username", req.Username),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if err := s.userRepo.LoadUserRoles(ctx, user); err != nil {
		s.logger.Error("failed to load user roles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user roles")
	}

	roleCodes, permissions, err := s.collectGrants(ctx, user.RoleIDs)
	if err != nil {
		s.logger.Error("failed to collect permissions", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user permissions")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:      user.ID,
		Username:    user.Username,
		StoreID:     user.StoreID,
		RoleCodes:   roleCodes,
		Permissions: permissions,
	})
	if err != nil {
		s.logger.Error("failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLoginSuccess(req.IP)
	if err := s.userRepo.Update(ctx, user); err != nil {
		// Login already succeeded; only the bookkeeping failed
		s.logger.Error("failed to record login success", zap.Error(err))
	}

	s.logger.Info("user logged in",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()))

	return &LoginResponse{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User:                  ToUserResponse(user),
		Permissions:           permissions,
	}, nil
}

// Refresh validates a refresh token and issues a fresh token pair.
// Permissions are reloaded so role changes take effect without re-login.
func (s *AuthService) Refresh(ctx context.Context, req RefreshTokenRequest) (*TokenPairResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		switch err {
		case auth.ErrExpiredToken:
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		default:
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
	}

	if err := s.checkRevocation(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	if err := s.userRepo.LoadUserRoles(ctx, user); err != nil {
		s.logger.Error("failed to load user roles on refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user roles")
	}

	roleCodes, permissions, err := s.collectGrants(ctx, user.RoleIDs)
	if err != nil {
		s.logger.Error("failed to collect permissions on refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user permissions")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:      user.ID,
		Username:    user.Username,
		StoreID:     user.StoreID,
		RoleCodes:   roleCodes,
		Permissions: permissions,
	})
	if err != nil {
		s.logger.Error("failed to generate token pair on refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	// Revoke the consumed refresh token so it cannot be replayed
	if s.blacklist != nil && claims.ID != "" {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Error("failed to revoke consumed refresh token", zap.Error(err))
		}
	}

	return &TokenPairResponse{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout revokes the presented tokens for the rest of their lifetime
func (s *AuthService) Logout(ctx context.Context, req LogoutRequest) error {
	if s.blacklist == nil {
		return nil
	}

	if req.AccessToken != "" {
		if claims, err := s.jwtService.ValidateAccessToken(req.AccessToken); err == nil && claims.ID != "" {
			if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
				s.logger.Error("failed to revoke access token", zap.Error(err))
				return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke token")
			}
		}
	}

	if req.RefreshToken != "" {
		if claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken); err == nil && claims.ID != "" {
			if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
				s.logger.Error("failed to revoke refresh token", zap.Error(err))
				return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke token")
			}
		}
	}

	return nil
}

// LogoutAllSessions invalidates every outstanding token for a user
func (s *AuthService) LogoutAllSessions(ctx context.Context, userID uuid.UUID) error {
	if s.blacklist == nil {
		return nil
	}

	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), ttl); err != nil {
		s.logger.Error("failed to invalidate user sessions", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to invalidate sessions")
	}

	s.logger.Info("all sessions invalidated", zap.String("user_id", userID.String()))
	return nil
}

// GetCurrentUser returns the authenticated user's profile and effective permissions
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*CurrentUserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := s.userRepo.LoadUserRoles(ctx, user); err != nil {
		s.logger.Error("failed to load user roles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user roles")
	}

	_, permissions, err := s.collectGrants(ctx, user.RoleIDs)
	if err != nil {
		s.logger.Error("failed to collect permissions", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user permissions")
	}

	return &CurrentUserResponse{
		User:        ToUserResponse(user),
		Permissions: permissions,
	}, nil
}

// ChangePassword changes the caller's own password after verifying the old one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("failed to persist password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	// Old tokens keep working until they expire unless all sessions are dropped
	if err := s.LogoutAllSessions(ctx, userID); err != nil {
		s.logger.Warn("password changed but session invalidation failed", zap.Error(err))
	}

	s.logger.Info("password changed", zap.String("user_id", userID.String()))
	return nil
}

// checkRevocation rejects tokens that were individually revoked or swept by a
// user-wide invalidation
func (s *AuthService) checkRevocation(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil {
		return nil
	}

	if claims.ID != "" {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Error("blacklist lookup failed", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to validate token")
		}
		if revoked {
			return shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
		}
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		s.logger.Error("user invalidation lookup failed", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to validate token")
	}
	if invalidated {
		return shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	}

	return nil
}

// collectGrants gathers role codes and the union of permissions across the
// user's enabled roles
func (s *AuthService) collectGrants(ctx context.Context, roleIDs []uuid.UUID) ([]string, []string, error) {
	if len(roleIDs) == 0 {
		return []string{}, []string{}, nil
	}

	roles, err := s.roleRepo.FindByIDs(ctx, roleIDs)
	if err != nil {
		return nil, nil, err
	}

	roleCodes := make([]string, 0, len(roles))
	permSet := make(map[string]struct{})
	for _, role := range roles {
		if !role.IsEnabled {
			continue
		}
		if err := s.roleRepo.LoadPermissions(ctx, role); err != nil {
			s.logger.Warn("failed to load role permissions",
				zap.String("role_id", role.ID.String()),
				zap.Error(err))
			continue
		}
		roleCodes = append(roleCodes, role.Code)
		for _, perm := range role.Permissions {
			permSet[perm.Code] = struct{}{}
		}
	}

	permissions := make([]string, 0, len(permSet))
	for perm := range permSet {
		permissions = append(permissions, perm)
	}
	sort.Strings(permissions)

	return roleCodes, permissions, nil
}
