package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Username           string              `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email              string              `gorm:"type:varchar(200)"`
	Phone              string              `gorm:"type:varchar(50)"`
	PasswordHash       string              `gorm:"type:varchar(255);not null"`
	FullName           string              `gorm:"type:varchar(200)"`
	Status             identity.UserStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	StoreID            *uuid.UUID          `gorm:"type:uuid;index"`
	LastLoginAt        *time.Time          `gorm:"index"`
	LastLoginIP        string              `gorm:"type:varchar(45)"`
	FailedAttempts     int                 `gorm:"not null;default:0"`
	LockedUntil        *time.Time
	PasswordChangedAt  *time.Time
	MustChangePassword bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
// Note: RoleIDs must be loaded separately by the repository.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		Username:           m.Username,
		Email:              m.Email,
		Phone:              m.Phone,
		PasswordHash:       m.PasswordHash,
		FullName:           m.FullName,
		Status:             m.Status,
		StoreID:            m.StoreID,
		RoleIDs:            make([]uuid.UUID, 0), // Loaded separately
		LastLoginAt:        m.LastLoginAt,
		LastLoginIP:        m.LastLoginIP,
		FailedAttempts:     m.FailedAttempts,
		LockedUntil:        m.LockedUntil,
		PasswordChangedAt:  m.PasswordChangedAt,
		MustChangePassword: m.MustChangePassword,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.Phone = u.Phone
	m.PasswordHash = u.PasswordHash
	m.FullName = u.FullName
	m.Status = u.Status
	m.StoreID = u.StoreID
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
	m.PasswordChangedAt = u.PasswordChangedAt
	m.MustChangePassword = u.MustChangePassword
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// UserRoleModel is the persistence model for the UserRole relationship.
type UserRoleModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserRoleModel) TableName() string {
	return "user_roles"
}

// ToDomain converts the persistence model to a domain UserRole.
func (m *UserRoleModel) ToDomain() identity.UserRole {
	return identity.UserRole{
		UserID:    m.UserID,
		RoleID:    m.RoleID,
		CreatedAt: m.CreatedAt,
	}
}

// RoleModel is the persistence model for the Role domain entity.
type RoleModel struct {
	AggregateModel
	Code         string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(100);not null"`
	Description  string `gorm:"type:text"`
	IsSystemRole bool   `gorm:"not null;default:false"`
	IsEnabled    bool   `gorm:"not null;default:true"`
	SortOrder    int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (RoleModel) TableName() string {
	return "roles"
}

// ToDomain converts the persistence model to a domain Role entity.
// Note: Permissions must be loaded separately by the repository.
func (m *RoleModel) ToDomain() *identity.Role {
	return &identity.Role{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Description:       m.Description,
		IsSystemRole:      m.IsSystemRole,
		IsEnabled:         m.IsEnabled,
		SortOrder:         m.SortOrder,
		Permissions:       make([]identity.Permission, 0),
	}
}

// FromDomain populates the persistence model from a domain Role entity.
func (m *RoleModel) FromDomain(r *identity.Role) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Code = r.Code
	m.Name = r.Name
	m.Description = r.Description
	m.IsSystemRole = r.IsSystemRole
	m.IsEnabled = r.IsEnabled
	m.SortOrder = r.SortOrder
}

// RoleModelFromDomain creates a new persistence model from a domain Role entity.
func RoleModelFromDomain(r *identity.Role) *RoleModel {
	m := &RoleModel{}
	m.FromDomain(r)
	return m
}

// RolePermissionModel is the persistence model for role permissions.
type RolePermissionModel struct {
	RoleID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code        string    `gorm:"type:varchar(100);primaryKey"`
	Module      string    `gorm:"type:varchar(50);not null;index"`
	Action      string    `gorm:"type:varchar(50);not null"`
	Description string    `gorm:"type:varchar(200)"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RolePermissionModel) TableName() string {
	return "role_permissions"
}

// ToDomain converts the persistence model to a domain Permission.
func (m *RolePermissionModel) ToDomain() identity.Permission {
	return identity.Permission{
		Code:        m.Code,
		Module:      m.Module,
		Action:      m.Action,
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain Permission.
func (m *RolePermissionModel) FromDomain(roleID uuid.UUID, p identity.Permission) {
	m.RoleID = roleID
	m.Code = p.Code
	m.Module = p.Module
	m.Action = p.Action
	m.Description = p.Description
	m.CreatedAt = time.Now()
}
