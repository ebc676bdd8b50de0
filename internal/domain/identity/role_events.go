package identity

import (
	"github.com/pawmart/backend/internal/domain/shared"
)

// Aggregate type constant for Role
const AggregateTypeRole = "Role"

// Role domain event types
const (
	EventTypeRoleCreated           = "RoleCreated"
	EventTypeRolePermissionGranted = "RolePermissionGranted"
	EventTypeRolePermissionRevoked = "RolePermissionRevoked"
)

// RoleCreatedEvent is published when a role is created
type RoleCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewRoleCreatedEvent creates a new RoleCreatedEvent
func NewRoleCreatedEvent(role *Role) *RoleCreatedEvent {
	return &RoleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoleCreated, AggregateTypeRole, role.ID),
		Code:            role.Code,
		Name:            role.Name,
	}
}

// RolePermissionGrantedEvent is published when a permission is granted to a role
type RolePermissionGrantedEvent struct {
	shared.BaseDomainEvent
	RoleCode       string `json:"role_code"`
	PermissionCode string `json:"permission_code"`
}

// NewRolePermissionGrantedEvent creates a new RolePermissionGrantedEvent
func NewRolePermissionGrantedEvent(role *Role, perm Permission) *RolePermissionGrantedEvent {
	return &RolePermissionGrantedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRolePermissionGranted, AggregateTypeRole, role.ID),
		RoleCode:        role.Code,
		PermissionCode:  perm.Code,
	}
}

// RolePermissionRevokedEvent is published when a permission is revoked from a role
type RolePermissionRevokedEvent struct {
	shared.BaseDomainEvent
	RoleCode       string `json:"role_code"`
	PermissionCode string `json:"permission_code"`
}

// NewRolePermissionRevokedEvent creates a new RolePermissionRevokedEvent
func NewRolePermissionRevokedEvent(role *Role, perm Permission) *RolePermissionRevokedEvent {
	return &RolePermissionRevokedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRolePermissionRevoked, AggregateTypeRole, role.ID),
		RoleCode:        role.Code,
		PermissionCode:  perm.Code,
	}
}
