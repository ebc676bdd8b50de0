package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/shared"
)

// Permission represents a functional permission (module:action pattern)
// It is a value object
type Permission struct {
	Code        string // e.g., "products:create"
	Module      string // e.g., "products"
	Action      string // e.g., "create"
	Description string
}

// NewPermission creates a new Permission value object.
// The module and action must both belong to the permission matrix:
// a misspelled code would be grantable but never checked by any route.
func NewPermission(module, action string) (*Permission, error) {
	if err := validatePermissionModule(module); err != nil {
		return nil, err
	}
	if err := validatePermissionAction(action); err != nil {
		return nil, err
	}

	module = strings.ToLower(strings.TrimSpace(module))
	action = strings.ToLower(strings.TrimSpace(action))

	if !IsKnownModule(module) {
		return nil, shared.NewDomainError("UNKNOWN_MODULE", "Permission references an unknown module")
	}
	if !IsKnownAction(module, action) {
		return nil, shared.NewDomainError("UNKNOWN_ACTION", "Permission action is not defined for module "+module)
	}

	return &Permission{
		Code:   module + ":" + action,
		Module: module,
		Action: action,
	}, nil
}

// NewPermissionFromCode creates a Permission from a code string (e.g., "products:create")
func NewPermissionFromCode(code string) (*Permission, error) {
	parts := strings.SplitN(code, ":", 2)
	if len(parts) != 2 {
		return nil, shared.NewDomainError("INVALID_PERMISSION_CODE", "Permission code must be in format 'module:action'")
	}
	return NewPermission(parts[0], parts[1])
}

// Equals checks if two permissions are equal
func (p Permission) Equals(other Permission) bool {
	return p.Code == other.Code
}

// IsEmpty returns true if the permission is empty
func (p Permission) IsEmpty() bool {
	return p.Code == ""
}

// Role represents a role in the RBAC system
// It is the aggregate root for role-related operations
type Role struct {
	shared.BaseAggregateRoot
	Code         string
	Name         string
	Description  string
	IsSystemRole bool // System roles cannot be deleted
	IsEnabled    bool
	SortOrder    int
	Permissions  []Permission // Stored in separate table
}

// RolePermission represents the permission rows persisted for a role
type RolePermission struct {
	RoleID      uuid.UUID
	Code        string
	Module      string
	Action      string
	Description string
	CreatedAt   time.Time
}

// NewRole creates a new role with required fields
func NewRole(code, name string) (*Role, error) {
	if err := validateRoleCode(code); err != nil {
		return nil, err
	}
	if err := validateRoleName(name); err != nil {
		return nil, err
	}

	role := &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
		IsSystemRole:      false,
		IsEnabled:         true,
		Permissions:       make([]Permission, 0),
	}

	role.AddDomainEvent(NewRoleCreatedEvent(role))

	return role, nil
}

// NewSystemRole creates a new system role (cannot be deleted)
func NewSystemRole(code, name string) (*Role, error) {
	role, err := NewRole(code, name)
	if err != nil {
		return nil, err
	}

	role.IsSystemRole = true
	return role, nil
}

// SetName sets the role name
func (r *Role) SetName(name string) error {
	if err := validateRoleName(name); err != nil {
		return err
	}

	r.Name = strings.TrimSpace(name)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetDescription sets the role description
func (r *Role) SetDescription(description string) {
	r.Description = description
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// SetSortOrder sets the sort order for display
func (r *Role) SetSortOrder(order int) {
	r.SortOrder = order
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// Enable enables the role
func (r *Role) Enable() error {
	if r.IsEnabled {
		return shared.NewDomainError("ALREADY_ENABLED", "Role is already enabled")
	}

	r.IsEnabled = true
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// Disable disables the role
func (r *Role) Disable() error {
	if !r.IsEnabled {
		return shared.NewDomainError("ALREADY_DISABLED", "Role is already disabled")
	}

	r.IsEnabled = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// GrantPermission grants a permission to the role
func (r *Role) GrantPermission(perm Permission) error {
	if perm.IsEmpty() {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission cannot be empty")
	}

	for _, p := range r.Permissions {
		if p.Equals(perm) {
			return shared.NewDomainError("PERMISSION_ALREADY_GRANTED", "Role already has this permission")
		}
	}

	r.Permissions = append(r.Permissions, perm)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRolePermissionGrantedEvent(r, perm))

	return nil
}

// GrantPermissionByCode grants a permission by code string
func (r *Role) GrantPermissionByCode(code string) error {
	perm, err := NewPermissionFromCode(code)
	if err != nil {
		return err
	}
	return r.GrantPermission(*perm)
}

// RevokePermission revokes a permission from the role
func (r *Role) RevokePermission(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_PERMISSION_CODE", "Permission code cannot be empty")
	}

	found := false
	newPermissions := make([]Permission, 0, len(r.Permissions))
	var revokedPerm Permission

	for _, p := range r.Permissions {
		if p.Code != code {
			newPermissions = append(newPermissions, p)
		} else {
			found = true
			revokedPerm = p
		}
	}

	if !found {
		return shared.NewDomainError("PERMISSION_NOT_FOUND", "Role does not have this permission")
	}

	r.Permissions = newPermissions
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRolePermissionRevokedEvent(r, revokedPerm))

	return nil
}

// SetPermissions sets all permissions for the role (replaces existing)
func (r *Role) SetPermissions(permissions []Permission) error {
	for _, p := range permissions {
		if p.IsEmpty() {
			return shared.NewDomainError("INVALID_PERMISSION", "Permission cannot be empty")
		}
	}

	// Deduplicate
	seen := make(map[string]bool)
	uniquePerms := make([]Permission, 0, len(permissions))
	for _, p := range permissions {
		if !seen[p.Code] {
			seen[p.Code] = true
			uniquePerms = append(uniquePerms, p)
		}
	}

	r.Permissions = uniquePerms
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// HasPermission checks if the role has a specific permission
func (r *Role) HasPermission(code string) bool {
	for _, p := range r.Permissions {
		if p.Code == code {
			return true
		}
	}
	return false
}

// HasPermissionForModule checks if the role has any permission for a module
func (r *Role) HasPermissionForModule(module string) bool {
	module = strings.ToLower(strings.TrimSpace(module))
	for _, p := range r.Permissions {
		if p.Module == module {
			return true
		}
	}
	return false
}

// GetPermissionsForModule returns all permissions for a specific module
func (r *Role) GetPermissionsForModule(module string) []Permission {
	module = strings.ToLower(strings.TrimSpace(module))
	result := make([]Permission, 0)
	for _, p := range r.Permissions {
		if p.Module == module {
			result = append(result, p)
		}
	}
	return result
}

// CanDelete returns true if the role can be deleted
func (r *Role) CanDelete() bool {
	return !r.IsSystemRole
}

// Update updates the role's basic information
func (r *Role) Update(name, description string) error {
	if err := r.SetName(name); err != nil {
		return err
	}
	r.SetDescription(description)

	return nil
}

// Validation functions

func validateRoleCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code cannot be empty")
	}
	if len(code) < 2 {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code must be at least 2 characters")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code cannot exceed 50 characters")
	}

	codeRegex := regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code must start with a letter and contain only letters, numbers, and underscores")
	}

	return nil
}

func validateRoleName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot exceed 100 characters")
	}
	return nil
}

func validatePermissionModule(module string) error {
	module = strings.TrimSpace(module)
	if module == "" {
		return shared.NewDomainError("INVALID_PERMISSION_MODULE", "Permission module cannot be empty")
	}
	if len(module) > 50 {
		return shared.NewDomainError("INVALID_PERMISSION_MODULE", "Permission module cannot exceed 50 characters")
	}

	moduleRegex := regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	if !moduleRegex.MatchString(strings.ToLower(module)) {
		return shared.NewDomainError("INVALID_PERMISSION_MODULE", "Permission module must start with a letter and contain only lowercase letters, numbers, and underscores")
	}

	return nil
}

func validatePermissionAction(action string) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return shared.NewDomainError("INVALID_PERMISSION_ACTION", "Permission action cannot be empty")
	}
	if len(action) > 50 {
		return shared.NewDomainError("INVALID_PERMISSION_ACTION", "Permission action cannot exceed 50 characters")
	}

	actionRegex := regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	if !actionRegex.MatchString(strings.ToLower(action)) {
		return shared.NewDomainError("INVALID_PERMISSION_ACTION", "Permission action must start with a letter and contain only lowercase letters, numbers, and underscores")
	}

	return nil
}

// Predefined system role codes
const (
	RoleCodeAdmin        = "ADMIN"
	RoleCodeRegionalMgr  = "REGIONAL_MANAGER"
	RoleCodeStoreManager = "STORE_MANAGER"
	RoleCodePurchaser    = "PURCHASER"
	RoleCodeWarehouse    = "WAREHOUSE"
	RoleCodeCashier      = "CASHIER"
)

// Predefined modules
const (
	ModuleProducts       = "products"
	ModuleCategories     = "categories"
	ModuleBrands         = "brands"
	ModuleSuppliers      = "suppliers"
	ModuleCustomers      = "customers"
	ModuleInventory      = "inventory"
	ModulePurchaseOrders = "purchase_orders"
	ModuleTransfers      = "transfers"
	ModuleSales          = "sales"
	ModuleUsers          = "users"
	ModuleRoles          = "roles"
	ModuleStores         = "stores"
	ModuleRegions        = "regions"
	ModuleReports        = "reports"
)

// Predefined actions
const (
	ActionCreate  = "create"
	ActionRead    = "read"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionConfirm = "confirm"
	ActionReceive = "receive"
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionExecute = "execute"
	ActionCancel  = "cancel"
	ActionAdjust  = "adjust"
	ActionVoid    = "void"
)

// KnownModules lists every module a permission can target
var KnownModules = []string{
	ModuleProducts, ModuleCategories, ModuleBrands, ModuleSuppliers,
	ModuleCustomers, ModuleInventory, ModulePurchaseOrders, ModuleTransfers,
	ModuleSales, ModuleUsers, ModuleRoles, ModuleStores, ModuleRegions,
	ModuleReports,
}

var crudActions = []string{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

// ModuleActions maps each module to the actions grantable on it,
// mirroring the permission codes the HTTP routes check
var ModuleActions = map[string][]string{
	ModuleProducts:   {ActionCreate, ActionRead, ActionUpdate},
	ModuleCategories: crudActions,
	ModuleBrands:     crudActions,
	ModuleSuppliers:  crudActions,
	ModuleCustomers:  crudActions,
	ModuleInventory:  {ActionRead, ActionAdjust},
	ModulePurchaseOrders: {
		ActionCreate, ActionRead, ActionUpdate, ActionDelete,
		ActionConfirm, ActionReceive, ActionCancel,
	},
	ModuleTransfers: {
		ActionCreate, ActionRead, ActionUpdate, ActionDelete,
		ActionApprove, ActionReject, ActionExecute, ActionCancel,
	},
	ModuleSales:   {ActionCreate, ActionRead, ActionVoid},
	ModuleUsers:   crudActions,
	ModuleRoles:   crudActions,
	ModuleStores:  crudActions,
	ModuleRegions: crudActions,
	ModuleReports: {ActionRead},
}

// IsKnownModule reports whether the module is part of the permission matrix
func IsKnownModule(module string) bool {
	module = strings.ToLower(strings.TrimSpace(module))
	for _, m := range KnownModules {
		if m == module {
			return true
		}
	}
	return false
}

// IsKnownAction reports whether the action is grantable on the module
func IsKnownAction(module, action string) bool {
	module = strings.ToLower(strings.TrimSpace(module))
	action = strings.ToLower(strings.TrimSpace(action))
	for _, a := range ModuleActions[module] {
		if a == action {
			return true
		}
	}
	return false
}
