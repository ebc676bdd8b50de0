package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/store"
)

// =============================================================================
// Store DTOs
// =============================================================================

// CreateStoreRequest represents a request to create a new store
type CreateStoreRequest struct {
	Code        string     `json:"code" binding:"required,min=1,max=50"`
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	Type        string     `json:"type" binding:"required,oneof=retail dc"`
	RegionID    *uuid.UUID `json:"region_id"`
	ManagerName string     `json:"manager_name" binding:"max=100"`
	Phone       string     `json:"phone" binding:"max=50"`
	Email       string     `json:"email" binding:"omitempty,email,max=200"`
	Address     string     `json:"address" binding:"max=500"`
	City        string     `json:"city" binding:"max=100"`
	PostalCode  string     `json:"postal_code" binding:"max=20"`
	Notes       string     `json:"notes"`
}

// UpdateStoreRequest represents a request to update a store
type UpdateStoreRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=200"`
	RegionID    *uuid.UUID `json:"region_id"`
	ClearRegion bool       `json:"clear_region"`
	ManagerName *string    `json:"manager_name" binding:"omitempty,max=100"`
	Phone       *string    `json:"phone" binding:"omitempty,max=50"`
	Email       *string    `json:"email" binding:"omitempty,email,max=200"`
	Address     *string    `json:"address" binding:"omitempty,max=500"`
	City        *string    `json:"city" binding:"omitempty,max=100"`
	PostalCode  *string    `json:"postal_code" binding:"omitempty,max=20"`
	Notes       *string    `json:"notes"`
}

// StoreResponse represents a store in API responses
type StoreResponse struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	RegionID    *uuid.UUID `json:"region_id,omitempty"`
	ManagerName string     `json:"manager_name"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	PostalCode  string     `json:"postal_code"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// StoreListFilter represents filter options for store list
type StoreListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=active inactive"`
	Type     string     `form:"type" binding:"omitempty,oneof=retail dc"`
	RegionID *uuid.UUID `form:"region_id"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToStoreResponse converts a domain Store to StoreResponse
func ToStoreResponse(s *store.Store) StoreResponse {
	return StoreResponse{
		ID:          s.ID,
		Code:        s.Code,
		Name:        s.Name,
		Type:        string(s.Type),
		Status:      string(s.Status),
		RegionID:    s.RegionID,
		ManagerName: s.ManagerName,
		Phone:       s.Phone,
		Email:       s.Email,
		Address:     s.Address,
		City:        s.City,
		PostalCode:  s.PostalCode,
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		Version:     s.Version,
	}
}

// ToStoreResponses converts a slice of domain Stores
func ToStoreResponses(stores []store.Store) []StoreResponse {
	responses := make([]StoreResponse, len(stores))
	for i := range stores {
		responses[i] = ToStoreResponse(&stores[i])
	}
	return responses
}

// =============================================================================
// Region DTOs
// =============================================================================

// CreateRegionRequest represents a request to create a new region
type CreateRegionRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=50"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description"`
}

// UpdateRegionRequest represents a request to update a region
type UpdateRegionRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
}

// RegionResponse represents a region in API responses
type RegionResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// RegionListFilter represents filter options for region list
type RegionListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToRegionResponse converts a domain Region to RegionResponse
func ToRegionResponse(r *store.Region) RegionResponse {
	return RegionResponse{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     r.Version,
	}
}

// ToRegionResponses converts a slice of domain Regions
func ToRegionResponses(regions []store.Region) []RegionResponse {
	responses := make([]RegionResponse, len(regions))
	for i := range regions {
		responses[i] = ToRegionResponse(&regions[i])
	}
	return responses
}
