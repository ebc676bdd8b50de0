package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Code    string `json:"code" binding:"omitempty,min=1,max=50"`
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Address string `json:"address" binding:"max=500"`
	Notes   string `json:"notes"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Email   *string `json:"email" binding:"omitempty,email,max=200"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Notes   *string `json:"notes"`
}

// AdjustPointsRequest represents a manual loyalty point adjustment
type AdjustPointsRequest struct {
	Delta  int64  `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	LoyaltyPoints int64           `json:"loyalty_points"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	JoinedAt      time.Time       `json:"joined_at"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search      string `form:"search"`
	Status      string `form:"status" binding:"omitempty,oneof=active inactive"`
	MinPoints   *int64 `form:"min_points"`
	JoinedAfter string `form:"joined_after"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:            c.ID,
		Code:          c.Code,
		Name:          c.Name,
		Phone:         c.Phone,
		Email:         c.Email,
		Address:       c.Address,
		LoyaltyPoints: c.LoyaltyPoints,
		TotalSpent:    c.TotalSpent,
		JoinedAt:      c.JoinedAt,
		Status:        string(c.Status),
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		Version:       c.Version,
	}
}

// ToCustomerResponses converts a slice of domain Customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}

// =============================================================================
// Supplier DTOs
// =============================================================================

// CreateSupplierRequest represents a request to create a new supplier
type CreateSupplierRequest struct {
	Code             string `json:"code" binding:"required,min=1,max=50"`
	Name             string `json:"name" binding:"required,min=1,max=200"`
	ContactName      string `json:"contact_name" binding:"max=100"`
	Phone            string `json:"phone" binding:"max=50"`
	Email            string `json:"email" binding:"omitempty,email,max=200"`
	Address          string `json:"address" binding:"max=500"`
	PaymentTermsDays *int   `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
	Notes            string `json:"notes"`
}

// UpdateSupplierRequest represents a request to update a supplier
type UpdateSupplierRequest struct {
	Name             *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactName      *string `json:"contact_name" binding:"omitempty,max=100"`
	Phone            *string `json:"phone" binding:"omitempty,max=50"`
	Email            *string `json:"email" binding:"omitempty,email,max=200"`
	Address          *string `json:"address" binding:"omitempty,max=500"`
	PaymentTermsDays *int    `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
	Notes            *string `json:"notes"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID               uuid.UUID `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	ContactName      string    `json:"contact_name"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	Address          string    `json:"address"`
	PaymentTermsDays int       `json:"payment_terms_days"`
	Status           string    `json:"status"`
	Notes            string    `json:"notes"`
	SortOrder        int       `json:"sort_order"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Version          int       `json:"version"`
}

// SupplierListFilter represents filter options for supplier list
type SupplierListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:               s.ID,
		Code:             s.Code,
		Name:             s.Name,
		ContactName:      s.ContactName,
		Phone:            s.Phone,
		Email:            s.Email,
		Address:          s.Address,
		PaymentTermsDays: s.PaymentTermsDays,
		Status:           string(s.Status),
		Notes:            s.Notes,
		SortOrder:        s.SortOrder,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
		Version:          s.Version,
	}
}

// ToSupplierResponses converts a slice of domain Suppliers
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses
}
