package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawmart/backend/internal/domain/transfer"
)

// CreateTransferRequest represents the request to create a transfer request
type CreateTransferRequest struct {
	SourceStoreID uuid.UUID                   `json:"source_store_id" binding:"required"`
	DestStoreID   uuid.UUID                   `json:"dest_store_id" binding:"required"`
	Items         []CreateTransferItemRequest `json:"items" binding:"required,min=1"`
	Reason        string                      `json:"reason,omitempty" binding:"max=500"`
}

// CreateTransferItemRequest represents one line of a create request
type CreateTransferItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// AddItemRequest represents the request to add a line to a pending transfer
type AddItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// ApproveTransferRequest represents the approval of a pending transfer.
// Quantities may reduce individual lines below the requested amount; lines
// absent from the list are approved in full.
type ApproveTransferRequest struct {
	Quantities []ApprovedQuantityRequest `json:"quantities,omitempty"`
	Note       string                    `json:"note,omitempty" binding:"max=500"`
}

// ApprovedQuantityRequest overrides the approved quantity for one product
type ApprovedQuantityRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// CompleteTransferRequest represents the execution of an approved transfer.
// Items may record a receipt below the approved quantity; lines absent from
// the list count as received in full.
type CompleteTransferRequest struct {
	Items []ReceivedQuantityRequest `json:"items,omitempty"`
	Note  string                    `json:"note,omitempty" binding:"max=500"`
}

// ReceivedQuantityRequest records the quantity that arrived for one product
type ReceivedQuantityRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// RejectTransferRequest represents the rejection of a pending transfer
type RejectTransferRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// CancelTransferRequest represents the cancellation of an approved transfer
type CancelTransferRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// TransferItemResponse represents a line item in responses
type TransferItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductSKU        string          `json:"product_sku"`
	Unit              string          `json:"unit"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	ApprovedQuantity  decimal.Decimal `json:"approved_quantity"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
}

// TransferResponse represents a transfer request in API responses
type TransferResponse struct {
	ID             uuid.UUID              `json:"id"`
	TransferNumber string                 `json:"transfer_number"`
	SourceStoreID  uuid.UUID              `json:"source_store_id"`
	DestStoreID    uuid.UUID              `json:"dest_store_id"`
	Items          []TransferItemResponse `json:"items"`
	Status         string                 `json:"status"`
	Reason         string                 `json:"reason,omitempty"`
	RequestedBy    uuid.UUID              `json:"requested_by"`
	ApprovedBy     *uuid.UUID             `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time             `json:"approved_at,omitempty"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`
	RejectedAt     *time.Time             `json:"rejected_at,omitempty"`
	RejectReason   string                 `json:"reject_reason,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason   string                 `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Version        int                    `json:"version"`
}

// TransferListItemResponse is the slim shape used in list endpoints
type TransferListItemResponse struct {
	ID             uuid.UUID `json:"id"`
	TransferNumber string    `json:"transfer_number"`
	SourceStoreID  uuid.UUID `json:"source_store_id"`
	DestStoreID    uuid.UUID `json:"dest_store_id"`
	ItemCount      int       `json:"item_count"`
	Status         string    `json:"status"`
	RequestedBy    uuid.UUID `json:"requested_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// ActionResponse represents an audit trail entry for a transfer
type ActionResponse struct {
	ID         uuid.UUID `json:"id"`
	Action     string    `json:"action"`
	ActorID    uuid.UUID `json:"actor_id"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status,omitempty"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// HistoryResponse represents one status change of a transfer
type HistoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	ChangedBy uuid.UUID `json:"changed_by"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TransferListFilter represents filtering options for listing transfers
type TransferListFilter struct {
	Search        string     `form:"search"`
	SourceStoreID *uuid.UUID `form:"source_store_id"`
	DestStoreID   *uuid.UUID `form:"dest_store_id"`
	Status        string     `form:"status"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir"`
}

// ToTransferItemResponse converts a domain line item to a response DTO
func ToTransferItemResponse(item *transfer.TransferItem) TransferItemResponse {
	return TransferItemResponse{
		ID:                item.ID,
		ProductID:         item.ProductID,
		ProductName:       item.ProductName,
		ProductSKU:        item.ProductSKU,
		Unit:              item.Unit,
		RequestedQuantity: item.RequestedQuantity,
		ApprovedQuantity:  item.ApprovedQuantity,
		ReceivedQuantity:  item.ReceivedQuantity,
	}
}

// ToTransferResponse converts a domain transfer request to a response DTO
func ToTransferResponse(req *transfer.TransferRequest) TransferResponse {
	items := make([]TransferItemResponse, len(req.Items))
	for i := range req.Items {
		items[i] = ToTransferItemResponse(&req.Items[i])
	}

	return TransferResponse{
		ID:             req.ID,
		TransferNumber: req.TransferNumber,
		SourceStoreID:  req.SourceStoreID,
		DestStoreID:    req.DestStoreID,
		Items:          items,
		Status:         req.Status.String(),
		Reason:         req.Reason,
		RequestedBy:    req.RequestedBy,
		ApprovedBy:     req.ApprovedBy,
		ApprovedAt:     req.ApprovedAt,
		CompletedAt:    req.CompletedAt,
		RejectedAt:     req.RejectedAt,
		RejectReason:   req.RejectReason,
		CancelledAt:    req.CancelledAt,
		CancelReason:   req.CancelReason,
		CreatedAt:      req.CreatedAt,
		UpdatedAt:      req.UpdatedAt,
		Version:        req.Version,
	}
}

// ToTransferListItemResponses converts a slice of domain transfers to list DTOs
func ToTransferListItemResponses(requests []*transfer.TransferRequest) []TransferListItemResponse {
	responses := make([]TransferListItemResponse, len(requests))
	for i, req := range requests {
		responses[i] = TransferListItemResponse{
			ID:             req.ID,
			TransferNumber: req.TransferNumber,
			SourceStoreID:  req.SourceStoreID,
			DestStoreID:    req.DestStoreID,
			ItemCount:      len(req.Items),
			Status:         req.Status.String(),
			RequestedBy:    req.RequestedBy,
			CreatedAt:      req.CreatedAt,
		}
	}
	return responses
}

// ToActionResponses converts domain audit records to response DTOs
func ToActionResponses(actions []*transfer.TransferAction) []ActionResponse {
	responses := make([]ActionResponse, len(actions))
	for i, action := range actions {
		responses[i] = ActionResponse{
			ID:         action.ID,
			Action:     string(action.Action),
			ActorID:    action.ActorID,
			FromStatus: action.FromStatus,
			ToStatus:   action.ToStatus,
			Note:       action.Note,
			CreatedAt:  action.CreatedAt,
		}
	}
	return responses
}

// ToHistoryResponses converts domain history records to response DTOs
func ToHistoryResponses(history []*transfer.TransferHistory) []HistoryResponse {
	responses := make([]HistoryResponse, len(history))
	for i, entry := range history {
		responses[i] = HistoryResponse{
			ID:        entry.ID,
			Status:    entry.Status.String(),
			ChangedBy: entry.ChangedBy,
			Note:      entry.Note,
			CreatedAt: entry.CreatedAt,
		}
	}
	return responses
}
