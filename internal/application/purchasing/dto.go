package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawmart/backend/internal/domain/purchasing"
)

// CreatePurchaseOrderRequest represents the request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID   uuid.UUID                        `json:"supplier_id" binding:"required"`
	StoreID      uuid.UUID                        `json:"store_id" binding:"required"`
	Items        []CreatePurchaseOrderItemRequest `json:"items"`
	Discount     *decimal.Decimal                 `json:"discount,omitempty"`
	ExpectedDate *time.Time                       `json:"expected_date,omitempty"`
	Remark       string                           `json:"remark,omitempty" binding:"max=500"`
}

// CreatePurchaseOrderItemRequest represents one line of a create request
type CreatePurchaseOrderItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// UpdatePurchaseOrderRequest represents the request to update a draft order
type UpdatePurchaseOrderRequest struct {
	Discount     *decimal.Decimal `json:"discount,omitempty"`
	ExpectedDate *time.Time       `json:"expected_date,omitempty"`
	Remark       *string          `json:"remark,omitempty"`
}

// AddItemRequest represents the request to add a line item to a draft order
type AddItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// UpdateItemRequest represents the request to update a line item
type UpdateItemRequest struct {
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
}

// ReceiveRequest represents a goods receipt against a confirmed order
type ReceiveRequest struct {
	Items []ReceiveItemRequest `json:"items" binding:"required,min=1"`
	Note  string               `json:"note,omitempty" binding:"max=500"`
}

// ReceiveItemRequest represents one line of a goods receipt
type ReceiveItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// CancelRequest represents the request to cancel an order
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// PurchaseOrderItemResponse represents a line item in responses
type PurchaseOrderItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductSKU        string          `json:"product_sku"`
	Unit              string          `json:"unit"`
	OrderedQuantity   decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	Amount            decimal.Decimal `json:"amount"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID              uuid.UUID                   `json:"id"`
	OrderNumber     string                      `json:"order_number"`
	SupplierID      uuid.UUID                   `json:"supplier_id"`
	SupplierName    string                      `json:"supplier_name"`
	StoreID         uuid.UUID                   `json:"store_id"`
	Items           []PurchaseOrderItemResponse `json:"items"`
	TotalAmount     decimal.Decimal             `json:"total_amount"`
	DiscountAmount  decimal.Decimal             `json:"discount_amount"`
	PayableAmount   decimal.Decimal             `json:"payable_amount"`
	Status          string                      `json:"status"`
	ReceiveProgress decimal.Decimal             `json:"receive_progress"`
	ExpectedDate    *time.Time                  `json:"expected_date,omitempty"`
	Remark          string                      `json:"remark,omitempty"`
	CreatedBy       uuid.UUID                   `json:"created_by"`
	ConfirmedAt     *time.Time                  `json:"confirmed_at,omitempty"`
	CompletedAt     *time.Time                  `json:"completed_at,omitempty"`
	CancelledAt     *time.Time                  `json:"cancelled_at,omitempty"`
	CancelReason    string                      `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
	Version         int                         `json:"version"`
}

// PurchaseOrderListItemResponse is the slim shape used in list endpoints
type PurchaseOrderListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	StoreID       uuid.UUID       `json:"store_id"`
	ItemCount     int             `json:"item_count"`
	PayableAmount decimal.Decimal `json:"payable_amount"`
	Status        string          `json:"status"`
	ExpectedDate  *time.Time      `json:"expected_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ReceiveResultResponse represents the outcome of a goods receipt
type ReceiveResultResponse struct {
	Order           PurchaseOrderResponse  `json:"order"`
	ReceivedItems   []ReceivedItemResponse `json:"received_items"`
	IsFullyReceived bool                   `json:"is_fully_received"`
}

// ReceivedItemResponse represents one received line in a receipt result
type ReceivedItemResponse struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Unit        string          `json:"unit"`
}

// ActionResponse represents an audit trail entry for an order
type ActionResponse struct {
	ID         uuid.UUID `json:"id"`
	Action     string    `json:"action"`
	ActorID    uuid.UUID `json:"actor_id"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status,omitempty"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PurchaseOrderListFilter represents filtering options for listing orders
type PurchaseOrderListFilter struct {
	Search     string     `form:"search"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	StoreID    *uuid.UUID `form:"store_id"`
	Status     string     `form:"status"`
	StartDate  *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate    *time.Time `form:"end_date" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// ToPurchaseOrderItemResponse converts a domain line item to a response DTO
func ToPurchaseOrderItemResponse(item *purchasing.PurchaseOrderItem) PurchaseOrderItemResponse {
	return PurchaseOrderItemResponse{
		ID:                item.ID,
		ProductID:         item.ProductID,
		ProductName:       item.ProductName,
		ProductSKU:        item.ProductSKU,
		Unit:              item.Unit,
		OrderedQuantity:   item.OrderedQuantity,
		ReceivedQuantity:  item.ReceivedQuantity,
		RemainingQuantity: item.RemainingQuantity(),
		UnitCost:          item.UnitCost,
		Amount:            item.Amount,
	}
}

// ToPurchaseOrderResponse converts a domain purchase order to a response DTO
func ToPurchaseOrderResponse(order *purchasing.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(order.Items))
	for i := range order.Items {
		items[i] = ToPurchaseOrderItemResponse(&order.Items[i])
	}

	return PurchaseOrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
		StoreID:         order.StoreID,
		Items:           items,
		TotalAmount:     order.TotalAmount,
		DiscountAmount:  order.DiscountAmount,
		PayableAmount:   order.PayableAmount,
		Status:          order.Status.String(),
		ReceiveProgress: order.ReceiveProgress(),
		ExpectedDate:    order.ExpectedDate,
		Remark:          order.Remark,
		CreatedBy:       order.CreatedBy,
		ConfirmedAt:     order.ConfirmedAt,
		CompletedAt:     order.CompletedAt,
		CancelledAt:     order.CancelledAt,
		CancelReason:    order.CancelReason,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
		Version:         order.Version,
	}
}

// ToPurchaseOrderListItemResponse converts a domain order to the slim list DTO
func ToPurchaseOrderListItemResponse(order *purchasing.PurchaseOrder) PurchaseOrderListItemResponse {
	return PurchaseOrderListItemResponse{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		SupplierID:    order.SupplierID,
		SupplierName:  order.SupplierName,
		StoreID:       order.StoreID,
		ItemCount:     len(order.Items),
		PayableAmount: order.PayableAmount,
		Status:        order.Status.String(),
		ExpectedDate:  order.ExpectedDate,
		CreatedAt:     order.CreatedAt,
	}
}

// ToPurchaseOrderListItemResponses converts a slice of domain orders to list DTOs
func ToPurchaseOrderListItemResponses(orders []*purchasing.PurchaseOrder) []PurchaseOrderListItemResponse {
	responses := make([]PurchaseOrderListItemResponse, len(orders))
	for i, order := range orders {
		responses[i] = ToPurchaseOrderListItemResponse(order)
	}
	return responses
}

// ToReceivedItemResponses converts domain receipt info to response DTOs
func ToReceivedItemResponses(infos []purchasing.ReceivedItemInfo) []ReceivedItemResponse {
	responses := make([]ReceivedItemResponse, len(infos))
	for i, info := range infos {
		responses[i] = ReceivedItemResponse{
			ItemID:      info.ItemID,
			ProductID:   info.ProductID,
			ProductName: info.ProductName,
			ProductSKU:  info.ProductSKU,
			Quantity:    info.Quantity,
			UnitCost:    info.UnitCost,
			Unit:        info.Unit,
		}
	}
	return responses
}

// ToActionResponses converts domain audit records to response DTOs
func ToActionResponses(actions []*purchasing.PurchaseOrderAction) []ActionResponse {
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
