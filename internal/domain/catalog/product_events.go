package catalog

import (
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Product
const AggregateTypeProduct = "Product"

// Product domain event types
const (
	EventTypeProductCreated      = "ProductCreated"
	EventTypeProductPriceChanged = "ProductPriceChanged"
	EventTypeProductDiscontinued = "ProductDiscontinued"
)

// ProductCreatedEvent is published when a product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	SKU  string `json:"sku"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID),
		SKU:             p.SKU,
		Name:            p.Name,
		Unit:            p.Unit,
	}
}

// ProductPriceChangedEvent is published when a product's prices change
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	SKU             string          `json:"sku"`
	OldCostPrice    decimal.Decimal `json:"old_cost_price"`
	OldSellingPrice decimal.Decimal `json:"old_selling_price"`
	NewCostPrice    decimal.Decimal `json:"new_cost_price"`
	NewSellingPrice decimal.Decimal `json:"new_selling_price"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(p *Product, oldCost, oldSelling decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, AggregateTypeProduct, p.ID),
		SKU:             p.SKU,
		OldCostPrice:    oldCost,
		OldSellingPrice: oldSelling,
		NewCostPrice:    p.CostPrice,
		NewSellingPrice: p.SellingPrice,
	}
}

// ProductDiscontinuedEvent is published when a product is discontinued
type ProductDiscontinuedEvent struct {
	shared.BaseDomainEvent
	SKU string `json:"sku"`
}

// NewProductDiscontinuedEvent creates a new ProductDiscontinuedEvent
func NewProductDiscontinuedEvent(p *Product) *ProductDiscontinuedEvent {
	return &ProductDiscontinuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDiscontinued, AggregateTypeProduct, p.ID),
		SKU:             p.SKU,
	}
}
