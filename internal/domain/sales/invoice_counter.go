package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/backend/internal/domain/shared"
)

// InvoiceCounter tracks the last issued invoice sequence for a store and period
// One row per store per month, incremented under a row lock so that invoice
// numbers are unique and gapless within the month
type InvoiceCounter struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StoreID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_counters_store_period" json:"store_id"`
	Period    string    `gorm:"type:varchar(6);not null;uniqueIndex:idx_invoice_counters_store_period" json:"period"`
	LastValue int64     `gorm:"not null;default:0" json:"last_value"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName returns the database table name
func (InvoiceCounter) TableName() string {
	return "invoice_counters"
}

// NewInvoiceCounter creates a counter for a store and period starting at zero
func NewInvoiceCounter(storeID uuid.UUID, period string) (*InvoiceCounter, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	now := time.Now()
	return &InvoiceCounter{
		ID:        uuid.New(),
		StoreID:   storeID,
		Period:    period,
		LastValue: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Next increments the counter and returns the new sequence value
func (c *InvoiceCounter) Next() int64 {
	c.LastValue++
	c.UpdatedAt = time.Now()
	return c.LastValue
}

// PeriodFor formats a time as an invoice period, YYYYMM
func PeriodFor(t time.Time) string {
	return t.Format("200601")
}

// FormatInvoiceNumber builds an invoice number from its parts
// Format is INV-<storecode>-<period>-<sequence>, for example INV-NYC01-202608-0042
func FormatInvoiceNumber(storeCode, period string, sequence int64) string {
	return fmt.Sprintf("INV-%s-%s-%04d", storeCode, period, sequence)
}

func validatePeriod(period string) error {
	if len(period) != 6 {
		return shared.NewDomainError("INVALID_PERIOD", "Period must be in YYYYMM format")
	}
	if _, err := time.Parse("200601", period); err != nil {
		return shared.NewDomainError("INVALID_PERIOD", "Period must be in YYYYMM format")
	}
	return nil
}
