package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentCounter tracks the last issued sequence for a document scope and
// period. One row per scope per month, incremented under a row lock so that
// document numbers are unique even under concurrent creates.
type documentCounter struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Scope     string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_document_counters_scope_period"`
	Period    string    `gorm:"type:varchar(6);not null;uniqueIndex:idx_document_counters_scope_period"`
	LastValue int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (documentCounter) TableName() string {
	return "document_counters"
}

// nextDocumentNumber allocates the next number for a scope ("PO", "TR") at
// the given time. Format: <scope>-YYYYMM-NNNN, e.g. PO-202608-0001.
// The counter row is locked FOR UPDATE, so concurrent creates serialize on
// it and every sequence value is handed out exactly once.
func nextDocumentNumber(ctx context.Context, db *gorm.DB, scope string, at time.Time) (string, error) {
	period := at.Format("200601")
	var number string

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter documentCounter
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("scope = ? AND period = ?", scope, period).
			First(&counter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			now := time.Now()
			created := &documentCounter{
				ID:        uuid.New(),
				Scope:     scope,
				Period:    period,
				CreatedAt: now,
				UpdatedAt: now,
			}
			// A concurrent create may insert the same counter row first.
			// The unique index turns this into a no-op; re-read under lock.
			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "scope"}, {Name: "period"}},
				DoNothing: true,
			}).Create(created)
			if result.Error != nil {
				return result.Error
			}
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("scope = ? AND period = ?", scope, period).
				First(&counter).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		counter.LastValue++
		counter.UpdatedAt = time.Now()
		if err := tx.Model(&documentCounter{}).
			Where("id = ?", counter.ID).
			Updates(map[string]interface{}{
				"last_value": counter.LastValue,
				"updated_at": counter.UpdatedAt,
			}).Error; err != nil {
			return err
		}

		number = fmt.Sprintf("%s-%s-%04d", scope, period, counter.LastValue)
		return nil
	})
	if err != nil {
		return "", err
	}
	return number, nil
}
