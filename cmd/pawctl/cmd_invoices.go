package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/sales"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var recountInvoicesCmd = &cobra.Command{
	Use:   "recount-invoices",
	Short: "Rebuild invoice counters from issued invoice numbers",
	Long:  "Scans every sales transaction and raises each store's per-month invoice counter to the highest sequence actually issued. Counters are never lowered, so this is safe to run on a live system.",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := boot()
		if err != nil {
			return err
		}
		defer app.Close()

		return recountInvoices(cmd.Context(), app)
	},
}

type counterKey struct {
	storeID uuid.UUID
	period  string
}

func recountInvoices(ctx context.Context, app *appContext) error {
	var rows []struct {
		StoreID       uuid.UUID
		InvoiceNumber string
	}
	if err := app.db.DB.WithContext(ctx).
		Model(&sales.SalesTransaction{}).
		Select("store_id", "invoice_number").
		Find(&rows).Error; err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	// Highest sequence seen per store and month. Voided transactions keep
	// their invoice number, so they count toward the high-water mark too.
	maxSeq := make(map[counterKey]int64)
	skipped := 0
	for _, row := range rows {
		period, seq, ok := parseInvoiceNumber(row.InvoiceNumber)
		if !ok {
			skipped++
			continue
		}
		key := counterKey{storeID: row.StoreID, period: period}
		if seq > maxSeq[key] {
			maxSeq[key] = seq
		}
	}
	if skipped > 0 {
		app.log.Warn("Some invoice numbers could not be parsed", zap.Int("count", skipped))
	}

	repaired := 0
	err := app.db.Transaction(func(tx *gorm.DB) error {
		for key, seq := range maxSeq {
			var counter sales.InvoiceCounter
			err := tx.Where("store_id = ? AND period = ?", key.storeID, key.period).
				First(&counter).Error
			if err == gorm.ErrRecordNotFound {
				created, cerr := sales.NewInvoiceCounter(key.storeID, key.period)
				if cerr != nil {
					return cerr
				}
				created.LastValue = seq
				if err := tx.Create(created).Error; err != nil {
					return err
				}
				repaired++
				continue
			}
			if err != nil {
				return err
			}
			if counter.LastValue < seq {
				if err := tx.Model(&counter).Update("last_value", seq).Error; err != nil {
					return err
				}
				repaired++
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("repair counters: %w", err)
	}

	app.log.Info("Invoice counters recounted",
		zap.Int("counters_checked", len(maxSeq)),
		zap.Int("counters_repaired", repaired),
	)
	return nil
}

// parseInvoiceNumber extracts the period and sequence from a number shaped
// like INV-<storecode>-<YYYYMM>-<seq>. Store codes may contain dashes, so
// the period and sequence are taken from the right.
func parseInvoiceNumber(number string) (string, int64, bool) {
	parts := strings.Split(number, "-")
	if len(parts) < 4 || parts[0] != "INV" {
		return "", 0, false
	}
	period := parts[len(parts)-2]
	if len(period) != 6 {
		return "", 0, false
	}
	seq, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil || seq <= 0 {
		return "", 0, false
	}
	return period, seq, true
}
