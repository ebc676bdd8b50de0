package sales

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pawmart/backend/internal/domain/sales"
)

const receiptWidth = 40

var receiptTitleCaser = cases.Title(language.English)

// RenderReceipt produces a fixed-width plain-text receipt for a transaction
func (s *SalesService) RenderReceipt(ctx context.Context, transactionID uuid.UUID) (string, error) {
	txn, err := s.salesRepo.FindByID(ctx, transactionID)
	if err != nil {
		return "", err
	}

	sellingStore, err := s.storeRepo.FindByID(ctx, txn.StoreID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	divider := strings.Repeat("-", receiptWidth)

	writeCentered(&b, receiptTitleCaser.String(sellingStore.Name))
	writeCentered(&b, "Store "+sellingStore.Code)
	b.WriteString(divider + "\n")
	fmt.Fprintf(&b, "Invoice: %s\n", txn.InvoiceNumber)
	fmt.Fprintf(&b, "Date:    %s\n", txn.SoldAt.Format("2006-01-02 15:04"))
	if txn.IsVoided() {
		writeCentered(&b, "*** VOIDED ***")
	}
	b.WriteString(divider + "\n")

	for _, item := range txn.Items {
		b.WriteString(truncate(item.ProductName, receiptWidth) + "\n")
		left := fmt.Sprintf("  %s x %s", item.Quantity.String(), item.UnitPrice.StringFixed(2))
		right := item.Amount.StringFixed(2)
		b.WriteString(padBetween(left, right) + "\n")
	}

	b.WriteString(divider + "\n")
	b.WriteString(padBetween("Subtotal", txn.Subtotal.StringFixed(2)) + "\n")
	if !txn.DiscountAmount.IsZero() {
		b.WriteString(padBetween("Discount", "-"+txn.DiscountAmount.StringFixed(2)) + "\n")
	}
	if !txn.TaxAmount.IsZero() {
		b.WriteString(padBetween("Tax", txn.TaxAmount.StringFixed(2)) + "\n")
	}
	b.WriteString(padBetween("TOTAL", txn.TotalAmount.StringFixed(2)) + "\n")
	paidLabel := "Paid (" + receiptTitleCaser.String(string(txn.PaymentMethod)) + ")"
	b.WriteString(padBetween(paidLabel, txn.PaidAmount.StringFixed(2)) + "\n")
	if txn.PaymentMethod == sales.PaymentMethodCash {
		b.WriteString(padBetween("Change", txn.ChangeAmount.StringFixed(2)) + "\n")
	}

	b.WriteString(divider + "\n")
	writeCentered(&b, "Thank you for shopping with us!")

	return b.String(), nil
}

// Widths are counted in runes, not bytes: product and store names are
// not guaranteed to be ASCII.
func writeCentered(b *strings.Builder, text string) {
	text = truncate(text, receiptWidth)
	pad := (receiptWidth - utf8.RuneCountInString(text)) / 2
	if pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(text + "\n")
}

func padBetween(left, right string) string {
	gap := receiptWidth - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func truncate(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max-1]) + "…"
}
