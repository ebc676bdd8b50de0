package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================
// Sort Order Validation Tests
// ============================================

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "asc lowercase", input: "asc", expected: "ASC"},
		{name: "asc uppercase", input: "ASC", expected: "ASC"},
		{name: "asc with spaces", input: "  asc  ", expected: "ASC"},
		{name: "desc lowercase", input: "desc", expected: "DESC"},
		{name: "empty defaults to desc", input: "", expected: "DESC"},
		{name: "injection attempt defaults to desc", input: "asc; DROP TABLE users", expected: "DESC"},
		{name: "garbage defaults to desc", input: "sideways", expected: "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

// ============================================
// Sort Field Validation Tests
// ============================================

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		allowed  map[string]bool
		fallback string
		expected string
	}{
		{name: "allowed field passes", input: "created_at", allowed: CommonSortFields, fallback: "id", expected: "created_at"},
		{name: "empty returns default", input: "", allowed: CommonSortFields, fallback: "id", expected: "id"},
		{name: "unknown field returns default", input: "password_hash", allowed: UserSortFields, fallback: "created_at", expected: "created_at"},
		{name: "injection attempt returns default", input: "id; DELETE FROM sales_transactions", allowed: SalesSortFields, fallback: "sold_at", expected: "sold_at"},
		{name: "whitespace trimmed", input: "  username  ", allowed: UserSortFields, fallback: "", expected: "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, tt.allowed, tt.fallback))
		})
	}
}

func TestSortFieldWhitelists(t *testing.T) {
	t.Run("sales whitelist excludes free text columns", func(t *testing.T) {
		assert.False(t, SalesSortFields["void_reason"])
		assert.True(t, SalesSortFields["invoice_number"])
	})

	t.Run("user whitelist excludes password hash", func(t *testing.T) {
		assert.False(t, UserSortFields["password_hash"])
		assert.True(t, UserSortFields["username"])
	})
}
