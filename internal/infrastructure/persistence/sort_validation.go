package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"full_name":     true,
	"status":        true,
	"last_login_at": true,
}

// RoleSortFields contains allowed sort fields for roles
var RoleSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"code":           true,
	"name":           true,
	"sort_order":     true,
	"is_enabled":     true,
	"is_system_role": true,
}

// StoreSortFields contains allowed sort fields for stores
var StoreSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"type":       true,
	"status":     true,
	"region_id":  true,
}

// RegionSortFields contains allowed sort fields for regions
var RegionSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"sku":           true,
	"name":          true,
	"category_id":   true,
	"brand_id":      true,
	"status":        true,
	"cost_price":    true,
	"selling_price": true,
	"min_stock":     true,
	"barcode":       true,
}

// CategorySortFields contains allowed sort fields for categories
var CategorySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"parent_id":  true,
	"sort_order": true,
}

// BrandSortFields contains allowed sort fields for brands
var BrandSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"code":           true,
	"name":           true,
	"phone":          true,
	"status":         true,
	"loyalty_points": true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"name":          true,
	"contact_name":  true,
	"status":        true,
	"payment_terms": true,
}

// InventorySortFields contains allowed sort fields for inventory items
var InventorySortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"store_id":          true,
	"product_id":        true,
	"on_hand_quantity":  true,
	"reserved_quantity": true,
	"last_counted_at":   true,
}

// MovementSortFields contains allowed sort fields for stock movements
var MovementSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"store_id":   true,
	"product_id": true,
	"type":       true,
	"quantity":   true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"order_number":   true,
	"supplier_id":    true,
	"supplier_name":  true,
	"store_id":       true,
	"status":         true,
	"total_amount":   true,
	"payable_amount": true,
	"expected_date":  true,
	"confirmed_at":   true,
	"completed_at":   true,
}

// TransferSortFields contains allowed sort fields for transfer requests
var TransferSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"transfer_number": true,
	"source_store_id": true,
	"dest_store_id":   true,
	"status":          true,
	"approved_at":     true,
	"completed_at":    true,
}

// SalesSortFields contains allowed sort fields for sales transactions
var SalesSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"store_id":       true,
	"customer_id":    true,
	"cashier_id":     true,
	"status":         true,
	"total_amount":   true,
	"sold_at":        true,
}
