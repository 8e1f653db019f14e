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

// CommonSortFields contains fields common to every table
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name_en":    true,
	"name_bn":    true,
	"price":      true,
	"stock":      true,
	"featured":   true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_code":   true,
	"status":       true,
	"total_amount": true,
}

// productSortAliases maps API sort names onto product columns
var productSortAliases = map[string]string{
	"name":      "name_en",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// orderSortAliases maps API sort names onto order columns
var orderSortAliases = map[string]string{
	"code":        "order_code",
	"orderId":     "order_code",
	"total":       "total_amount",
	"totalAmount": "total_amount",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

// resolveSortField applies aliases before validating against allowed
func resolveSortField(sortField string, aliases map[string]string, allowed map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if column, ok := aliases[trimmed]; ok {
		trimmed = column
	}
	return ValidateSortField(trimmed, allowed, defaultField)
}
