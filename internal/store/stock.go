package store

import "github.com/erdalnejdet/MYE-aydinlatma-be/internal/models"

// Stock thresholds: zero is out of stock, ten or fewer is low.
const lowStockThreshold = 10

// StockStatusFor derives the tri-state stock label from a quantity.
func StockStatusFor(quantity int) string {
	switch {
	case quantity <= 0:
		return models.StockOutOfStock
	case quantity <= lowStockThreshold:
		return models.StockLowStock
	default:
		return models.StockInStock
	}
}

// AdjustStock computes the post-decrement quantity and status for a
// requested purchase. ok is false when current stock cannot cover the
// request; in that case the inputs are returned unchanged.
func AdjustStock(current, requested int) (newQuantity int, newStatus string, ok bool) {
	if requested < 0 || current < requested {
		return current, StockStatusFor(current), false
	}
	newQuantity = current - requested
	return newQuantity, StockStatusFor(newQuantity), true
}
