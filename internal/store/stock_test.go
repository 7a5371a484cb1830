package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/models"
)

func TestStockStatusFor(t *testing.T) {
	tests := []struct {
		quantity int
		want     string
	}{
		{0, models.StockOutOfStock},
		{-1, models.StockOutOfStock},
		{1, models.StockLowStock},
		{10, models.StockLowStock},
		{11, models.StockInStock},
		{500, models.StockInStock},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StockStatusFor(tt.quantity), "quantity %d", tt.quantity)
	}
}

func TestAdjustStock(t *testing.T) {
	tests := []struct {
		name         string
		current      int
		requested    int
		wantQuantity int
		wantStatus   string
		wantOK       bool
	}{
		{"drains to zero", 3, 3, 0, models.StockOutOfStock, true},
		{"drops into low stock", 5, 3, 2, models.StockLowStock, true},
		{"stays in stock", 50, 10, 40, models.StockInStock, true},
		{"exact low boundary", 20, 10, 10, models.StockLowStock, true},
		{"insufficient", 2, 3, 2, models.StockLowStock, false},
		{"zero stock", 0, 1, 0, models.StockOutOfStock, false},
		{"negative request rejected", 5, -1, 5, models.StockLowStock, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotQuantity, gotStatus, ok := AdjustStock(tt.current, tt.requested)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantQuantity, gotQuantity)
			assert.Equal(t, tt.wantStatus, gotStatus)
		})
	}
}
