package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPatchAssignmentsEmpty(t *testing.T) {
	sets, args := patchAssignments(ProductPatch{})
	assert.Empty(t, sets)
	assert.Empty(t, args)
}

func TestPatchAssignmentsSingleField(t *testing.T) {
	name := "Philips LED Panel"
	sets, args := patchAssignments(ProductPatch{Name: &name})

	assert.Equal(t, []string{"name = $1"}, sets)
	assert.Equal(t, []interface{}{name}, args)
}

func TestPatchAssignmentsStockQuantityDerivesStatus(t *testing.T) {
	qty := 7
	sets, args := patchAssignments(ProductPatch{StockQuantity: &qty})

	assert.Equal(t, []string{"stock_quantity = $1", "stock_status = $2"}, sets)
	assert.Equal(t, []interface{}{7, "low_stock"}, args)
}

func TestPatchAssignmentsPlaceholderNumbering(t *testing.T) {
	name := "Spot"
	price := decimal.NewFromFloat(129.90)
	qty := 0
	sets, args := patchAssignments(ProductPatch{
		Name:          &name,
		Price:         &price,
		StockQuantity: &qty,
	})

	assert.Equal(t, []string{
		"name = $1",
		"price = $2",
		"stock_quantity = $3",
		"stock_status = $4",
	}, sets)
	assert.Len(t, args, 4)
	assert.Equal(t, "out_of_stock", args[3])
}
