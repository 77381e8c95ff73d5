package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trananhduc/fashion_shop/internal/models"
)

func TestComputeTotal(t *testing.T) {
	t.Parallel()

	twoItems := []models.OrderItem{
		{ProductID: 1, Quantity: 2, UnitPrice: 100},
		{ProductID: 2, Quantity: 1, UnitPrice: 50},
	}

	tests := []struct {
		name     string
		items    []models.OrderItem
		discount int64
		want     int64
	}{
		{name: "no voucher", items: twoItems, discount: 0, want: 250},
		{name: "flat discount", items: twoItems, discount: 80, want: 170},
		{name: "discount larger than subtotal floors at zero", items: twoItems, discount: 500, want: 0},
		{name: "no items", items: nil, discount: 0, want: 0},
		{name: "no items with discount", items: nil, discount: 10, want: 0},
		{name: "exact discount", items: twoItems, discount: 250, want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ComputeTotal(tt.items, tt.discount))
		})
	}
}

func TestComputeTotal_Idempotent(t *testing.T) {
	t.Parallel()

	items := []models.OrderItem{
		{ProductID: 1, Quantity: 3, UnitPrice: 99},
		{ProductID: 2, Quantity: 7, UnitPrice: 15},
	}

	first := ComputeTotal(items, 40)
	second := ComputeTotal(items, 40)
	assert.Equal(t, first, second)
}
