package service

import "github.com/trananhduc/fashion_shop/internal/models"

// ComputeTotal prices an order from a snapshot of its line items and the
// flat voucher discount. Pure: same snapshot in, same total out. The
// result never goes below zero.
func ComputeTotal(items []models.OrderItem, discount int64) int64 {
	var subtotal int64
	for _, it := range items {
		subtotal += it.UnitPrice * it.Quantity
	}
	total := subtotal - discount
	if total < 0 {
		return 0
	}
	return total
}
