package service

import "github.com/trananhduc/fashion_shop/internal/models"

// CanMutate gates order and line-item mutations: staff and admin always,
// the owner only while the order is still pending.
func CanMutate(p models.Principal, order *models.Order) bool {
	if p.IsStaff() {
		return true
	}
	return order.UserID == p.UserID && order.Status == models.StatusPending
}

// CanTransition gates status transitions: staff and admin only.
func CanTransition(p models.Principal) bool {
	return p.IsStaff()
}
