package models

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleStaff Role = "STAFF"
	RoleAdmin Role = "ADMIN"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleStaff, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Principal is the authenticated actor attached to every request by the
// auth middleware. The core trusts it and never re-authenticates.
type Principal struct {
	UserID uint
	Role   Role
}

func (p Principal) IsStaff() bool {
	return p.Role == RoleStaff || p.Role == RoleAdmin
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         Role      `gorm:"not null;default:USER"    json:"role"`
	IsActive     bool      `gorm:"not null;default:true"    json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

// Product is one purchasable variant: its own price and its own stock.
// Quantity is only ever mutated through the catalog CRUD and the
// inventory adjuster.
type Product struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string `gorm:"not null"                  json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Size        string `json:"size"`
	Price       int64  `gorm:"not null"                  json:"price"`
	Quantity    int64  `gorm:"not null;default:0"        json:"quantity"`
	CategoryID  uint   `gorm:"index;not null"            json:"category_id"`
}

type Voucher struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code     string `gorm:"unique;not null"          json:"code"`
	Discount int64  `gorm:"not null"                 json:"discount"`
	Quantity int64  `gorm:"not null;default:0"       json:"quantity"`
	IsActive bool   `gorm:"not null;default:true"    json:"is_active"`
}

type Order struct {
	ID        uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint        `gorm:"index;not null"           json:"user_id"`
	Name      string      `json:"name"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
	Note      string      `json:"note"`
	Total     int64       `gorm:"not null"                 json:"total"`
	Status    Status      `gorm:"not null"                 json:"status"`
	VoucherID *uint       `gorm:"index"                    json:"voucher_id,omitempty"`
	Voucher   *Voucher    `json:"voucher,omitempty"`
	Items     []OrderItem `gorm:"foreignKey:OrderID"       json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderItem captures the unit price at the moment the item is added.
// It is never re-read from the catalog afterwards.
type OrderItem struct {
	ID        uint  `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID   uint  `gorm:"index;not null"              json:"order_id"`
	ProductID uint  `gorm:"not null"                    json:"product_id"`
	Quantity  int64 `gorm:"not null;check:quantity>0"   json:"quantity"`
	UnitPrice int64 `gorm:"not null"                    json:"unit_price"`
}
