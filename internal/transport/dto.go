package transport

type CreateOrderItem struct {
	ProductID uint  `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type CreateOrderRequest struct {
	Name        string            `json:"name"`
	Phone       string            `json:"phone"`
	Address     string            `json:"address"`
	Note        string            `json:"note"`
	VoucherCode string            `json:"voucher_code,omitempty"`
	Items       []CreateOrderItem `json:"items"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type AddItemRequest struct {
	ProductID uint  `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// Nil fields are left unchanged.
type UpdateItemRequest struct {
	ProductID *uint  `json:"product_id,omitempty"`
	Quantity  *int64 `json:"quantity,omitempty"`
}

type CreateVoucherRequest struct {
	Code     string `json:"code"`
	Discount int64  `json:"discount"`
	Quantity int64  `json:"quantity"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// Staff update: everything but the code.
type UpdateVoucherRequest struct {
	Discount *int64 `json:"discount,omitempty"`
	Quantity *int64 `json:"quantity,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// Admin update: may also rename the code.
type AdminUpdateVoucherRequest struct {
	Code     *string `json:"code,omitempty"`
	Discount *int64  `json:"discount,omitempty"`
	Quantity *int64  `json:"quantity,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Size        string `json:"size"`
	Price       int64  `json:"price"`
	Quantity    int64  `json:"quantity"`
	CategoryID  uint   `json:"category_id"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

type UpdateMeRequest struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}
