package service

import "errors"

// Stable error kinds; handlers branch on these with errors.Is to pick the
// HTTP status. Anything else is treated as an internal store failure.
var (
	ErrValidation        = errors.New("validation")         // 400
	ErrUnauthenticated   = errors.New("unauthenticated")    // 401
	ErrForbidden         = errors.New("forbidden")          // 403
	ErrNotFound          = errors.New("not found")          // 404
	ErrEmptyOrder        = errors.New("empty order")        // 400
	ErrVariantNotFound   = errors.New("variant not found")  // 400
	ErrVoucherInvalid    = errors.New("voucher invalid")    // 400
	ErrInvalidStatus     = errors.New("invalid status")     // 400
	ErrInsufficientStock = errors.New("insufficient stock") // 409
	ErrConflict          = errors.New("conflict")           // 409
)
