package repository

import "errors"

// Guard failures detected under the row lock. Services translate these into
// API error codes; callers must not retry them inside the same transaction.
var (
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrStockNotTracked        = errors.New("item does not track stock")
	ErrInventoryTypeUnchanged = errors.New("inventory type unchanged")
)
