package services

import (
	"fmt"
	"net/http"

	"github.com/yeremiapane/restaurant-orders/models"
)

// Stable machine-readable failure codes carried on every DomainError.
const (
	CodeNotFound                = "NOT_FOUND"
	CodeValidation              = "VALIDATION"
	CodeItemsUnavailable        = "ITEMS_UNAVAILABLE"
	CodeInsufficientStock       = "INSUFFICIENT_STOCK"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeCannotCancelDelivered   = "CANNOT_CANCEL_DELIVERED"
	CodeAlreadyCancelled        = "ALREADY_CANCELLED"
	CodeInvalidInventoryOp      = "INVALID_INVENTORY_OPERATION"
)

// DomainError is a typed, locally detected business failure. Items carries
// the IDs of every offending menu item when the failure is item-scoped, so
// callers see the full set and not just the first offender.
type DomainError struct {
	Code    string
	Message string
	Items   []uint
}

func (e *DomainError) Error() string { return e.Message }

// HTTPStatus maps the failure onto the response status line: missing
// resources are 404, every other domain failure is a 400.
func (e *DomainError) HTTPStatus() int {
	if e.Code == CodeNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func notFound(what string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: what + " not found"}
}

func itemsNotFound(ids []uint) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: "menu item not found", Items: ids}
}

func validation(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func itemsUnavailable(ids []uint) *DomainError {
	return &DomainError{Code: CodeItemsUnavailable, Message: "some items are not available", Items: ids}
}

func insufficientStock(ids []uint) *DomainError {
	return &DomainError{Code: CodeInsufficientStock, Message: "insufficient stock for some items", Items: ids}
}

func invalidTransition(from, to models.OrderStatus) *DomainError {
	return &DomainError{
		Code:    CodeInvalidStatusTransition,
		Message: fmt.Sprintf("cannot transition order from %s to %s", from, to),
	}
}

func cannotCancelDelivered() *DomainError {
	return &DomainError{Code: CodeCannotCancelDelivered, Message: "delivered orders cannot be cancelled"}
}

func alreadyCancelled() *DomainError {
	return &DomainError{Code: CodeAlreadyCancelled, Message: "order is already cancelled"}
}

func invalidInventoryOp(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: CodeInvalidInventoryOp, Message: fmt.Sprintf(format, args...)}
}
