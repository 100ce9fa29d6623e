package models

// OrderStatus is the workflow state of an order. Orders start at PENDING and
// normally walk the kitchen flow until DELIVERED. CANCELLED is reachable from
// any non-terminal status, but only through the cancellation flow (which also
// reverts stock), never through a plain status update.
type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "PENDING"
	OrderStatusSentToCashier OrderStatus = "SENT_TO_CASHIER"
	OrderStatusPaid          OrderStatus = "PAID"
	OrderStatusInKitchen     OrderStatus = "IN_KITCHEN"
	OrderStatusReady         OrderStatus = "READY"
	OrderStatusDelivered     OrderStatus = "DELIVERED"
	OrderStatusCancelled     OrderStatus = "CANCELLED"
)

var orderStatuses = map[OrderStatus]bool{
	OrderStatusPending:       true,
	OrderStatusSentToCashier: true,
	OrderStatusPaid:          true,
	OrderStatusInKitchen:     true,
	OrderStatusReady:         true,
	OrderStatusDelivered:     true,
	OrderStatusCancelled:     true,
}

// Valid reports whether s is a known status token.
func (s OrderStatus) Valid() bool {
	return orderStatuses[s]
}

// Terminal reports whether s permits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransition reports whether the generic status-update path may move an
// order from one status to another. Terminal orders never move again, and
// CANCELLED cannot be set directly. Beyond those guards the update path is
// deliberately permissive: the cashier and kitchen flows skip states for
// take-away and external-channel orders.
func CanTransition(from, to OrderStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from.Terminal() {
		return false
	}
	if to == OrderStatusCancelled {
		return false
	}
	return true
}
