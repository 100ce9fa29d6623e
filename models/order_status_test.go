package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusSentToCashier, OrderStatusPaid,
		OrderStatusInKitchen, OrderStatusReady, OrderStatusDelivered,
		OrderStatusCancelled,
	} {
		assert.True(t, s.Valid(), "expected %s to be a known status", s)
	}

	assert.False(t, OrderStatus("").Valid())
	assert.False(t, OrderStatus("COOKED").Valid())
	assert.False(t, OrderStatus("pending").Valid(), "status tokens are case sensitive")
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())

	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusSentToCashier, OrderStatusPaid,
		OrderStatusInKitchen, OrderStatusReady,
	} {
		assert.False(t, s.Terminal(), "expected %s to be non-terminal", s)
	}
}

func TestCanTransition(t *testing.T) {
	nonTerminal := []OrderStatus{
		OrderStatusPending, OrderStatusSentToCashier, OrderStatusPaid,
		OrderStatusInKitchen, OrderStatusReady,
	}

	// Any non-terminal order may move to any valid status except CANCELLED.
	for _, from := range nonTerminal {
		for _, to := range nonTerminal {
			assert.True(t, CanTransition(from, to), "%s -> %s should be allowed", from, to)
		}
		assert.True(t, CanTransition(from, OrderStatusDelivered), "%s -> DELIVERED should be allowed", from)
		assert.False(t, CanTransition(from, OrderStatusCancelled), "%s -> CANCELLED must go through cancellation", from)
	}

	// Terminal orders never move again, no matter the target.
	all := append(nonTerminal, OrderStatusDelivered, OrderStatusCancelled)
	for _, terminal := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		for _, to := range all {
			assert.False(t, CanTransition(terminal, to), "%s -> %s must be rejected", terminal, to)
		}
	}

	// Unknown tokens are rejected on either side.
	assert.False(t, CanTransition(OrderStatus("DRAFT"), OrderStatusPaid))
	assert.False(t, CanTransition(OrderStatusPending, OrderStatus("DONE")))
}
