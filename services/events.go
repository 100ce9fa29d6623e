package services

import (
	"github.com/yeremiapane/restaurant-orders/realtime"
	"github.com/yeremiapane/restaurant-orders/repository"
)

// publishStockEvents pushes one committed mutation to the dashboards, plus
// whichever low or depleted alarm the mutation crossed into.
func publishStockEvents(hub *realtime.Hub, mut repository.StockMutation) {
	hub.StockAdjusted(map[string]interface{}{
		"menu":       mut.Menu,
		"adjustment": mut.Adjustment,
	})
	if !mut.Menu.Tracked() {
		return
	}
	if mut.Menu.CurrentStock() == 0 {
		hub.StockDepleted(mut.Menu)
		return
	}
	if mut.Menu.BelowThreshold() {
		hub.StockLow(mut.Menu)
	}
}
