package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"restoplus/internal/models"
)

// EventType identifies what a published Event describes
type EventType string

const (
	EventAvailabilityChanged EventType = "availability_changed"
	EventInventoryAlert      EventType = "inventory_alert"
)

// AlertType classifies an inventory alert
type AlertType string

const (
	AlertLowStock   AlertType = "low_stock"
	AlertCritical   AlertType = "critical_stock"
	AlertOutOfStock AlertType = "out_of_stock"
)

// Event is published after a committed change flips a menu item's
// availability or pushes an ingredient below one of its thresholds.
type Event struct {
	Type         EventType           `json:"type"`
	At           time.Time           `json:"at"`
	Availability *AvailabilityChange `json:"availability,omitempty"`
	Alert        *InventoryAlert     `json:"alert,omitempty"`
}

// AvailabilityChange reports a menu item switching between available and unavailable
type AvailabilityChange struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Available  bool   `json:"available"`
}

// InventoryAlert reports an ingredient crossing below a stock threshold
type InventoryAlert struct {
	InventoryItemID string          `json:"inventory_item_id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	AlertType       AlertType       `json:"alert_type"`
	CurrentStock    decimal.Decimal `json:"current_stock"`
	MinimumStock    decimal.Decimal `json:"minimum_stock"`
	ReorderLevel    decimal.Decimal `json:"reorder_level"`
}

// Notifier receives ledger events. Publish is called outside the ledger lock
// and must not block for long.
type Notifier interface {
	Publish(Event)
}

// Observer receives measurements of ledger activity.
type Observer interface {
	ObserveDeduction(result string)
	ObserveRestoration()
	ObserveStock(item models.InventoryItem)
	ForgetStock(item models.InventoryItem)
	ObserveAvailability(item models.MenuItem)
	ForgetMenuItem(item models.MenuItem)
	ObserveAlert(alert AlertType)
}

// Deduction results reported to the Observer
const (
	DeductionApplied      = "applied"
	DeductionInsufficient = "insufficient_stock"
	DeductionNoRecipe     = "no_recipe"
	DeductionFailed       = "error"
)

type nopObserver struct{}

func (nopObserver) ObserveDeduction(string) {}
func (nopObserver) ObserveRestoration() {}
func (nopObserver) ObserveStock(models.InventoryItem) {}
func (nopObserver) ForgetStock(models.InventoryItem) {}
func (nopObserver) ObserveAvailability(models.MenuItem) {}
func (nopObserver) ForgetMenuItem(models.MenuItem) {}
func (nopObserver) ObserveAlert(AlertType) {}

// crossedAlert returns the alert raised by a stock move from before to after,
// or "" when no threshold was crossed downwards.
func crossedAlert(before, after models.InventoryItem) AlertType {
	was, now := before.CurrentStock, after.CurrentStock
	if !now.LessThan(was) {
		return ""
	}
	switch {
	case now.Sign() <= 0 && was.Sign() > 0:
		return AlertOutOfStock
	case now.LessThan(after.MinimumStock) && !was.LessThan(before.MinimumStock):
		return AlertCritical
	case now.LessThan(after.ReorderLevel) && !was.LessThan(before.ReorderLevel):
		return AlertLowStock
	}
	return ""
}
