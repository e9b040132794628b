package ledger

import (
	"github.com/shopspring/decimal"

	"restoplus/internal/models"
)

// AvailabilityStatus is the outcome of an availability check
type AvailabilityStatus string

const (
	StatusAvailable         AvailabilityStatus = "available"
	StatusNoRecipe          AvailabilityStatus = "no_recipe"
	StatusInsufficientStock AvailabilityStatus = "insufficient_stock"
	StatusMissingIngredient AvailabilityStatus = "missing_ingredient"
)

// Shortage describes one ingredient that cannot cover the requested quantity
type Shortage struct {
	InventoryItemID string          `json:"inventory_item_id"`
	Name            string          `json:"name"`
	Unit            models.Unit     `json:"unit"`
	Required        decimal.Decimal `json:"required"`
	OnHand          decimal.Decimal `json:"on_hand"`
}

// AvailabilityResult explains whether quantity units of a menu item can be produced.
type AvailabilityResult struct {
	MenuItemID   string             `json:"menu_item_id"`
	Quantity     int                `json:"quantity"`
	Status       AvailabilityStatus `json:"status"`
	Shortages    []Shortage         `json:"shortages,omitempty"`
	MissingItems []string           `json:"missing_items,omitempty"`
}

// OK reports whether every ingredient is sufficient.
func (r AvailabilityResult) OK() bool {
	return r.Status == StatusAvailable
}

// availability evaluates the recipe for menuItemID against staged stock.
// A missing ingredient takes precedence over a shortage in the reported status.
func (t *txn) availability(menuItemID string, quantity int) AvailabilityResult {
	res := AvailabilityResult{MenuItemID: menuItemID, Quantity: quantity}

	recipe, ok := t.recipeFor(menuItemID)
	if !ok {
		res.Status = StatusNoRecipe
		return res
	}

	q := decimal.NewFromInt(int64(quantity))
	for _, ing := range recipe.Ingredients {
		item, ok := t.item(ing.InventoryItemID)
		if !ok {
			res.MissingItems = append(res.MissingItems, ing.InventoryItemID)
			continue
		}
		required := ing.Quantity.Mul(q)
		if item.CurrentStock.LessThan(required) {
			res.Shortages = append(res.Shortages, Shortage{
				InventoryItemID: item.ID,
				Name:            item.Name,
				Unit:            item.Unit,
				Required:        required,
				OnHand:          item.CurrentStock,
			})
		}
	}

	switch {
	case len(res.MissingItems) > 0:
		res.Status = StatusMissingIngredient
	case len(res.Shortages) > 0:
		res.Status = StatusInsufficientStock
	default:
		res.Status = StatusAvailable
	}
	return res
}

// Availability reports whether quantity units of the menu item can be produced
// from current stock, and why not when they cannot.
func (l *Ledger) Availability(menuItemID string, quantity int) AvailabilityResult {
	var res AvailabilityResult
	l.view(func(t *txn) {
		res = t.availability(menuItemID, quantity)
	})
	return res
}

// CheckAvailability returns true only if a recipe is registered for the menu
// item and every ingredient has at least ingredient.quantity * quantity in stock.
// A non-positive quantity is never available.
func (l *Ledger) CheckAvailability(menuItemID string, quantity int) bool {
	if quantity <= 0 {
		return false
	}
	return l.Availability(menuItemID, quantity).OK()
}
