package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"restoplus/internal/models"
)

// InventoryFilter narrows ListInventoryItems. Zero fields match everything.
type InventoryFilter struct {
	Search   string
	Category string
	Status   models.StockStatus
}

func (f InventoryFilter) match(item models.InventoryItem) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, item.Category) {
		return false
	}
	if f.Status != "" && StockStatus(item) != f.Status {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(item.Name), q) && !strings.Contains(strings.ToLower(item.SKU), q) {
			return false
		}
	}
	return true
}

// Validate applies the data-quality rules the ingestion boundary enforces:
// positive stock levels and a minimum that does not exceed the reorder level.
func Validate(item models.InventoryItem) error {
	switch {
	case strings.TrimSpace(item.Name) == "":
		return ValidationError{Field: "name", Message: "is required"}
	case item.Unit == "":
		return ValidationError{Field: "unit", Message: "is required"}
	case !item.Unit.IsBase():
		return ValidationError{Field: "unit", Message: "must be a base unit (g, ml, pcs)"}
	case item.CurrentStock.Sign() <= 0:
		return ValidationError{Field: "current_stock", Message: "must be positive"}
	case item.MinimumStock.Sign() <= 0:
		return ValidationError{Field: "minimum_stock", Message: "must be positive"}
	case item.ReorderLevel.Sign() <= 0:
		return ValidationError{Field: "reorder_level", Message: "must be positive"}
	case item.MinimumStock.GreaterThan(item.ReorderLevel):
		return ValidationError{Field: "minimum_stock", Message: "must not exceed reorder_level"}
	case item.UnitCost.Amount.Sign() < 0:
		return ValidationError{Field: "unit_cost", Message: "must not be negative"}
	}
	return nil
}

func (t *txn) itemBySKU(sku string) (models.InventoryItem, bool) {
	var found models.InventoryItem
	var ok bool
	t.eachItem(func(item models.InventoryItem) {
		if !ok && item.SKU == sku {
			found, ok = item, true
		}
	})
	return found, ok
}

// AddInventoryItem assigns a new identity and stores the item as given.
// Only structural completeness is checked here; callers that want the stricter
// rules run Validate first.
func (l *Ledger) AddInventoryItem(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	if strings.TrimSpace(item.Name) == "" {
		return models.InventoryItem{}, ValidationError{Field: "name", Message: "is required"}
	}
	if item.Unit == "" {
		return models.InventoryItem{}, ValidationError{Field: "unit", Message: "is required"}
	}
	if item.UnitCost.Currency == "" {
		item.UnitCost = models.NewMoney(item.UnitCost.Amount, "")
	}

	err := l.update(ctx, func(t *txn) error {
		if item.SKU != "" {
			if _, taken := t.itemBySKU(item.SKU); taken {
				return ErrDuplicateSKU
			}
		}
		item.ID = l.newID()
		t.putItem(item)
		return nil
	})
	if err != nil {
		return models.InventoryItem{}, err
	}

	l.logger.Info("inventory item added",
		zap.String("id", item.ID),
		zap.String("sku", item.SKU),
		zap.String("stock", item.CurrentStock.String()),
		zap.String("unit", string(item.Unit)),
	)
	return item, nil
}

// UpdateInventoryItem merges the given fields into the identified item.
// A stock change re-evaluates every menu item whose recipe uses it.
func (l *Ledger) UpdateInventoryItem(ctx context.Context, id string, u models.InventoryItemUpdate) (models.InventoryItem, error) {
	var updated models.InventoryItem
	err := l.update(ctx, func(t *txn) error {
		item, ok := t.item(id)
		if !ok {
			return ErrInventoryItemNotFound
		}
		if u.SKU != nil && *u.SKU != item.SKU && *u.SKU != "" {
			if _, taken := t.itemBySKU(*u.SKU); taken {
				return ErrDuplicateSKU
			}
		}
		if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
			return ValidationError{Field: "name", Message: "is required"}
		}
		stockChanged := u.Apply(&item)
		t.putItem(item)
		if stockChanged {
			t.reconcile(syncBoth, id)
		}
		updated = item
		return nil
	})
	return updated, err
}

// GetInventoryItem returns the item with the given id.
func (l *Ledger) GetInventoryItem(id string) (models.InventoryItem, error) {
	var (
		item models.InventoryItem
		ok   bool
	)
	l.view(func(t *txn) { item, ok = t.item(id) })
	if !ok {
		return models.InventoryItem{}, ErrInventoryItemNotFound
	}
	return item, nil
}

// GetInventoryItemBySKU looks an item up by its business key.
func (l *Ledger) GetInventoryItemBySKU(sku string) (models.InventoryItem, error) {
	var (
		item models.InventoryItem
		ok   bool
	)
	l.view(func(t *txn) { item, ok = t.itemBySKU(sku) })
	if !ok {
		return models.InventoryItem{}, ErrInventoryItemNotFound
	}
	return item, nil
}

// ListInventoryItems returns matching items ordered by name.
func (l *Ledger) ListInventoryItems(filter InventoryFilter) []models.InventoryItem {
	var items []models.InventoryItem
	l.view(func(t *txn) {
		t.eachItem(func(item models.InventoryItem) {
			if filter.match(item) {
				items = append(items, item)
			}
		})
	})
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items
}

// DeleteInventoryItem removes an item. Recipes that still reference it leave
// their menu items unavailable.
func (l *Ledger) DeleteInventoryItem(ctx context.Context, id string) error {
	err := l.update(ctx, func(t *txn) error {
		if _, ok := t.item(id); !ok {
			return ErrInventoryItemNotFound
		}
		t.deleteItem(id)
		t.reconcile(syncBoth, id)
		return nil
	})
	if err == nil {
		l.logger.Info("inventory item deleted", zap.String("id", id))
	}
	return err
}

// RestockInventoryItem adds quantity to an item's stock and stamps LastRestocked.
func (l *Ledger) RestockInventoryItem(ctx context.Context, id string, quantity decimal.Decimal) (models.InventoryItem, error) {
	if quantity.Sign() <= 0 {
		return models.InventoryItem{}, ErrInvalidQuantity
	}
	var updated models.InventoryItem
	err := l.update(ctx, func(t *txn) error {
		item, ok := t.item(id)
		if !ok {
			return ErrInventoryItemNotFound
		}
		item.CurrentStock = item.CurrentStock.Add(quantity)
		item.LastRestocked = l.now().UTC().Truncate(24 * time.Hour)
		t.putItem(item)
		t.reconcile(syncBoth, id)
		updated = item
		return nil
	})
	if err != nil {
		return models.InventoryItem{}, err
	}
	l.logger.Info("inventory item restocked",
		zap.String("id", id),
		zap.String("quantity", quantity.String()),
		zap.String("stock", updated.CurrentStock.String()),
	)
	return updated, nil
}

// AdjustStock applies a signed manual correction such as waste or a count
// discrepancy. The result may not go below zero.
func (l *Ledger) AdjustStock(ctx context.Context, id string, delta decimal.Decimal, reason string) (models.InventoryItem, error) {
	if delta.IsZero() {
		return models.InventoryItem{}, ErrInvalidQuantity
	}
	var updated models.InventoryItem
	err := l.update(ctx, func(t *txn) error {
		item, ok := t.item(id)
		if !ok {
			return ErrInventoryItemNotFound
		}
		next := item.CurrentStock.Add(delta)
		if next.Sign() < 0 {
			return ErrNegativeStock
		}
		item.CurrentStock = next
		t.putItem(item)
		t.reconcile(syncBoth, id)
		updated = item
		return nil
	})
	if err != nil {
		return models.InventoryItem{}, err
	}
	l.logger.Info("stock adjusted",
		zap.String("id", id),
		zap.String("delta", delta.String()),
		zap.String("reason", reason),
		zap.String("stock", updated.CurrentStock.String()),
	)
	return updated, nil
}
