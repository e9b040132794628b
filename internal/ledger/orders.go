package ledger

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"restoplus/internal/models"
)

// DeductInventoryForOrder consumes the ingredients for quantity units of a
// menu item. The availability check and the deduction of every ingredient run
// in one critical section and are persisted together; when any ingredient is
// short nothing changes and false is returned. A menu item without a recipe
// also yields false. Errors are reserved for invalid input and store failures.
func (l *Ledger) DeductInventoryForOrder(ctx context.Context, menuItemID string, quantity int) (bool, error) {
	check, err := l.DeductWithAvailability(ctx, menuItemID, quantity)
	if err != nil {
		return false, err
	}
	return check.OK(), nil
}

// DeductWithAvailability behaves like DeductInventoryForOrder but returns the
// availability evaluated inside the deduction's critical section, so callers
// can report the exact shortages that caused a rejection.
func (l *Ledger) DeductWithAvailability(ctx context.Context, menuItemID string, quantity int) (AvailabilityResult, error) {
	if quantity <= 0 {
		return AvailabilityResult{}, ErrInvalidQuantity
	}

	var check AvailabilityResult
	err := l.update(ctx, func(t *txn) error {
		check = t.availability(menuItemID, quantity)
		if !check.OK() {
			return nil
		}
		recipe, _ := t.recipeFor(menuItemID)
		t.consume(recipe, decimal.NewFromInt(int64(quantity)).Neg())
		t.reconcile(syncDisableOnly, ingredientIDs(recipe)...)
		t.syncMenuItem(menuItemID, syncBoth)
		return nil
	})

	log := l.logger.With(zap.String("menu_item_id", menuItemID), zap.Int("quantity", quantity))
	switch {
	case err != nil:
		l.observer.ObserveDeduction(DeductionFailed)
		log.Error("order deduction failed", zap.Error(err))
		return AvailabilityResult{}, err
	case check.Status == StatusNoRecipe:
		l.observer.ObserveDeduction(DeductionNoRecipe)
		log.Warn("order deduction skipped, no recipe")
		return check, nil
	case !check.OK():
		l.observer.ObserveDeduction(DeductionInsufficient)
		log.Info("order deduction rejected",
			zap.String("status", string(check.Status)),
			zap.Int("shortages", len(check.Shortages)),
			zap.Strings("missing", check.MissingItems),
		)
		return check, nil
	}
	l.observer.ObserveDeduction(DeductionApplied)
	log.Info("inventory deducted for order")
	return check, nil
}

// RestoreInventoryForOrder returns the ingredients of quantity units of a
// menu item to stock, typically after a cancellation. It does not check that
// a matching deduction happened. Without a recipe it does nothing.
func (l *Ledger) RestoreInventoryForOrder(ctx context.Context, menuItemID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	restored := false
	err := l.update(ctx, func(t *txn) error {
		recipe, ok := t.recipeFor(menuItemID)
		if !ok {
			return nil
		}
		t.consume(recipe, decimal.NewFromInt(int64(quantity)))
		t.reconcile(syncEnableOnly, ingredientIDs(recipe)...)
		t.syncMenuItem(menuItemID, syncBoth)
		restored = true
		return nil
	})

	log := l.logger.With(zap.String("menu_item_id", menuItemID), zap.Int("quantity", quantity))
	if err != nil {
		log.Error("order restoration failed", zap.Error(err))
		return err
	}
	if !restored {
		log.Debug("order restoration skipped, no recipe")
		return nil
	}
	l.observer.ObserveRestoration()
	log.Info("inventory restored for order")
	return nil
}

// consume moves every ingredient of recipe by ingredient.quantity * factor.
// Ingredients whose inventory item no longer exists are skipped.
func (t *txn) consume(recipe models.Recipe, factor decimal.Decimal) {
	for _, ing := range recipe.Ingredients {
		item, ok := t.item(ing.InventoryItemID)
		if !ok {
			continue
		}
		item.CurrentStock = item.CurrentStock.Add(ing.Quantity.Mul(factor))
		t.putItem(item)
	}
}

func ingredientIDs(r models.Recipe) []string {
	ids := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ids = append(ids, ing.InventoryItemID)
	}
	return ids
}
