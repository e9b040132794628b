package ledger

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"restoplus/internal/models"
)

// AddMenuItem stores a new menu item. Until a recipe is registered its
// availability is whatever the caller supplies.
func (l *Ledger) AddMenuItem(ctx context.Context, mi models.MenuItem) (models.MenuItem, error) {
	if strings.TrimSpace(mi.Name) == "" {
		return models.MenuItem{}, ValidationError{Field: "name", Message: "is required"}
	}
	if mi.Price.Amount.Sign() < 0 {
		return models.MenuItem{}, ValidationError{Field: "price", Message: "must not be negative"}
	}
	mi.Price = models.NewMoney(mi.Price.Amount, mi.Price.Currency)
	mi.RecipeID = ""

	err := l.update(ctx, func(t *txn) error {
		mi.ID = l.newID()
		t.putMenuItem(mi)
		return nil
	})
	if err != nil {
		return models.MenuItem{}, err
	}
	l.logger.Info("menu item added", zap.String("id", mi.ID), zap.String("name", mi.Name))
	return mi, nil
}

// UpdateMenuItem merges the fields owned by menu management. The availability
// flag is not among them.
func (l *Ledger) UpdateMenuItem(ctx context.Context, id string, u models.MenuItemUpdate) (models.MenuItem, error) {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return models.MenuItem{}, ValidationError{Field: "name", Message: "is required"}
	}
	if u.Price != nil && u.Price.Amount.Sign() < 0 {
		return models.MenuItem{}, ValidationError{Field: "price", Message: "must not be negative"}
	}
	var updated models.MenuItem
	err := l.update(ctx, func(t *txn) error {
		mi, ok := t.menuItem(id)
		if !ok {
			return ErrMenuItemNotFound
		}
		u.Apply(&mi)
		mi.Price = models.NewMoney(mi.Price.Amount, mi.Price.Currency)
		t.putMenuItem(mi)
		updated = mi
		return nil
	})
	return updated, err
}

// DeleteMenuItem removes a menu item together with its recipe.
func (l *Ledger) DeleteMenuItem(ctx context.Context, id string) error {
	err := l.update(ctx, func(t *txn) error {
		if _, ok := t.menuItem(id); !ok {
			return ErrMenuItemNotFound
		}
		if r, ok := t.recipeFor(id); ok {
			t.deleteRecipe(r.ID)
		}
		t.deleteMenuItem(id)
		return nil
	})
	if err == nil {
		l.logger.Info("menu item deleted", zap.String("id", id))
	}
	return err
}

// GetMenuItem returns the menu item with the given id.
func (l *Ledger) GetMenuItem(id string) (models.MenuItem, error) {
	var (
		mi models.MenuItem
		ok bool
	)
	l.view(func(t *txn) { mi, ok = t.menuItem(id) })
	if !ok {
		return models.MenuItem{}, ErrMenuItemNotFound
	}
	return mi, nil
}

// ListMenuItems returns menu items ordered by name, optionally limited to one category.
func (l *Ledger) ListMenuItems(category string) []models.MenuItem {
	var items []models.MenuItem
	l.view(func(t *txn) {
		for _, mi := range t.l.menu {
			if category == "" || strings.EqualFold(category, mi.Category) {
				items = append(items, mi)
			}
		}
	})
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items
}

// SetMenuItemAvailability sets the flag of a menu item that has no recipe.
// Once a recipe is registered only stock changes move the flag.
func (l *Ledger) SetMenuItemAvailability(ctx context.Context, id string, available bool) (models.MenuItem, error) {
	var updated models.MenuItem
	err := l.update(ctx, func(t *txn) error {
		mi, ok := t.menuItem(id)
		if !ok {
			return ErrMenuItemNotFound
		}
		if _, managed := t.recipeFor(id); managed {
			return ErrAvailabilityManaged
		}
		if mi.IsAvailable != available {
			mi.IsAvailable = available
			t.putMenuItem(mi)
		}
		updated = mi
		return nil
	})
	return updated, err
}
