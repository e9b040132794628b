package ledger

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"restoplus/internal/models"
)

// checkIngredients validates the ingredient lines and fills in a missing unit
// from the referenced inventory item. Each inventory item may appear on one
// line only, so the availability check covers exactly what a deduction takes.
func (t *txn) checkIngredients(ings models.IngredientList) (models.IngredientList, error) {
	if len(ings) == 0 {
		return nil, ValidationError{Field: "ingredients", Message: "at least one ingredient is required"}
	}
	out := ings.Clone()
	seen := make(map[string]bool, len(out))
	for i, ing := range out {
		if ing.InventoryItemID == "" {
			return nil, ValidationError{Field: "ingredients.inventory_item_id", Message: "is required"}
		}
		if seen[ing.InventoryItemID] {
			return nil, ValidationError{
				Field:   "ingredients.inventory_item_id",
				Message: fmt.Sprintf("%s is listed more than once", ing.InventoryItemID),
			}
		}
		seen[ing.InventoryItemID] = true
		if ing.Quantity.Sign() <= 0 {
			return nil, ErrInvalidQuantity
		}
		if ing.Unit == "" {
			if item, ok := t.item(ing.InventoryItemID); ok {
				out[i].Unit = item.Unit
			}
		}
	}
	return out, nil
}

// setRecipeLink points a menu item at its recipe, or clears the link when recipeID is empty.
func (t *txn) setRecipeLink(menuItemID, recipeID string) {
	mi, ok := t.menuItem(menuItemID)
	if !ok || mi.RecipeID == recipeID {
		return
	}
	mi.RecipeID = recipeID
	t.putMenuItem(mi)
}

// AddRecipe registers the recipe for an existing menu item and derives the
// item's availability from it. Ingredients that do not exist yet are accepted
// and keep the menu item unavailable.
func (l *Ledger) AddRecipe(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	if r.MenuItemID == "" {
		return models.Recipe{}, ValidationError{Field: "menu_item_id", Message: "is required"}
	}
	err := l.update(ctx, func(t *txn) error {
		if _, ok := t.menuItem(r.MenuItemID); !ok {
			return ErrMenuItemNotFound
		}
		if _, exists := t.recipeFor(r.MenuItemID); exists {
			return ErrRecipeExists
		}
		ings, err := t.checkIngredients(r.Ingredients)
		if err != nil {
			return err
		}
		r.ID = l.newID()
		r.Ingredients = ings
		t.putRecipe(r)
		t.setRecipeLink(r.MenuItemID, r.ID)
		t.syncMenuItem(r.MenuItemID, syncBoth)
		return nil
	})
	if err != nil {
		return models.Recipe{}, err
	}
	l.logger.Info("recipe added",
		zap.String("id", r.ID),
		zap.String("menu_item_id", r.MenuItemID),
		zap.Int("ingredients", len(r.Ingredients)),
	)
	return r, nil
}

// UpdateRecipe replaces the ingredient list or moves the recipe to another
// menu item. A menu item that loses its recipe keeps its last flag.
func (l *Ledger) UpdateRecipe(ctx context.Context, id string, u models.RecipeUpdate) (models.Recipe, error) {
	var updated models.Recipe
	err := l.update(ctx, func(t *txn) error {
		r, ok := t.recipe(id)
		if !ok {
			return ErrRecipeNotFound
		}
		if u.MenuItemID != nil && *u.MenuItemID != r.MenuItemID {
			if _, ok := t.menuItem(*u.MenuItemID); !ok {
				return ErrMenuItemNotFound
			}
			if _, exists := t.recipeFor(*u.MenuItemID); exists {
				return ErrRecipeExists
			}
			t.setRecipeLink(r.MenuItemID, "")
			r.MenuItemID = *u.MenuItemID
		}
		if u.Ingredients != nil {
			ings, err := t.checkIngredients(*u.Ingredients)
			if err != nil {
				return err
			}
			r.Ingredients = ings
		}
		t.putRecipe(r)
		t.setRecipeLink(r.MenuItemID, r.ID)
		t.syncMenuItem(r.MenuItemID, syncBoth)
		updated = r
		return nil
	})
	return updated, err
}

// DeleteRecipe removes the recipe registered for a menu item. The item's flag
// becomes manually managed again.
func (l *Ledger) DeleteRecipe(ctx context.Context, menuItemID string) error {
	return l.update(ctx, func(t *txn) error {
		r, ok := t.recipeFor(menuItemID)
		if !ok {
			return ErrRecipeNotFound
		}
		t.deleteRecipe(r.ID)
		t.setRecipeLink(menuItemID, "")
		return nil
	})
}

// GetRecipe returns the recipe with the given id.
func (l *Ledger) GetRecipe(id string) (models.Recipe, error) {
	var (
		r  models.Recipe
		ok bool
	)
	l.view(func(t *txn) { r, ok = t.recipe(id) })
	if !ok {
		return models.Recipe{}, ErrRecipeNotFound
	}
	r.Ingredients = r.Ingredients.Clone()
	return r, nil
}

// GetRecipeByMenuItemID returns the recipe registered for a menu item.
func (l *Ledger) GetRecipeByMenuItemID(menuItemID string) (models.Recipe, bool) {
	var (
		r  models.Recipe
		ok bool
	)
	l.view(func(t *txn) { r, ok = t.recipeFor(menuItemID) })
	r.Ingredients = r.Ingredients.Clone()
	return r, ok
}

// ListRecipes returns every recipe ordered by menu item id.
func (l *Ledger) ListRecipes() []models.Recipe {
	var recipes []models.Recipe
	l.view(func(t *txn) {
		t.eachRecipe(func(r models.Recipe) {
			r.Ingredients = r.Ingredients.Clone()
			recipes = append(recipes, r)
		})
	})
	sort.Slice(recipes, func(i, j int) bool {
		return recipes[i].MenuItemID < recipes[j].MenuItemID
	})
	return recipes
}
