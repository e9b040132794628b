package ledger

import (
	"context"

	"restoplus/internal/models"
)

// Snapshot is the full ledger state as loaded from a Store.
type Snapshot struct {
	InventoryItems []models.InventoryItem
	Recipes        []models.Recipe
	MenuItems      []models.MenuItem
}

// Changeset groups every row touched by one ledger operation.
// A Store must apply it atomically: all rows or none.
type Changeset struct {
	InventoryItems []models.InventoryItem
	Recipes        []models.Recipe
	MenuItems      []models.MenuItem

	DeletedInventoryItems []string
	DeletedRecipes        []string
	DeletedMenuItems      []string
}

// Empty reports whether the changeset carries no rows.
func (c Changeset) Empty() bool {
	return len(c.InventoryItems) == 0 && len(c.Recipes) == 0 && len(c.MenuItems) == 0 &&
		len(c.DeletedInventoryItems) == 0 && len(c.DeletedRecipes) == 0 && len(c.DeletedMenuItems) == 0
}

// Store persists ledger state. The ledger keeps the authoritative copy in
// memory and writes every committed changeset through to the store.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Apply(ctx context.Context, cs Changeset) error
}
