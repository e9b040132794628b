package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restoplus/internal/ledger"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(nil)

	require.NoError(t, Seed(ctx, l, nil))
	assert.Len(t, l.ListInventoryItems(ledger.InventoryFilter{}), 6)
	assert.Len(t, l.ListMenuItems(""), 2)
	assert.Len(t, l.ListRecipes(), 2)

	pepperoni := findMenuItem(t, l, pepperoniPizza)
	assert.True(t, pepperoni.IsAvailable)
	r, ok := l.GetRecipeByMenuItemID(pepperoni.ID)
	require.True(t, ok)
	assert.Len(t, r.Ingredients, 5)

	// flour caps the pepperoni pizza at 100
	assert.True(t, l.CheckAvailability(pepperoni.ID, 100))
	assert.False(t, l.CheckAvailability(pepperoni.ID, 101))

	basil, err := l.GetInventoryItemBySKU("ING-006")
	require.NoError(t, err)
	assert.Equal(t, "2024-10-21", basil.LastRestocked.Format("2006-01-02"))

	// already seeded
	require.NoError(t, Seed(ctx, l, nil))
	assert.Len(t, l.ListInventoryItems(ledger.InventoryFilter{}), 6)
}
