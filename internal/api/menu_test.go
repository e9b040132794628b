package api

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restoplus/internal/ledger"
	"restoplus/internal/models"
)

func (ts *testServer) createMenuItem(t *testing.T, name string) models.MenuItem {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/v1/menu", map[string]interface{}{
		"name":         name,
		"category":     "Appetizer",
		"price":        map[string]interface{}{"amount": "180"},
		"is_available": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var mi models.MenuItem
	decode(t, w, &mi)
	return mi
}

func TestListMenuItems(t *testing.T) {
	ts := newTestServer(t)
	ts.createMenuItem(t, "Bruschetta")

	w := ts.do(t, http.MethodGet, "/api/v1/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.MenuItem
	decode(t, w, &items)
	require.Len(t, items, 3)
	assert.Equal(t, "Bruschetta", items[0].Name)

	w = ts.do(t, http.MethodGet, "/api/v1/menu?category=Main%20Course", nil)
	decode(t, w, &items)
	assert.Len(t, items, 2)
}

func TestCreateRecipeWithDerivedUnits(t *testing.T) {
	ts := newTestServer(t)
	mi := ts.createMenuItem(t, "Bruschetta")
	assert.True(t, mi.IsAvailable)

	w := ts.do(t, http.MethodPost, "/api/v1/recipes", map[string]interface{}{
		"menu_item_id": mi.ID,
		"ingredients": []map[string]interface{}{
			{"inventory_item_id": ts.sku["ING-001"], "quantity": "0.1", "unit": "kg"},
			{"inventory_item_id": ts.sku["ING-005"], "quantity": "15"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var r models.Recipe
	decode(t, w, &r)
	require.Len(t, r.Ingredients, 2)
	assert.True(t, decimal.NewFromInt(100).Equal(r.Ingredients[0].Quantity))
	assert.Equal(t, models.UnitGram, r.Ingredients[0].Unit)
	assert.Equal(t, models.UnitMilliliter, r.Ingredients[1].Unit)

	w = ts.do(t, http.MethodGet, "/api/v1/menu/"+mi.ID+"/recipe", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Recipe
	decode(t, w, &got)
	assert.Equal(t, r.ID, got.ID)

	w = ts.do(t, http.MethodGet, "/api/v1/menu/"+mi.ID, nil)
	var linked models.MenuItem
	decode(t, w, &linked)
	assert.Equal(t, r.ID, linked.RecipeID)
	assert.True(t, linked.IsAvailable)
}

func TestCreateRecipeErrors(t *testing.T) {
	ts := newTestServer(t)
	pizza := ts.menu["Margherita Pizza"]

	tests := []struct {
		name string
		body map[string]interface{}
		want int
	}{
		{"no ingredients", map[string]interface{}{"menu_item_id": ts.createMenuItem(t, "Soup").ID, "ingredients": []interface{}{}}, http.StatusBadRequest},
		{"unknown menu item", map[string]interface{}{"menu_item_id": "nope", "ingredients": []map[string]interface{}{
			{"inventory_item_id": ts.sku["ING-001"], "quantity": "1"},
		}}, http.StatusNotFound},
		{"recipe already registered", map[string]interface{}{"menu_item_id": pizza, "ingredients": []map[string]interface{}{
			{"inventory_item_id": ts.sku["ING-001"], "quantity": "1"},
		}}, http.StatusConflict},
		{"unknown unit", map[string]interface{}{"menu_item_id": pizza, "ingredients": []map[string]interface{}{
			{"inventory_item_id": ts.sku["ING-001"], "quantity": "1", "unit": "pinch"},
		}}, http.StatusBadRequest},
		{"repeated ingredient", map[string]interface{}{"menu_item_id": ts.createMenuItem(t, "Flatbread").ID, "ingredients": []map[string]interface{}{
			{"inventory_item_id": ts.sku["ING-001"], "quantity": "200", "unit": "g"},
			{"inventory_item_id": ts.sku["ING-001"], "quantity": "0.2", "unit": "kg"},
		}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/v1/recipes", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestUpdateRecipeRecomputesAvailability(t *testing.T) {
	ts := newTestServer(t)
	pizza := ts.menu["Margherita Pizza"]
	r, ok := ts.l.GetRecipeByMenuItemID(pizza)
	require.True(t, ok)

	w := ts.do(t, http.MethodPatch, "/api/v1/recipes/"+r.ID, map[string]interface{}{
		"ingredients": []map[string]interface{}{
			{"inventory_item_id": ts.sku["ING-006"], "quantity": "0.5", "unit": "kg"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/v1/menu/"+pizza, nil)
	var mi models.MenuItem
	decode(t, w, &mi)
	assert.False(t, mi.IsAvailable)

	w = ts.do(t, http.MethodGet, "/api/v1/recipes", nil)
	var all []models.Recipe
	decode(t, w, &all)
	assert.Len(t, all, 2)
}

func TestCheckAvailability(t *testing.T) {
	ts := newTestServer(t)
	pizza := ts.menu["Margherita Pizza"]

	w := ts.do(t, http.MethodGet, "/api/v1/menu/"+pizza+"/availability", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res ledger.AvailabilityResult
	decode(t, w, &res)
	assert.Equal(t, ledger.StatusAvailable, res.Status)
	assert.Equal(t, 1, res.Quantity)

	// basil: 200g on hand, 5g per pizza
	w = ts.do(t, http.MethodGet, "/api/v1/menu/"+pizza+"/availability?quantity=41", nil)
	decode(t, w, &res)
	assert.Equal(t, ledger.StatusInsufficientStock, res.Status)
	require.Len(t, res.Shortages, 1)
	assert.Equal(t, ts.sku["ING-006"], res.Shortages[0].InventoryItemID)
	assert.True(t, decimal.NewFromInt(205).Equal(res.Shortages[0].Required))

	w = ts.do(t, http.MethodGet, "/api/v1/menu/"+pizza+"/availability?quantity=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mi := ts.createMenuItem(t, "Side Salad")
	w = ts.do(t, http.MethodGet, "/api/v1/menu/"+mi.ID+"/availability", nil)
	decode(t, w, &res)
	assert.Equal(t, ledger.StatusNoRecipe, res.Status)
}

func TestSetAvailability(t *testing.T) {
	ts := newTestServer(t)
	mi := ts.createMenuItem(t, "Side Salad")

	w := ts.do(t, http.MethodPut, "/api/v1/menu/"+mi.ID+"/availability", map[string]interface{}{"available": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got models.MenuItem
	decode(t, w, &got)
	assert.False(t, got.IsAvailable)

	w = ts.do(t, http.MethodPut, "/api/v1/menu/"+ts.menu["Pepperoni Pizza"]+"/availability", map[string]interface{}{"available": false})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodPut, "/api/v1/menu/"+mi.ID+"/availability", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateMenuItem(t *testing.T) {
	ts := newTestServer(t)
	pizza := ts.menu["Pepperoni Pizza"]

	w := ts.do(t, http.MethodPatch, "/api/v1/menu/"+pizza, map[string]interface{}{
		"price": map[string]interface{}{"amount": "799"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var mi models.MenuItem
	decode(t, w, &mi)
	assert.True(t, decimal.NewFromInt(799).Equal(mi.Price.Amount))
	assert.Equal(t, models.DefaultCurrency, mi.Price.Currency)
	assert.Equal(t, "Pepperoni Pizza", mi.Name)
}

func TestDeleteMenuItemRecipe(t *testing.T) {
	ts := newTestServer(t)
	pizza := ts.menu["Pepperoni Pizza"]

	w := ts.do(t, http.MethodDelete, "/api/v1/menu/"+pizza+"/recipe", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/menu/"+pizza+"/recipe", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// without a recipe, availability is managed by hand again
	w = ts.do(t, http.MethodPut, "/api/v1/menu/"+pizza+"/availability", map[string]interface{}{"available": false})
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/v1/menu/"+pizza, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(t, http.MethodGet, "/api/v1/menu/"+pizza, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
