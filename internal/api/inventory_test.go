package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restoplus/internal/ledger"
	"restoplus/internal/models"
)

type itemResponse struct {
	models.InventoryItem
	Status          models.StockStatus `json:"status"`
	StockPercentage decimal.Decimal    `json:"stock_percentage"`
	StockValue      models.Money       `json:"stock_value"`
	Display         string             `json:"display"`
}

func TestListInventory(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/v1/inventory", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []itemResponse
	decode(t, w, &items)
	require.Len(t, items, 6)
	assert.Equal(t, "Basil (Fresh)", items[0].Name)

	for _, item := range items {
		if item.SKU == "ING-001" {
			assert.Equal(t, "25.00 kg", item.Display)
			assert.Equal(t, models.StockStatusGood, item.Status)
			assert.True(t, decimal.NewFromInt(250).Equal(item.StockPercentage))
			assert.True(t, decimal.NewFromInt(2500).Equal(item.StockValue.Amount))
		}
	}
}

func TestListInventoryFilters(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/v1/inventory?category=dairy", nil)
	var items []itemResponse
	decode(t, w, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "ING-002", items[0].SKU)

	w = ts.do(t, http.MethodGet, "/api/v1/inventory?search=oil", nil)
	decode(t, w, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Olive Oil", items[0].Name)
}

func TestCreateInventoryItemNormalisesUnits(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/inventory", map[string]interface{}{
		"sku":           "ING-007",
		"name":          "Parmesan",
		"category":      "Dairy",
		"unit":          "kg",
		"current_stock": "2",
		"minimum_stock": "0.5",
		"reorder_level": "1",
		"unit_cost":     "900",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var item itemResponse
	decode(t, w, &item)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, models.UnitGram, item.Unit)
	assert.True(t, decimal.NewFromInt(2000).Equal(item.CurrentStock))
	assert.True(t, decimal.NewFromInt(500).Equal(item.MinimumStock))
	assert.True(t, decimal.RequireFromString("0.9").Equal(item.UnitCost.Amount))
	assert.Equal(t, models.DefaultCurrency, item.UnitCost.Currency)
	assert.True(t, testNow.Truncate(24*time.Hour).Equal(item.LastRestocked))
}

func TestCreateInventoryItemValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing sku", map[string]interface{}{"name": "Salt", "unit": "g", "current_stock": 1, "minimum_stock": 1, "reorder_level": 1}},
		{"zero stock", map[string]interface{}{"sku": "X-1", "name": "Salt", "unit": "g", "current_stock": 0, "minimum_stock": 1, "reorder_level": 1}},
		{"minimum above reorder", map[string]interface{}{"sku": "X-2", "name": "Salt", "unit": "g", "current_stock": 10, "minimum_stock": 5, "reorder_level": 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/v1/inventory", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	assert.Len(t, ts.l.ListInventoryItems(ledger.InventoryFilter{}), 6)
}

func TestRestockConvertsUnits(t *testing.T) {
	ts := newTestServer(t)
	id := ts.sku["ING-001"]

	w := ts.do(t, http.MethodPost, "/api/v1/inventory/"+id+"/restock", map[string]interface{}{
		"quantity": "1.5",
		"unit":     "kg",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decimal.NewFromInt(26500).Equal(ts.stock(t, "ING-001")))

	w = ts.do(t, http.MethodPost, "/api/v1/inventory/"+id+"/restock", map[string]interface{}{
		"quantity": "1",
		"unit":     "l",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/inventory/"+id+"/restock", map[string]interface{}{
		"quantity": "-3",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, decimal.NewFromInt(26500).Equal(ts.stock(t, "ING-001")))
}

func TestAdjustStock(t *testing.T) {
	ts := newTestServer(t)
	id := ts.sku["ING-006"]

	w := ts.do(t, http.MethodPost, "/api/v1/inventory/"+id+"/adjust", map[string]interface{}{
		"delta":  "-20",
		"reason": "wilted",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decimal.NewFromInt(180).Equal(ts.stock(t, "ING-006")))

	w = ts.do(t, http.MethodPost, "/api/v1/inventory/"+id+"/adjust", map[string]interface{}{
		"delta":  "-500",
		"reason": "count",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/inventory/"+id+"/adjust", map[string]interface{}{
		"delta": "5",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, decimal.NewFromInt(180).Equal(ts.stock(t, "ING-006")))
}

func TestUpdateAndDeleteInventoryItem(t *testing.T) {
	ts := newTestServer(t)
	id := ts.sku["ING-004"]

	w := ts.do(t, http.MethodPatch, "/api/v1/inventory/"+id, map[string]interface{}{
		"supplier": "Local Butcher",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var item itemResponse
	decode(t, w, &item)
	assert.Equal(t, "Local Butcher", item.Supplier)
	assert.Equal(t, "Pepperoni", item.Name)

	w = ts.do(t, http.MethodDelete, "/api/v1/inventory/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/inventory/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	mi, err := ts.l.GetMenuItem(ts.menu["Pepperoni Pizza"])
	require.NoError(t, err)
	assert.False(t, mi.IsAvailable)
}

func TestInventorySummary(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/v1/inventory/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var s ledger.Summary
	decode(t, w, &s)
	assert.Equal(t, 6, s.TotalItems)
	assert.Zero(t, s.LowStock)
	assert.Empty(t, s.NeedsReorder)
	assert.True(t, decimal.NewFromInt(10750).Equal(s.TotalValue[models.DefaultCurrency]))
}
