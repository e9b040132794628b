package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"restoplus/internal/models"
)

var hundred = decimal.NewFromInt(100)

// StockStatus classifies an item against its thresholds: critical below the
// minimum, low below the reorder level, good otherwise.
func StockStatus(item models.InventoryItem) models.StockStatus {
	switch {
	case item.CurrentStock.LessThan(item.MinimumStock):
		return models.StockStatusCritical
	case item.CurrentStock.LessThan(item.ReorderLevel):
		return models.StockStatusLow
	}
	return models.StockStatusGood
}

// StockPercentage is current stock as a percentage of the reorder level,
// rounded to one decimal place. A zero reorder level reports 100.
func StockPercentage(item models.InventoryItem) decimal.Decimal {
	if item.ReorderLevel.Sign() <= 0 {
		return hundred
	}
	return item.CurrentStock.Div(item.ReorderLevel).Mul(hundred).Round(1)
}

// StockValue is the value of the stock on hand at its unit cost.
func StockValue(item models.InventoryItem) models.Money {
	return item.UnitCost.Mul(item.CurrentStock)
}

// Summary aggregates stock status over a set of items.
type Summary struct {
	TotalItems    int                        `json:"total_items"`
	LowStock      int                        `json:"low_stock"`
	CriticalStock int                        `json:"critical_stock"`
	OutOfStock    int                        `json:"out_of_stock"`
	TotalValue    map[string]decimal.Decimal `json:"total_value"`
	NeedsReorder  []string                   `json:"needs_reorder"`
}

// Summarize computes totals per currency and counts per status. NeedsReorder
// lists the SKUs of low and critical items in order.
func Summarize(items []models.InventoryItem) Summary {
	s := Summary{
		TotalItems:   len(items),
		TotalValue:   make(map[string]decimal.Decimal),
		NeedsReorder: []string{},
	}
	for _, item := range items {
		v := StockValue(item)
		s.TotalValue[v.Currency] = s.TotalValue[v.Currency].Add(v.Amount)

		switch StockStatus(item) {
		case models.StockStatusCritical:
			s.CriticalStock++
			s.NeedsReorder = append(s.NeedsReorder, item.SKU)
		case models.StockStatusLow:
			s.LowStock++
			s.NeedsReorder = append(s.NeedsReorder, item.SKU)
		}
		if item.CurrentStock.Sign() <= 0 {
			s.OutOfStock++
		}
	}
	sort.Strings(s.NeedsReorder)
	return s
}

// Summary returns the stock summary for every item in the ledger.
func (l *Ledger) Summary() Summary {
	return Summarize(l.ListInventoryItems(InventoryFilter{}))
}
