package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem represents an ingredient held in stock.
// All quantities are expressed in the item's base unit.
type InventoryItem struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinimumStock  decimal.Decimal `json:"minimum_stock"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
	Unit          Unit            `json:"unit"`
	UnitCost      Money           `json:"unit_cost"`
	LastRestocked time.Time       `json:"last_restocked"`
	Supplier      string          `json:"supplier"`
}

// InventoryItemUpdate carries a partial update; nil fields are left untouched.
type InventoryItemUpdate struct {
	SKU           *string          `json:"sku,omitempty"`
	Name          *string          `json:"name,omitempty"`
	Category      *string          `json:"category,omitempty"`
	CurrentStock  *decimal.Decimal `json:"current_stock,omitempty"`
	MinimumStock  *decimal.Decimal `json:"minimum_stock,omitempty"`
	ReorderLevel  *decimal.Decimal `json:"reorder_level,omitempty"`
	Unit          *Unit            `json:"unit,omitempty"`
	UnitCost      *Money           `json:"unit_cost,omitempty"`
	LastRestocked *time.Time       `json:"last_restocked,omitempty"`
	Supplier      *string          `json:"supplier,omitempty"`
}

// Apply merges the update into item and reports whether the stock level changed.
func (u InventoryItemUpdate) Apply(item *InventoryItem) (stockChanged bool) {
	if u.SKU != nil {
		item.SKU = *u.SKU
	}
	if u.Name != nil {
		item.Name = *u.Name
	}
	if u.Category != nil {
		item.Category = *u.Category
	}
	if u.CurrentStock != nil && !u.CurrentStock.Equal(item.CurrentStock) {
		item.CurrentStock = *u.CurrentStock
		stockChanged = true
	}
	if u.MinimumStock != nil {
		item.MinimumStock = *u.MinimumStock
	}
	if u.ReorderLevel != nil {
		item.ReorderLevel = *u.ReorderLevel
	}
	if u.Unit != nil {
		item.Unit = *u.Unit
	}
	if u.UnitCost != nil {
		item.UnitCost = *u.UnitCost
	}
	if u.LastRestocked != nil {
		item.LastRestocked = *u.LastRestocked
	}
	if u.Supplier != nil {
		item.Supplier = *u.Supplier
	}
	return stockChanged
}

// InventoryCategory groups inventory items for filtering
type InventoryCategory string

const (
	// Inventory categories used by the seed data and the dashboard filters
	CategoryDryGoods InventoryCategory = "Dry Goods"
	CategoryDairy    InventoryCategory = "Dairy"
	CategorySauces   InventoryCategory = "Sauces"
	CategoryMeat     InventoryCategory = "Meat"
	CategoryOils     InventoryCategory = "Oils"
	CategoryHerbs    InventoryCategory = "Herbs"
)

// StockStatus represents how close an item is to running out
type StockStatus string

const (
	StockStatusGood     StockStatus = "good"
	StockStatusLow      StockStatus = "low"
	StockStatusCritical StockStatus = "critical"
)

// Unit represents a unit of measurement accepted by the ledger.
type Unit string

const (
	// Base units; stock and recipe quantities are always stored in one of these
	UnitGram       Unit = "g"
	UnitMilliliter Unit = "ml"
	UnitPiece      Unit = "pcs"

	// Input units converted on ingestion
	UnitKilogram Unit = "KG"
	UnitLiter    Unit = "L"
	UnitPound    Unit = "LB"
	UnitGallon   Unit = "GAL"
	UnitOunce    Unit = "OZ"
)

// IsBase reports whether u is one of the base units.
func (u Unit) IsBase() bool {
	switch u {
	case UnitGram, UnitMilliliter, UnitPiece:
		return true
	}
	return false
}
