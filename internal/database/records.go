package database

import (
	"time"

	"github.com/shopspring/decimal"

	"restoplus/internal/models"
)

// Quantities and amounts are stored as text so that SQLite does not round them
// through float64.

type inventoryItemRecord struct {
	ID               string          `gorm:"primary_key;type:varchar(64)"`
	SKU              string          `gorm:"type:varchar(64);index"`
	Name             string          `gorm:"not null"`
	Category         string          `gorm:"type:varchar(64)"`
	CurrentStock     decimal.Decimal `gorm:"type:varchar(64);not null"`
	MinimumStock     decimal.Decimal `gorm:"type:varchar(64);not null"`
	ReorderLevel     decimal.Decimal `gorm:"type:varchar(64);not null"`
	Unit             string          `gorm:"type:varchar(8);not null"`
	UnitCostAmount   decimal.Decimal `gorm:"type:varchar(64);not null"`
	UnitCostCurrency string          `gorm:"type:varchar(3);not null"`
	LastRestocked    time.Time
	Supplier         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (inventoryItemRecord) TableName() string { return "inventory_items" }

func newInventoryItemRecord(item models.InventoryItem) inventoryItemRecord {
	return inventoryItemRecord{
		ID:               item.ID,
		SKU:              item.SKU,
		Name:             item.Name,
		Category:         item.Category,
		CurrentStock:     item.CurrentStock,
		MinimumStock:     item.MinimumStock,
		ReorderLevel:     item.ReorderLevel,
		Unit:             string(item.Unit),
		UnitCostAmount:   item.UnitCost.Amount,
		UnitCostCurrency: item.UnitCost.Currency,
		LastRestocked:    item.LastRestocked,
		Supplier:         item.Supplier,
	}
}

func (r inventoryItemRecord) model() models.InventoryItem {
	return models.InventoryItem{
		ID:            r.ID,
		SKU:           r.SKU,
		Name:          r.Name,
		Category:      r.Category,
		CurrentStock:  r.CurrentStock,
		MinimumStock:  r.MinimumStock,
		ReorderLevel:  r.ReorderLevel,
		Unit:          models.Unit(r.Unit),
		UnitCost:      models.Money{Amount: r.UnitCostAmount, Currency: r.UnitCostCurrency},
		LastRestocked: r.LastRestocked.UTC(),
		Supplier:      r.Supplier,
	}
}

type recipeRecord struct {
	ID          string                `gorm:"primary_key;type:varchar(64)"`
	MenuItemID  string                `gorm:"type:varchar(64);unique_index;not null"`
	Ingredients models.IngredientList `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (recipeRecord) TableName() string { return "recipes" }

func newRecipeRecord(r models.Recipe) recipeRecord {
	return recipeRecord{ID: r.ID, MenuItemID: r.MenuItemID, Ingredients: r.Ingredients}
}

func (r recipeRecord) model() models.Recipe {
	return models.Recipe{ID: r.ID, MenuItemID: r.MenuItemID, Ingredients: r.Ingredients}
}

type menuItemRecord struct {
	ID            string          `gorm:"primary_key;type:varchar(64)"`
	Name          string          `gorm:"not null"`
	Description   string          `gorm:"type:text"`
	Category      string          `gorm:"type:varchar(64)"`
	PriceAmount   decimal.Decimal `gorm:"type:varchar(64);not null"`
	PriceCurrency string          `gorm:"type:varchar(3);not null"`
	IsAvailable   bool
	RecipeID      string `gorm:"type:varchar(64)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (menuItemRecord) TableName() string { return "menu_items" }

func newMenuItemRecord(mi models.MenuItem) menuItemRecord {
	return menuItemRecord{
		ID:            mi.ID,
		Name:          mi.Name,
		Description:   mi.Description,
		Category:      mi.Category,
		PriceAmount:   mi.Price.Amount,
		PriceCurrency: mi.Price.Currency,
		IsAvailable:   mi.IsAvailable,
		RecipeID:      mi.RecipeID,
	}
}

func (r menuItemRecord) model() models.MenuItem {
	return models.MenuItem{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       models.Money{Amount: r.PriceAmount, Currency: r.PriceCurrency},
		IsAvailable: r.IsAvailable,
		RecipeID:    r.RecipeID,
	}
}
