package database

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"restoplus/internal/ledger"
	"restoplus/internal/models"
)

type seedIngredient struct {
	item     models.InventoryItem
	restock  string
	perPizza map[string]string // menu item name -> quantity per unit
}

func seedDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func cost(s string) models.Money {
	return models.NewMoney(qty(s), models.DefaultCurrency)
}

const (
	pepperoniPizza  = "Pepperoni Pizza"
	margheritaPizza = "Margherita Pizza"
)

var seedIngredients = []seedIngredient{
	{
		item: models.InventoryItem{SKU: "ING-001", Name: "Flour", Category: string(models.CategoryDryGoods),
			CurrentStock: qty("25000"), MinimumStock: qty("5000"), ReorderLevel: qty("10000"),
			Unit: models.UnitGram, UnitCost: cost("0.10"), Supplier: "Grain Suppliers Co."},
		restock:  "2024-10-18",
		perPizza: map[string]string{pepperoniPizza: "250", margheritaPizza: "250"},
	},
	{
		item: models.InventoryItem{SKU: "ING-002", Name: "Cheese (Mozzarella)", Category: string(models.CategoryDairy),
			CurrentStock: qty("2500"), MinimumStock: qty("500"), ReorderLevel: qty("1000"),
			Unit: models.UnitGram, UnitCost: cost("0.60"), Supplier: "Dairy Delights"},
		restock:  "2024-10-19",
		perPizza: map[string]string{pepperoniPizza: "25", margheritaPizza: "30"},
	},
	{
		item: models.InventoryItem{SKU: "ING-003", Name: "Tomato Sauce", Category: string(models.CategorySauces),
			CurrentStock: qty("2500"), MinimumStock: qty("500"), ReorderLevel: qty("1000"),
			Unit: models.UnitGram, UnitCost: cost("0.20"), Supplier: "Italian Imports"},
		restock:  "2024-10-20",
		perPizza: map[string]string{pepperoniPizza: "25", margheritaPizza: "30"},
	},
	{
		item: models.InventoryItem{SKU: "ING-004", Name: "Pepperoni", Category: string(models.CategoryMeat),
			CurrentStock: qty("5000"), MinimumStock: qty("1000"), ReorderLevel: qty("2000"),
			Unit: models.UnitGram, UnitCost: cost("0.75"), Supplier: "Fresh Meats Co."},
		restock:  "2024-10-18",
		perPizza: map[string]string{pepperoniPizza: "50"},
	},
	{
		item: models.InventoryItem{SKU: "ING-005", Name: "Olive Oil", Category: string(models.CategoryOils),
			CurrentStock: qty("5000"), MinimumStock: qty("1000"), ReorderLevel: qty("2000"),
			Unit: models.UnitMilliliter, UnitCost: cost("0.40"), Supplier: "Mediterranean Imports"},
		restock:  "2024-10-15",
		perPizza: map[string]string{pepperoniPizza: "10", margheritaPizza: "10"},
	},
	{
		item: models.InventoryItem{SKU: "ING-006", Name: "Basil (Fresh)", Category: string(models.CategoryHerbs),
			CurrentStock: qty("200"), MinimumStock: qty("50"), ReorderLevel: qty("100"),
			Unit: models.UnitGram, UnitCost: cost("2.50"), Supplier: "Farm Fresh Produce"},
		restock:  "2024-10-21",
		perPizza: map[string]string{margheritaPizza: "5"},
	},
}

var seedMenu = []models.MenuItem{
	{
		Name:        pepperoniPizza,
		Description: "Classic pizza with pepperoni, mozzarella, and tomato sauce",
		Category:    string(models.MenuCategoryMainCourse),
		Price:       cost("750.00"),
		IsAvailable: true,
	},
	{
		Name:        margheritaPizza,
		Description: "Traditional pizza with fresh mozzarella, tomato sauce, and basil",
		Category:    string(models.MenuCategoryMainCourse),
		Price:       cost("650.00"),
		IsAvailable: true,
	},
}

// Seed fills an empty ledger with the default pizzeria: six ingredients, two
// pizzas and their recipes. A ledger that already holds inventory is left alone.
func Seed(ctx context.Context, l *ledger.Ledger, logger *zap.Logger) error {
	if len(l.ListInventoryItems(ledger.InventoryFilter{})) > 0 {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	recipes := make(map[string]models.IngredientList)
	for _, ing := range seedIngredients {
		item := ing.item
		item.LastRestocked = seedDate(ing.restock)
		added, err := l.AddInventoryItem(ctx, item)
		if err != nil {
			return fmt.Errorf("seed inventory item %s: %w", item.SKU, err)
		}
		for _, mi := range seedMenu {
			if q, ok := ing.perPizza[mi.Name]; ok {
				recipes[mi.Name] = append(recipes[mi.Name], models.RecipeIngredient{
					InventoryItemID: added.ID,
					Quantity:        qty(q),
					Unit:            added.Unit,
				})
			}
		}
	}

	for _, mi := range seedMenu {
		added, err := l.AddMenuItem(ctx, mi)
		if err != nil {
			return fmt.Errorf("seed menu item %s: %w", mi.Name, err)
		}
		if _, err := l.AddRecipe(ctx, models.Recipe{MenuItemID: added.ID, Ingredients: recipes[mi.Name]}); err != nil {
			return fmt.Errorf("seed recipe for %s: %w", mi.Name, err)
		}
	}

	logger.Info("seeded default inventory",
		zap.Int("inventory_items", len(seedIngredients)),
		zap.Int("menu_items", len(seedMenu)),
	)
	return nil
}
