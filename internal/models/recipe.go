package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// Recipe maps one menu item to the ingredients consumed per unit sold
type Recipe struct {
	ID          string         `json:"id"`
	MenuItemID  string         `json:"menu_item_id"`
	Ingredients IngredientList `json:"ingredients"`
}

// RecipeIngredient is a single line of a recipe, quantity in the inventory item's base unit
type RecipeIngredient struct {
	InventoryItemID string          `json:"inventory_item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            Unit            `json:"unit"`
}

// RecipeUpdate carries a partial recipe update
type RecipeUpdate struct {
	MenuItemID  *string         `json:"menu_item_id,omitempty"`
	Ingredients *IngredientList `json:"ingredients,omitempty"`
}

// Uses reports whether the recipe consumes the given inventory item
func (r Recipe) Uses(inventoryItemID string) bool {
	for _, ing := range r.Ingredients {
		if ing.InventoryItemID == inventoryItemID {
			return true
		}
	}
	return false
}

// IngredientList represents an ordered ingredient list that can be stored in the database
type IngredientList []RecipeIngredient

// Value converts the list to a JSON string for storage
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan converts the database value back to a list
func (l *IngredientList) Scan(value interface{}) error {
	if value == nil {
		*l = IngredientList{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for IngredientList")
	}
}

// Clone returns a copy that shares no backing array with l
func (l IngredientList) Clone() IngredientList {
	if l == nil {
		return nil
	}
	out := make(IngredientList, len(l))
	copy(out, l)
	return out
}
