package models

// MenuItem represents a dish on the menu.
// IsAvailable is derived by the ledger once a recipe is registered for the item.
type MenuItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       Money  `json:"price"`
	IsAvailable bool   `json:"is_available"`
	RecipeID    string `json:"recipe_id,omitempty"`
}

// MenuItemUpdate carries a partial update of the fields owned by menu management.
// Availability is deliberately absent; see Ledger.SetMenuItemAvailability.
type MenuItemUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Price       *Money  `json:"price,omitempty"`
}

// Apply merges the update into item
func (u MenuItemUpdate) Apply(item *MenuItem) {
	if u.Name != nil {
		item.Name = *u.Name
	}
	if u.Description != nil {
		item.Description = *u.Description
	}
	if u.Category != nil {
		item.Category = *u.Category
	}
	if u.Price != nil {
		item.Price = *u.Price
	}
}

// MenuCategory represents the category of a menu item
type MenuCategory string

// MenuCategoryMainCourse is the category the seeded pizzas are listed under
const MenuCategoryMainCourse MenuCategory = "Main Course"
