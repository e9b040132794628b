package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"restoplus/internal/models"
	"restoplus/internal/units"
)

type ingredientRequest struct {
	InventoryItemID string          `json:"inventory_item_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
}

type recipeRequest struct {
	MenuItemID  string              `json:"menu_item_id" binding:"required"`
	Ingredients []ingredientRequest `json:"ingredients" binding:"required,dive"`
}

type recipeUpdateRequest struct {
	MenuItemID  *string              `json:"menu_item_id"`
	Ingredients *[]ingredientRequest `json:"ingredients" binding:"omitempty,dive"`
}

// ingredients converts posted quantities into base units.
func ingredients(reqs []ingredientRequest) (models.IngredientList, error) {
	out := make(models.IngredientList, 0, len(reqs))
	for _, r := range reqs {
		ing := models.RecipeIngredient{InventoryItemID: r.InventoryItemID, Quantity: r.Quantity}
		if r.Unit != "" {
			u, err := units.Parse(r.Unit)
			if err != nil {
				return nil, err
			}
			ing.Quantity, ing.Unit, err = units.ToBaseUnit(r.Quantity, u)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, ing)
	}
	return out, nil
}

func (s *Server) listRecipes(c *gin.Context) {
	c.JSON(http.StatusOK, s.ledger.ListRecipes())
}

func (s *Server) createRecipe(c *gin.Context) {
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ings, err := ingredients(req.Ingredients)
	if err != nil {
		s.writeError(c, err)
		return
	}
	r, err := s.ledger.AddRecipe(c.Request.Context(), models.Recipe{MenuItemID: req.MenuItemID, Ingredients: ings})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (s *Server) getRecipe(c *gin.Context) {
	r, err := s.ledger.GetRecipe(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) updateRecipe(c *gin.Context) {
	var req recipeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u := models.RecipeUpdate{MenuItemID: req.MenuItemID}
	if req.Ingredients != nil {
		ings, err := ingredients(*req.Ingredients)
		if err != nil {
			s.writeError(c, err)
			return
		}
		u.Ingredients = &ings
	}
	r, err := s.ledger.UpdateRecipe(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
