package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"restoplus/internal/ledger"
	"restoplus/internal/models"
	"restoplus/internal/units"
)

// inventoryItemResponse adds the derived stock fields to an item.
type inventoryItemResponse struct {
	models.InventoryItem
	Status          models.StockStatus `json:"status"`
	StockPercentage decimal.Decimal    `json:"stock_percentage"`
	StockValue      models.Money       `json:"stock_value"`
	Display         string             `json:"display"`
}

func newInventoryItemResponse(item models.InventoryItem) inventoryItemResponse {
	return inventoryItemResponse{
		InventoryItem:   item,
		Status:          ledger.StockStatus(item),
		StockPercentage: ledger.StockPercentage(item),
		StockValue:      ledger.StockValue(item),
		Display:         units.FormatQuantity(item.CurrentStock, item.Unit),
	}
}

func (s *Server) listInventory(c *gin.Context) {
	filter := ledger.InventoryFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Status:   models.StockStatus(c.Query("status")),
	}
	items := s.ledger.ListInventoryItems(filter)
	out := make([]inventoryItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, newInventoryItemResponse(item))
	}
	c.JSON(http.StatusOK, out)
}

// createInventoryItem is the ingestion boundary: input is converted to base
// units and held to the strict data-quality rules before it reaches the ledger.
func (s *Server) createInventoryItem(c *gin.Context) {
	var in units.InventoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	if in.Currency == "" {
		in.Currency = s.currency
	}

	item, err := units.NormalizeInventoryInput(in, s.now())
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := ledger.Validate(item); err != nil {
		s.writeError(c, err)
		return
	}

	added, err := s.ledger.AddInventoryItem(c.Request.Context(), item)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newInventoryItemResponse(added))
}

func (s *Server) inventorySummary(c *gin.Context) {
	c.JSON(http.StatusOK, s.ledger.Summary())
}

func (s *Server) getInventoryItem(c *gin.Context) {
	item, err := s.ledger.GetInventoryItem(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newInventoryItemResponse(item))
}

func (s *Server) updateInventoryItem(c *gin.Context) {
	var u models.InventoryItemUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		badRequest(c, err)
		return
	}
	item, err := s.ledger.UpdateInventoryItem(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newInventoryItemResponse(item))
}

func (s *Server) deleteInventoryItem(c *gin.Context) {
	if err := s.ledger.DeleteInventoryItem(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type restockRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

// toItemUnit converts a quantity entered in unit into the base unit of item.
func toItemUnit(item models.InventoryItem, qty decimal.Decimal, unit string) (decimal.Decimal, error) {
	if unit == "" {
		return qty, nil
	}
	u, err := units.Parse(unit)
	if err != nil {
		return decimal.Zero, err
	}
	converted, base, err := units.ToBaseUnit(qty, u)
	if err != nil {
		return decimal.Zero, err
	}
	if base != item.Unit {
		return decimal.Zero, ledger.ValidationError{
			Field:   "unit",
			Message: fmt.Sprintf("%s cannot be converted to %s", unit, item.Unit),
		}
	}
	return converted, nil
}

func (s *Server) restockInventoryItem(c *gin.Context) {
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := s.ledger.GetInventoryItem(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	qty, err := toItemUnit(item, req.Quantity, req.Unit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	item, err = s.ledger.RestockInventoryItem(c.Request.Context(), item.ID, qty)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newInventoryItemResponse(item))
}

type adjustRequest struct {
	Delta  decimal.Decimal `json:"delta"`
	Unit   string          `json:"unit"`
	Reason string          `json:"reason" binding:"required"`
}

func (s *Server) adjustStock(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := s.ledger.GetInventoryItem(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	delta, err := toItemUnit(item, req.Delta, req.Unit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	item, err = s.ledger.AdjustStock(c.Request.Context(), item.ID, delta, req.Reason)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newInventoryItemResponse(item))
}
