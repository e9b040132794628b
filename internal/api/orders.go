package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type orderLineRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required"`
}

// deductOrder consumes stock for a confirmed order line. Insufficient stock is
// a 409 that carries the breakdown the rejected deduction was decided on.
func (s *Server) deductOrder(c *gin.Context) {
	var req orderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	check, err := s.ledger.DeductWithAvailability(c.Request.Context(), req.MenuItemID, req.Quantity)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if !check.OK() {
		c.JSON(http.StatusConflict, gin.H{
			"deducted":     false,
			"availability": check,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deducted": true, "menu_item_id": req.MenuItemID, "quantity": req.Quantity})
}

// restoreOrder returns stock for a cancelled order line.
func (s *Server) restoreOrder(c *gin.Context) {
	var req orderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.ledger.RestoreInventoryForOrder(c.Request.Context(), req.MenuItemID, req.Quantity); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": true, "menu_item_id": req.MenuItemID, "quantity": req.Quantity})
}
