package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"restoplus/internal/ledger"
	"restoplus/internal/models"
)

func (s *Server) withCurrency(m models.Money) models.Money {
	if m.Currency == "" {
		m.Currency = s.currency
	}
	return m
}

func (s *Server) listMenuItems(c *gin.Context) {
	c.JSON(http.StatusOK, s.ledger.ListMenuItems(c.Query("category")))
}

func (s *Server) createMenuItem(c *gin.Context) {
	var mi models.MenuItem
	if err := c.ShouldBindJSON(&mi); err != nil {
		badRequest(c, err)
		return
	}
	mi.Price = s.withCurrency(mi.Price)
	added, err := s.ledger.AddMenuItem(c.Request.Context(), mi)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, added)
}

func (s *Server) getMenuItem(c *gin.Context) {
	mi, err := s.ledger.GetMenuItem(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mi)
}

func (s *Server) updateMenuItem(c *gin.Context) {
	var u models.MenuItemUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		badRequest(c, err)
		return
	}
	if u.Price != nil {
		p := s.withCurrency(*u.Price)
		u.Price = &p
	}
	mi, err := s.ledger.UpdateMenuItem(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mi)
}

func (s *Server) deleteMenuItem(c *gin.Context) {
	if err := s.ledger.DeleteMenuItem(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getMenuItemRecipe(c *gin.Context) {
	r, ok := s.ledger.GetRecipeByMenuItemID(c.Param("id"))
	if !ok {
		s.writeError(c, ledger.ErrRecipeNotFound)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) deleteMenuItemRecipe(c *gin.Context) {
	if err := s.ledger.DeleteRecipe(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// checkAvailability reports whether ?quantity= units (default 1) can be produced.
func (s *Server) checkAvailability(c *gin.Context) {
	quantity := 1
	if q := c.Query("quantity"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			s.writeError(c, ledger.ErrInvalidQuantity)
			return
		}
		quantity = n
	}
	c.JSON(http.StatusOK, s.ledger.Availability(c.Param("id"), quantity))
}

type availabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

func (s *Server) setAvailability(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	mi, err := s.ledger.SetMenuItemAvailability(c.Request.Context(), c.Param("id"), *req.Available)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mi)
}
