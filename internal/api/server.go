// Package api serves the inventory ledger over HTTP.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restoplus/internal/ledger"
	"restoplus/internal/models"
	"restoplus/internal/units"
)

// Server represents the HTTP API of the ledger
type Server struct {
	router   *gin.Engine
	ledger   *ledger.Ledger
	hub      *Hub
	logger   *zap.Logger
	currency string
	now      func() time.Time
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the request and error logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHub enables the /ws event stream
func WithHub(hub *Hub) Option {
	return func(s *Server) { s.hub = hub }
}

// WithCurrency sets the currency assumed for amounts posted without one
func WithCurrency(currency string) Option {
	return func(s *Server) {
		if currency != "" {
			s.currency = currency
		}
	}
}

// WithClock overrides the ingestion date used when normalising inventory input
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer creates a new API server for l
func NewServer(l *ledger.Ledger, opts ...Option) *Server {
	s := &Server{
		router:   gin.New(),
		ledger:   l,
		logger:   zap.NewNop(),
		currency: models.DefaultCurrency,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(requestLogger(s.logger), gin.Recovery())
	s.setupRoutes()
	return s
}

// Router returns the Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "RestoPlus inventory ledger is running"})
	})
	if s.hub != nil {
		s.router.GET("/ws", s.hub.ServeWS)
	}

	v1 := s.router.Group("/api/v1")
	{
		// Inventory
		v1.GET("/inventory", s.listInventory)
		v1.POST("/inventory", s.createInventoryItem)
		v1.GET("/inventory/summary", s.inventorySummary)
		v1.GET("/inventory/:id", s.getInventoryItem)
		v1.PATCH("/inventory/:id", s.updateInventoryItem)
		v1.DELETE("/inventory/:id", s.deleteInventoryItem)
		v1.POST("/inventory/:id/restock", s.restockInventoryItem)
		v1.POST("/inventory/:id/adjust", s.adjustStock)

		// Recipes
		v1.GET("/recipes", s.listRecipes)
		v1.POST("/recipes", s.createRecipe)
		v1.GET("/recipes/:id", s.getRecipe)
		v1.PATCH("/recipes/:id", s.updateRecipe)

		// Menu
		v1.GET("/menu", s.listMenuItems)
		v1.POST("/menu", s.createMenuItem)
		v1.GET("/menu/:id", s.getMenuItem)
		v1.PATCH("/menu/:id", s.updateMenuItem)
		v1.DELETE("/menu/:id", s.deleteMenuItem)
		v1.GET("/menu/:id/recipe", s.getMenuItemRecipe)
		v1.DELETE("/menu/:id/recipe", s.deleteMenuItemRecipe)
		v1.GET("/menu/:id/availability", s.checkAvailability)
		v1.PUT("/menu/:id/availability", s.setAvailability)

		// Orders
		v1.POST("/orders/deduct", s.deductOrder)
		v1.POST("/orders/restore", s.restoreOrder)
	}
}

// writeError maps ledger errors onto HTTP status codes.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case ledger.IsNotFound(err):
		status = http.StatusNotFound
	case ledger.IsValidation(err), errors.Is(err, units.ErrUnknownUnit):
		status = http.StatusBadRequest
	case ledger.IsConflict(err):
		status = http.StatusConflict
	default:
		s.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// requestLogger logs every request through zap in place of gin's default logger.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Debug("request", fields...)
		}
	}
}
