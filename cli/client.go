package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

const defaultBaseURL = "http://localhost:8080"

// ApiClient handles requests to the RestoPlus ledger API
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewApiClient creates a client for RESTOPLUS_API_URL, or the local default
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("RESTOPLUS_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &ApiClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
	}
}

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Money mirrors the server's amount and currency pair
type Money struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func (m Money) String() string {
	amount := m.Amount
	if f, err := strconv.ParseFloat(m.Amount, 64); err == nil {
		amount = strconv.FormatFloat(f, 'f', 2, 64)
	}
	return amount + " " + m.Currency
}

// InventoryItem is an ingredient as listed by the API, quantities in base units
type InventoryItem struct {
	ID              string `json:"id"`
	SKU             string `json:"sku"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	CurrentStock    string `json:"current_stock"`
	MinimumStock    string `json:"minimum_stock"`
	ReorderLevel    string `json:"reorder_level"`
	Unit            string `json:"unit"`
	UnitCost        Money  `json:"unit_cost"`
	Supplier        string `json:"supplier"`
	Status          string `json:"status"`
	StockPercentage string `json:"stock_percentage"`
	StockValue      Money  `json:"stock_value"`
	Display         string `json:"display"`
}

// MenuItem is a dish and its current availability
type MenuItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       Money  `json:"price"`
	IsAvailable bool   `json:"is_available"`
	RecipeID    string `json:"recipe_id,omitempty"`
}

// Summary holds the stock totals shown on the dashboard
type Summary struct {
	TotalItems    int               `json:"total_items"`
	LowStock      int               `json:"low_stock"`
	CriticalStock int               `json:"critical_stock"`
	OutOfStock    int               `json:"out_of_stock"`
	TotalValue    map[string]string `json:"total_value"`
	NeedsReorder  []string          `json:"needs_reorder"`
}

// Shortage is one ingredient that cannot cover an order
type Shortage struct {
	InventoryItemID string `json:"inventory_item_id"`
	Name            string `json:"name"`
	Unit            string `json:"unit"`
	Required        string `json:"required"`
	OnHand          string `json:"on_hand"`
}

// Availability explains whether a quantity of a menu item can be produced
type Availability struct {
	MenuItemID   string     `json:"menu_item_id"`
	Quantity     int        `json:"quantity"`
	Status       string     `json:"status"`
	Shortages    []Shortage `json:"shortages,omitempty"`
	MissingItems []string   `json:"missing_items,omitempty"`
}

type orderLine struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}
	return true, nil
}

// GetInventory lists inventory items, optionally filtered by stock status
func (c *ApiClient) GetInventory(status string) ([]InventoryItem, error) {
	path := "/api/v1/inventory"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var items []InventoryItem
	if err := c.do(http.MethodGet, path, nil, &items, http.StatusOK); err != nil {
		return nil, err
	}
	return items, nil
}

// GetSummary retrieves the stock summary
func (c *ApiClient) GetSummary() (*Summary, error) {
	var s Summary
	if err := c.do(http.MethodGet, "/api/v1/inventory/summary", nil, &s, http.StatusOK); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetMenu lists menu items
func (c *ApiClient) GetMenu() ([]MenuItem, error) {
	var items []MenuItem
	if err := c.do(http.MethodGet, "/api/v1/menu", nil, &items, http.StatusOK); err != nil {
		return nil, err
	}
	return items, nil
}

// CheckAvailability asks whether quantity units of a menu item can be produced
func (c *ApiClient) CheckAvailability(menuItemID string, quantity int) (*Availability, error) {
	path := fmt.Sprintf("/api/v1/menu/%s/availability?quantity=%d", url.PathEscape(menuItemID), quantity)
	var a Availability
	if err := c.do(http.MethodGet, path, nil, &a, http.StatusOK); err != nil {
		return nil, err
	}
	return &a, nil
}

// DeductOrder consumes stock for an order line. When stock is short it
// returns false along with the server's availability breakdown.
func (c *ApiClient) DeductOrder(menuItemID string, quantity int) (bool, *Availability, error) {
	var resp struct {
		Deducted     bool          `json:"deducted"`
		Availability *Availability `json:"availability"`
	}
	err := c.do(http.MethodPost, "/api/v1/orders/deduct", orderLine{menuItemID, quantity}, &resp,
		http.StatusOK, http.StatusConflict)
	if err != nil {
		return false, nil, err
	}
	return resp.Deducted, resp.Availability, nil
}

// RestoreOrder returns the stock of a cancelled order line
func (c *ApiClient) RestoreOrder(menuItemID string, quantity int) error {
	return c.do(http.MethodPost, "/api/v1/orders/restore", orderLine{menuItemID, quantity}, nil, http.StatusOK)
}

// do sends a JSON request and decodes the response into out when the status
// is one of accept.
func (c *ApiClient) do(method, path string, in, out interface{}, accept ...int) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	for _, code := range accept {
		if resp.StatusCode == code {
			if out == nil || len(data) == 0 {
				return nil
			}
			return json.Unmarshal(data, out)
		}
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(data, &apiErr)
	return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
}
