// Package units converts ingestion-time quantities into the ledger's base units.
//
// Stock and recipe quantities are always stored in grams, millilitres or pieces.
// Values entered in kilograms, litres, pounds, gallons or ounces are scaled by a
// fixed factor before they reach the ledger, and unit costs are divided by the
// same factor so that they stay expressed per base unit.
package units

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"restoplus/internal/models"
)

// ErrUnknownUnit is returned for units outside the supported set.
var ErrUnknownUnit = errors.New("units: unknown unit")

type conversion struct {
	base   models.Unit
	factor decimal.Decimal
}

var conversions = map[models.Unit]conversion{
	models.UnitGram:       {base: models.UnitGram, factor: decimal.NewFromInt(1)},
	models.UnitMilliliter: {base: models.UnitMilliliter, factor: decimal.NewFromInt(1)},
	models.UnitPiece:      {base: models.UnitPiece, factor: decimal.NewFromInt(1)},
	models.UnitKilogram:   {base: models.UnitGram, factor: decimal.NewFromInt(1000)},
	models.UnitLiter:      {base: models.UnitMilliliter, factor: decimal.NewFromInt(1000)},
	models.UnitPound:      {base: models.UnitGram, factor: decimal.RequireFromString("453.592")},
	models.UnitGallon:     {base: models.UnitMilliliter, factor: decimal.RequireFromString("3785.41")},
	models.UnitOunce:      {base: models.UnitGram, factor: decimal.RequireFromString("28.3495")},
}

// Parse maps user input such as "kg", "KG" or "Pcs" onto a known unit.
func Parse(s string) (models.Unit, error) {
	trimmed := strings.TrimSpace(s)
	switch strings.ToLower(trimmed) {
	case "g", "gram", "grams":
		return models.UnitGram, nil
	case "ml", "milliliter", "milliliters":
		return models.UnitMilliliter, nil
	case "pcs", "pc", "piece", "pieces":
		return models.UnitPiece, nil
	case "kg":
		return models.UnitKilogram, nil
	case "l":
		return models.UnitLiter, nil
	case "lb":
		return models.UnitPound, nil
	case "gal":
		return models.UnitGallon, nil
	case "oz":
		return models.UnitOunce, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

// ToBaseUnit converts value expressed in u to its base unit.
// Values already in a base unit are returned unchanged.
func ToBaseUnit(value decimal.Decimal, u models.Unit) (decimal.Decimal, models.Unit, error) {
	c, ok := conversions[u]
	if !ok {
		return decimal.Zero, "", fmt.Errorf("%w: %q", ErrUnknownUnit, u)
	}
	if c.base == u {
		return value, u, nil
	}
	return value.Mul(c.factor), c.base, nil
}

// InventoryInput is an inventory item as entered at the ingestion boundary,
// before conversion to base units.
type InventoryInput struct {
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Category      string          `json:"category"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinimumStock  decimal.Decimal `json:"minimum_stock"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
	Unit          string          `json:"unit" binding:"required"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Currency      string          `json:"currency"`
	Supplier      string          `json:"supplier"`
	LastRestocked *time.Time      `json:"last_restocked,omitempty"`
}

// NormalizeInventoryInput converts in into an inventory item stored in base units.
// The unit cost is re-expressed per base unit. now stamps LastRestocked when the
// input does not carry one.
func NormalizeInventoryInput(in InventoryInput, now time.Time) (models.InventoryItem, error) {
	u, err := Parse(in.Unit)
	if err != nil {
		return models.InventoryItem{}, err
	}
	c := conversions[u]

	restocked := now.UTC().Truncate(24 * time.Hour)
	if in.LastRestocked != nil {
		restocked = *in.LastRestocked
	}

	return models.InventoryItem{
		SKU:           strings.TrimSpace(in.SKU),
		Name:          strings.TrimSpace(in.Name),
		Category:      in.Category,
		CurrentStock:  in.CurrentStock.Mul(c.factor),
		MinimumStock:  in.MinimumStock.Mul(c.factor),
		ReorderLevel:  in.ReorderLevel.Mul(c.factor),
		Unit:          c.base,
		UnitCost:      models.NewMoney(in.UnitCost, in.Currency).Div(c.factor),
		LastRestocked: restocked,
		Supplier:      in.Supplier,
	}, nil
}

var thousand = decimal.NewFromInt(1000)

// FormatQuantity renders a base-unit quantity for display, switching to
// kilograms or litres from 1000 upwards.
func FormatQuantity(value decimal.Decimal, u models.Unit) string {
	switch u {
	case models.UnitGram:
		if value.GreaterThanOrEqual(thousand) {
			return value.Div(thousand).StringFixed(2) + " kg"
		}
		return value.StringFixed(0) + " g"
	case models.UnitMilliliter:
		if value.GreaterThanOrEqual(thousand) {
			return value.Div(thousand).StringFixed(2) + " L"
		}
		return value.StringFixed(0) + " ml"
	}
	return value.StringFixed(2) + " " + string(u)
}
