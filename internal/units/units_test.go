package units

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restoplus/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestToBaseUnit(t *testing.T) {
	tests := []struct {
		unit     models.Unit
		value    string
		want     string
		wantBase models.Unit
	}{
		{models.UnitKilogram, "2.5", "2500", models.UnitGram},
		{models.UnitLiter, "5", "5000", models.UnitMilliliter},
		{models.UnitPound, "1", "453.592", models.UnitGram},
		{models.UnitGallon, "2", "7570.82", models.UnitMilliliter},
		{models.UnitOunce, "4", "113.398", models.UnitGram},
		{models.UnitPiece, "12", "12", models.UnitPiece},
	}

	for _, tt := range tests {
		got, base, err := ToBaseUnit(dec(tt.value), tt.unit)
		require.NoError(t, err, tt.unit)
		assert.True(t, got.Equal(dec(tt.want)), "%s: got %s, want %s", tt.unit, got, tt.want)
		assert.Equal(t, tt.wantBase, base)
	}
}

func TestToBaseUnit_BaseUnitsUnchanged(t *testing.T) {
	values := []string{"0", "0.001", "1", "250", "25000", "123456.789"}
	for _, u := range []models.Unit{models.UnitGram, models.UnitMilliliter, models.UnitPiece} {
		for _, v := range values {
			got, base, err := ToBaseUnit(dec(v), u)
			require.NoError(t, err)
			assert.Equal(t, u, base)
			assert.True(t, got.Equal(dec(v)), "%s %s changed to %s", v, u, got)
		}
	}
}

func TestToBaseUnit_Unknown(t *testing.T) {
	_, _, err := ToBaseUnit(dec("1"), models.Unit("cup"))
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestParse(t *testing.T) {
	cases := map[string]models.Unit{
		"kg":  models.UnitKilogram,
		"KG":  models.UnitKilogram,
		" L ": models.UnitLiter,
		"g":   models.UnitGram,
		"ml":  models.UnitMilliliter,
		"PCS": models.UnitPiece,
		"oz":  models.UnitOunce,
		"Gal": models.UnitGallon,
		"lb":  models.UnitPound,
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Parse("tbsp")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestNormalizeInventoryInput(t *testing.T) {
	now := time.Date(2024, 10, 21, 15, 4, 5, 0, time.UTC)
	in := InventoryInput{
		SKU:          "ING-010",
		Name:         "Rice",
		Category:     "Dry Goods",
		CurrentStock: dec("20"),
		MinimumStock: dec("5"),
		ReorderLevel: dec("10"),
		Unit:         "KG",
		UnitCost:     dec("60"),
		Supplier:     "Grain Suppliers Co.",
	}

	item, err := NormalizeInventoryInput(in, now)
	require.NoError(t, err)

	assert.Equal(t, models.UnitGram, item.Unit)
	assert.True(t, item.CurrentStock.Equal(dec("20000")))
	assert.True(t, item.MinimumStock.Equal(dec("5000")))
	assert.True(t, item.ReorderLevel.Equal(dec("10000")))
	assert.True(t, item.UnitCost.Amount.Equal(dec("0.06")), "unit cost %s", item.UnitCost.Amount)
	assert.Equal(t, models.DefaultCurrency, item.UnitCost.Currency)
	assert.Equal(t, time.Date(2024, 10, 21, 0, 0, 0, 0, time.UTC), item.LastRestocked)
	assert.Empty(t, item.ID)
}

func TestNormalizeInventoryInput_BaseUnitKeepsCost(t *testing.T) {
	in := InventoryInput{
		SKU:          "ING-011",
		Name:         "Eggs",
		CurrentStock: dec("120"),
		Unit:         "pcs",
		UnitCost:     dec("8.5"),
		Currency:     "usd",
	}

	item, err := NormalizeInventoryInput(in, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.UnitPiece, item.Unit)
	assert.True(t, item.CurrentStock.Equal(dec("120")))
	assert.True(t, item.UnitCost.Amount.Equal(dec("8.5")))
	assert.Equal(t, "USD", item.UnitCost.Currency)
}

func TestNormalizeInventoryInput_UnknownUnit(t *testing.T) {
	_, err := NormalizeInventoryInput(InventoryInput{Name: "x", Unit: "bushel"}, time.Now())
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "25.00 kg", FormatQuantity(dec("25000"), models.UnitGram))
	assert.Equal(t, "250 g", FormatQuantity(dec("250"), models.UnitGram))
	assert.Equal(t, "4.99 L", FormatQuantity(dec("4990"), models.UnitMilliliter))
	assert.Equal(t, "10 ml", FormatQuantity(dec("10"), models.UnitMilliliter))
	assert.Equal(t, "3.00 pcs", FormatQuantity(dec("3"), models.UnitPiece))
}
