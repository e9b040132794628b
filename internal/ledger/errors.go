package ledger

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the ledger.
var (
	ErrNotFound      = errors.New("ledger: not found")
	ErrAlreadyExists = errors.New("ledger: already exists")

	ErrInventoryItemNotFound = fmt.Errorf("%w: inventory item", ErrNotFound)
	ErrRecipeNotFound        = fmt.Errorf("%w: recipe", ErrNotFound)
	ErrMenuItemNotFound      = fmt.Errorf("%w: menu item", ErrNotFound)

	ErrDuplicateSKU = fmt.Errorf("%w: sku", ErrAlreadyExists)
	ErrRecipeExists = fmt.Errorf("%w: recipe for menu item", ErrAlreadyExists)

	ErrInvalidQuantity     = errors.New("ledger: quantity must be positive")
	ErrNegativeStock       = errors.New("ledger: adjustment would leave negative stock")
	ErrAvailabilityManaged = errors.New("ledger: availability is derived from the menu item's recipe")
	ErrStore               = errors.New("ledger: store failure")
)

// ValidationError represents a data-quality failure on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("ledger: validation failed for %s: %s", e.Field, e.Message)
}

// IsNotFound returns true if err reports an unknown id.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict returns true if err is a business-rule conflict rather than bad input.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrNegativeStock) ||
		errors.Is(err, ErrAvailabilityManaged)
}

// IsValidation returns true if err was caused by malformed input.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v) || errors.Is(err, ErrInvalidQuantity)
}
