package nutrition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alimon-app/mise/internal/models"
)

// Unit names every ingredient understands in addition to its own conversions.
const (
	UnitServings   = "servings"
	UnitContainers = "containers"
)

var (
	ErrMissingServingSize   = errors.New("ingredient has no serving size")
	ErrMissingContainerInfo = errors.New("ingredient has no serving size or servings per container")
	ErrMultipleDefaultUnits = errors.New("only one default unit allowed")
	ErrInvalidUnit          = errors.New("invalid unit conversion")
)

// UnknownUnitError is returned when a unit name matches nothing the item
// knows how to convert.
type UnknownUnitError struct {
	Unit string
	Item string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit %q for %s", e.Unit, e.Item)
}

// Resolve converts quantity expressed in unit into the ingredient's base
// unit. Custom conversions take precedence over the built-in "servings" and
// "containers" units; the declared serving unit passes through unchanged.
func Resolve(ing *models.Ingredient, quantity float64, unit string) (float64, error) {
	for _, u := range ing.Units {
		if u.UnitName == unit {
			return quantity * u.Amount, nil
		}
	}

	switch unit {
	case UnitServings:
		if ing.ServingSize == nil {
			return 0, ErrMissingServingSize
		}
		return quantity * *ing.ServingSize, nil
	case UnitContainers:
		if ing.ServingSize == nil || ing.ServingsPerContainer == nil {
			return 0, ErrMissingContainerInfo
		}
		return quantity * *ing.ServingSize * *ing.ServingsPerContainer, nil
	}

	if base := ing.BaseUnit(); base != "" && base == unit {
		return quantity, nil
	}

	return 0, &UnknownUnitError{Unit: unit, Item: fmt.Sprintf("ingredient %q", ing.Name)}
}

// ResolveRecipe converts a recipe quantity into servings. Recipes are only
// ever measured in servings.
func ResolveRecipe(recipe *models.Recipe, quantity float64, unit string) (float64, error) {
	if unit != UnitServings {
		return 0, &UnknownUnitError{Unit: unit, Item: fmt.Sprintf("recipe %q", recipe.Name)}
	}
	return quantity, nil
}

// ValidateUnits checks a set of unit conversions before it is written.
func ValidateUnits(units []models.UnitConversion) error {
	seen := make(map[string]struct{}, len(units))
	defaults := 0
	for _, u := range units {
		name := strings.TrimSpace(u.UnitName)
		if name == "" {
			return fmt.Errorf("%w: unit name is required", ErrInvalidUnit)
		}
		if name == UnitServings || name == UnitContainers {
			return fmt.Errorf("%w: %q is a reserved unit name", ErrInvalidUnit, name)
		}
		if u.Amount <= 0 {
			return fmt.Errorf("%w: amount for %q must be positive", ErrInvalidUnit, name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate unit %q", ErrInvalidUnit, name)
		}
		seen[name] = struct{}{}
		if u.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return ErrMultipleDefaultUnits
	}
	return nil
}

// NormalizeUnits promotes the first custom unit to default when the
// ingredient has no serving size and no unit was flagged.
func NormalizeUnits(ing *models.Ingredient) {
	if ing.ServingSize != nil || len(ing.Units) == 0 {
		return
	}
	for _, u := range ing.Units {
		if u.IsDefault {
			return
		}
	}
	ing.Units[0].IsDefault = true
}
