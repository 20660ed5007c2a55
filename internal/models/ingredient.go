package models

import (
	"time"

	"github.com/google/uuid"
)

// Ingredient is a food item with a per-serving nutrient profile
type Ingredient struct {
	ID                   int64                `json:"id" db:"id"`
	Name                 string               `json:"name" db:"name"`
	Brand                *string              `json:"brand" db:"brand"`
	ServingSize          *float64             `json:"serving_size" db:"serving_size"`
	ServingUnit          *string              `json:"serving_unit" db:"serving_unit"`
	ServingsPerContainer *float64             `json:"servings_per_container" db:"servings_per_container"`
	CreatedBy            *uuid.UUID           `json:"created_by,omitempty" db:"created_by"`
	CreatedAt            time.Time            `json:"created_at" db:"created_at"`
	Nutrients            []IngredientNutrient `json:"nutrients,omitempty" db:"-"`
	Units                []UnitConversion     `json:"units,omitempty" db:"-"`
}

// BaseUnit returns the declared serving unit, or "" when none was given
func (i *Ingredient) BaseUnit() string {
	if i.ServingUnit == nil {
		return ""
	}
	return *i.ServingUnit
}

// DefaultUnit returns the unit a quantity should be entered in when the
// caller has no preference: the default custom unit, then the serving unit,
// then grams.
func (i *Ingredient) DefaultUnit() string {
	for _, u := range i.Units {
		if u.IsDefault {
			return u.UnitName
		}
	}
	if unit := i.BaseUnit(); unit != "" {
		return unit
	}
	return "grams"
}

// IngredientNutrient is one nutrient amount per serving of an ingredient
type IngredientNutrient struct {
	ID           int64   `json:"id" db:"id"`
	IngredientID int64   `json:"ingredient_id" db:"ingredient_id"`
	NutrientKey  string  `json:"nutrient_key" db:"nutrient_key"`
	Amount       float64 `json:"amount" db:"amount"`
	Unit         string  `json:"unit" db:"unit"`
	DisplayName  string  `json:"display_name,omitempty" db:"-"`
}

// UnitConversion maps a named unit to its amount in the ingredient's base unit
type UnitConversion struct {
	ID           int64      `json:"id" db:"id"`
	IngredientID int64      `json:"ingredient_id" db:"ingredient_id"`
	UnitName     string     `json:"unit_name" db:"unit_name"`
	Amount       float64    `json:"amount" db:"amount"`
	IsDefault    bool       `json:"is_default" db:"is_default"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
}
