package models

import (
	"time"

	"github.com/google/uuid"
)

// Recipe is a named combination of ingredients yielding a number of servings
type Recipe struct {
	ID          int64              `json:"id" db:"id"`
	Name        string             `json:"name" db:"name"`
	Servings    int                `json:"servings" db:"servings"`
	CreatedBy   *uuid.UUID         `json:"created_by,omitempty" db:"created_by"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty" db:"-"`
	Nutrients   []RecipeNutrient   `json:"nutrients,omitempty" db:"-"`
}

// RecipeIngredient is one component line of a recipe
type RecipeIngredient struct {
	ID           int64   `json:"id" db:"id"`
	RecipeID     int64   `json:"recipe_id" db:"recipe_id"`
	IngredientID int64   `json:"ingredient_id" db:"ingredient_id"`
	Position     int     `json:"position" db:"position"`
	Quantity     float64 `json:"quantity" db:"quantity"`
	Unit         string  `json:"unit" db:"unit"`
}

// RecipeNutrient is the total amount of a nutrient across the whole recipe
type RecipeNutrient struct {
	ID          int64   `json:"id" db:"id"`
	RecipeID    int64   `json:"recipe_id" db:"recipe_id"`
	NutrientKey string  `json:"nutrient_key" db:"nutrient_key"`
	TotalAmount float64 `json:"total_amount" db:"total_amount"`
	Unit        string  `json:"unit" db:"unit"`
}
