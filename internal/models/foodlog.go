package models

import (
	"time"

	"github.com/google/uuid"
)

// FoodLog records one eaten portion of an ingredient or a recipe
type FoodLog struct {
	ID              int64             `json:"id" db:"id"`
	UserID          uuid.UUID         `json:"user_id" db:"user_id"`
	IngredientID    *int64            `json:"ingredient_id" db:"ingredient_id"`
	RecipeID        *int64            `json:"recipe_id" db:"recipe_id"`
	Quantity        float64           `json:"quantity" db:"quantity"`
	Unit            string            `json:"unit" db:"unit"`
	LoggedAt        time.Time         `json:"logged_at" db:"logged_at"`
	UpdateInventory bool              `json:"update_inventory" db:"update_inventory"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	Ingredient      *Ingredient       `json:"ingredient,omitempty" db:"-"`
	Recipe          *Recipe           `json:"recipe,omitempty" db:"-"`
	Nutrients       []FoodLogNutrient `json:"nutrients" db:"-"`
}

// Ref returns the item the log was made against
func (l *FoodLog) Ref() ItemRef {
	return ItemRef{IngredientID: l.IngredientID, RecipeID: l.RecipeID}
}

// FoodLogNutrient is a scaled nutrient amount produced by a food log
type FoodLogNutrient struct {
	ID          int64   `json:"id" db:"id"`
	FoodLogID   int64   `json:"food_log_id" db:"food_log_id"`
	NutrientKey string  `json:"nutrient_key" db:"nutrient_key"`
	Amount      float64 `json:"amount" db:"amount"`
	Unit        string  `json:"unit" db:"unit"`
}
