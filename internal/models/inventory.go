package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is the on-hand quantity of one ingredient or recipe for a user
type InventoryItem struct {
	ID           int64       `json:"id" db:"id"`
	UserID       uuid.UUID   `json:"user_id" db:"user_id"`
	IngredientID *int64      `json:"ingredient_id" db:"ingredient_id"`
	RecipeID     *int64      `json:"recipe_id" db:"recipe_id"`
	Quantity     float64     `json:"quantity" db:"quantity"`
	Unit         string      `json:"unit" db:"unit"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
	Ingredient   *Ingredient `json:"ingredient,omitempty" db:"-"`
	Recipe       *Recipe     `json:"recipe,omitempty" db:"-"`
}

// Ref returns the item the inventory row tracks
func (i *InventoryItem) Ref() ItemRef {
	return ItemRef{IngredientID: i.IngredientID, RecipeID: i.RecipeID}
}
