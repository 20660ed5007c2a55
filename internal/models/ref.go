package models

import "fmt"

// ItemRef points at exactly one of an ingredient or a recipe
type ItemRef struct {
	IngredientID *int64
	RecipeID     *int64
}

// IngredientRef builds a reference to an ingredient
func IngredientRef(id int64) ItemRef {
	return ItemRef{IngredientID: &id}
}

// RecipeRef builds a reference to a recipe
func RecipeRef(id int64) ItemRef {
	return ItemRef{RecipeID: &id}
}

// Valid reports whether exactly one side of the reference is set
func (r ItemRef) Valid() bool {
	return (r.IngredientID == nil) != (r.RecipeID == nil)
}

// IsIngredient reports whether the reference points at an ingredient
func (r ItemRef) IsIngredient() bool {
	return r.IngredientID != nil
}

func (r ItemRef) String() string {
	switch {
	case r.IngredientID != nil && r.RecipeID == nil:
		return fmt.Sprintf("ingredient:%d", *r.IngredientID)
	case r.RecipeID != nil && r.IngredientID == nil:
		return fmt.Sprintf("recipe:%d", *r.RecipeID)
	default:
		return "invalid"
	}
}
