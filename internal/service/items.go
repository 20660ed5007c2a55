package service

import (
	"context"
	"fmt"

	"github.com/alimon-app/mise/internal/models"
	"github.com/alimon-app/mise/internal/nutrition"
	"github.com/alimon-app/mise/internal/repository"
)

// fallbackBaseUnit names the base unit of ingredients declared without a
// serving unit.
const fallbackBaseUnit = "grams"

// item is a loaded ingredient or recipe behind an ItemRef.
type item struct {
	ref        models.ItemRef
	ingredient *models.Ingredient
	recipe     *models.Recipe
}

func loadItem(ctx context.Context, repos *repository.Repositories, ref models.ItemRef) (*item, error) {
	if !ref.Valid() {
		return nil, invalidf("exactly one of ingredient_id or recipe_id is required")
	}
	it := &item{ref: ref}
	if ref.IsIngredient() {
		ing, err := repos.Ingredients.GetByID(ctx, *ref.IngredientID)
		if err != nil {
			return nil, err
		}
		if ing == nil {
			return nil, notFoundf("ingredient %d", *ref.IngredientID)
		}
		it.ingredient = ing
		return it, nil
	}
	recipe, err := repos.Recipes.GetByID(ctx, *ref.RecipeID)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, notFoundf("recipe %d", *ref.RecipeID)
	}
	it.recipe = recipe
	return it, nil
}

// normalize converts quantity in unit into the item's base unit and returns
// the base unit's name.
func (it *item) normalize(quantity float64, unit string) (float64, string, error) {
	if it.ingredient != nil {
		normalized, err := nutrition.Resolve(it.ingredient, quantity, unit)
		if err != nil {
			return 0, "", asValidation(err)
		}
		return normalized, baseUnitOf(it.ingredient), nil
	}
	normalized, err := nutrition.ResolveRecipe(it.recipe, quantity, unit)
	if err != nil {
		return 0, "", asValidation(err)
	}
	return normalized, nutrition.UnitServings, nil
}

// scale returns the nutrients contained in a normalized quantity of the item.
func (it *item) scale(normalized float64) ([]nutrition.Amount, error) {
	var (
		profile   []nutrition.Amount
		reference float64
		err       error
	)
	if it.ingredient != nil {
		profile, reference, err = nutrition.IngredientProfile(it.ingredient)
	} else {
		profile, reference, err = nutrition.RecipeProfile(it.recipe)
	}
	if err != nil {
		return nil, asValidation(err)
	}
	scaled, err := nutrition.Scale(profile, reference, normalized)
	if err != nil {
		return nil, asValidation(err)
	}
	return scaled, nil
}

func baseUnitOf(ing *models.Ingredient) string {
	if unit := ing.BaseUnit(); unit != "" {
		return unit
	}
	return fallbackBaseUnit
}

// itemCache memoizes ingredient and recipe lookups while decorating lists.
type itemCache struct {
	repos       *repository.Repositories
	ingredients map[int64]*models.Ingredient
	recipes     map[int64]*models.Recipe
}

func newItemCache(repos *repository.Repositories) *itemCache {
	return &itemCache{
		repos:       repos,
		ingredients: make(map[int64]*models.Ingredient),
		recipes:     make(map[int64]*models.Recipe),
	}
}

func (c *itemCache) resolve(ctx context.Context, ref models.ItemRef) (*models.Ingredient, *models.Recipe, error) {
	switch {
	case ref.IngredientID != nil:
		id := *ref.IngredientID
		if ing, ok := c.ingredients[id]; ok {
			return ing, nil, nil
		}
		ing, err := c.repos.Ingredients.GetByID(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load ingredient %d: %w", id, err)
		}
		c.ingredients[id] = ing
		return ing, nil, nil
	case ref.RecipeID != nil:
		id := *ref.RecipeID
		if recipe, ok := c.recipes[id]; ok {
			return nil, recipe, nil
		}
		recipe, err := c.repos.Recipes.GetByID(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load recipe %d: %w", id, err)
		}
		c.recipes[id] = recipe
		return nil, recipe, nil
	}
	return nil, nil, nil
}
