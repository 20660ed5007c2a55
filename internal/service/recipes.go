package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/alimon-app/mise/internal/models"
	"github.com/alimon-app/mise/internal/nutrition"
	"github.com/alimon-app/mise/internal/repository"
)

// RecipeComponentInput is one ingredient line of a new recipe.
type RecipeComponentInput struct {
	IngredientID int64
	Quantity     float64
	Unit         string
}

// CreateRecipeInput describes a new recipe.
type CreateRecipeInput struct {
	Name        string
	Servings    int
	Ingredients []RecipeComponentInput
}

// CreateRecipe stores a recipe and derives its nutrient totals by scaling
// each component's ingredient profile by the component's normalized
// quantity.
func (s *Service) CreateRecipe(ctx context.Context, userID uuid.UUID, in CreateRecipeInput) (*models.Recipe, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidf("name is required")
	}
	if in.Servings < 1 {
		return nil, invalidf("servings must be at least 1")
	}
	if len(in.Ingredients) == 0 {
		return nil, invalidf("a recipe needs at least one ingredient")
	}

	recipe := &models.Recipe{Name: name, Servings: in.Servings, CreatedBy: &userID}
	err := s.store.InTx(ctx, func(repos *repository.Repositories) error {
		var amounts []nutrition.Amount
		for i, c := range in.Ingredients {
			unit := strings.TrimSpace(c.Unit)
			if c.Quantity <= 0 || unit == "" {
				return invalidf("ingredient %d needs a positive quantity and a unit", i+1)
			}
			it, err := loadItem(ctx, repos, models.IngredientRef(c.IngredientID))
			if err != nil {
				return err
			}
			normalized, _, err := it.normalize(c.Quantity, unit)
			if err != nil {
				return err
			}
			scaled, err := it.scale(normalized)
			if err != nil {
				return err
			}
			amounts = append(amounts, scaled...)
			recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
				IngredientID: c.IngredientID,
				Quantity:     c.Quantity,
				Unit:         unit,
			})
		}

		totals := nutrition.Aggregate(amounts)
		for _, key := range totals.Keys() {
			t := totals[key]
			recipe.Nutrients = append(recipe.Nutrients, models.RecipeNutrient{NutrientKey: key, TotalAmount: t.Amount, Unit: t.Unit})
		}

		var err error
		recipe, err = repos.Recipes.Create(ctx, recipe)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	recipesCreatedTotal.Inc()
	s.logger.WithFields(logrus.Fields{
		"user_id":   userID,
		"recipe_id": recipe.ID,
		"servings":  recipe.Servings,
	}).Infof("Created recipe %q", recipe.Name)
	return recipe, nil
}

func (s *Service) GetRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	recipe, err := s.repos().Recipes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	if recipe == nil {
		return nil, notFoundf("recipe %d", id)
	}
	return recipe, nil
}

// RecipeNutrients returns the stored totals of a recipe.
func (s *Service) RecipeNutrients(ctx context.Context, id int64) ([]models.RecipeNutrient, error) {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.Nutrients == nil {
		return []models.RecipeNutrient{}, nil
	}
	return recipe.Nutrients, nil
}

func (s *Service) SearchRecipes(ctx context.Context, q string) ([]*models.Recipe, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []*models.Recipe{}, nil
	}
	recipes, err := s.repos().Recipes.Search(ctx, q, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	if recipes == nil {
		recipes = []*models.Recipe{}
	}
	return recipes, nil
}
