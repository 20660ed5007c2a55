package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/alimon-app/mise/internal/models"
)

const recipeColumns = `id, name, servings, created_by, created_at`

type recipeRepository struct {
	db sqlx.ExtContext
}

// Create inserts the recipe, its component lines and its nutrient totals.
// Callers run it inside a transaction.
func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO recipes (name, servings, created_by) VALUES ($1, $2, $3) RETURNING id, created_at`,
		recipe.Name, recipe.Servings, recipe.CreatedBy,
	).Scan(&recipe.ID, &recipe.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	for i := range recipe.Ingredients {
		ri := &recipe.Ingredients[i]
		ri.RecipeID = recipe.ID
		ri.Position = i
		err := r.db.QueryRowxContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, position, quantity, unit)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			ri.RecipeID, ri.IngredientID, ri.Position, ri.Quantity, ri.Unit,
		).Scan(&ri.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create recipe ingredient: %w", err)
		}
	}

	for i := range recipe.Nutrients {
		n := &recipe.Nutrients[i]
		n.RecipeID = recipe.ID
		err := r.db.QueryRowxContext(ctx,
			`INSERT INTO recipe_nutrients (recipe_id, nutrient_key, total_amount, unit)
			VALUES ($1, $2, $3, $4) RETURNING id`,
			n.RecipeID, n.NutrientKey, n.TotalAmount, n.Unit,
		).Scan(&n.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create recipe nutrient %s: %w", n.NutrientKey, err)
		}
	}

	return recipe, nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	err := sqlx.GetContext(ctx, r.db, recipe, `SELECT `+recipeColumns+` FROM recipes WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	err = sqlx.SelectContext(ctx, r.db, &recipe.Ingredients,
		`SELECT id, recipe_id, ingredient_id, position, quantity, unit
		FROM recipe_ingredients WHERE recipe_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe ingredients: %w", err)
	}

	err = sqlx.SelectContext(ctx, r.db, &recipe.Nutrients,
		`SELECT id, recipe_id, nutrient_key, total_amount, unit
		FROM recipe_nutrients WHERE recipe_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe nutrients: %w", err)
	}

	return recipe, nil
}

// Search returns recipe headers only; callers fetch details by ID.
func (r *recipeRepository) Search(ctx context.Context, q string, limit int) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	err := sqlx.SelectContext(ctx, r.db, &recipes,
		`SELECT `+recipeColumns+` FROM recipes WHERE name ILIKE $1 ESCAPE '\' ORDER BY name, id LIMIT $2`,
		containsPattern(q), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return recipes, nil
}
