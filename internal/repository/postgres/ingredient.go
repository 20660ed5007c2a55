package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/alimon-app/mise/internal/models"
	"github.com/alimon-app/mise/internal/repository"
)

const ingredientColumns = `id, name, brand, serving_size, serving_unit, servings_per_container, created_by, created_at`

type ingredientRepository struct {
	db sqlx.ExtContext
}

// Create inserts the ingredient together with its nutrients and units.
// Callers run it inside a transaction.
func (r *ingredientRepository) Create(ctx context.Context, ing *models.Ingredient) (*models.Ingredient, error) {
	query := `
		INSERT INTO ingredients (name, brand, serving_size, serving_unit, servings_per_container, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		ing.Name, ing.Brand, ing.ServingSize, ing.ServingUnit, ing.ServingsPerContainer, ing.CreatedBy,
	).Scan(&ing.ID, &ing.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}

	for i := range ing.Nutrients {
		n := &ing.Nutrients[i]
		n.IngredientID = ing.ID
		err := r.db.QueryRowxContext(ctx,
			`INSERT INTO ingredient_nutrients (ingredient_id, nutrient_key, amount, unit)
			VALUES ($1, $2, $3, $4) RETURNING id`,
			n.IngredientID, n.NutrientKey, n.Amount, n.Unit,
		).Scan(&n.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create ingredient nutrient %s: %w", n.NutrientKey, err)
		}
	}

	if err := r.insertUnits(ctx, ing.ID, ing.Units); err != nil {
		return nil, err
	}
	return ing, nil
}

func (r *ingredientRepository) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	ing := &models.Ingredient{}
	err := sqlx.GetContext(ctx, r.db, ing, `SELECT `+ingredientColumns+` FROM ingredients WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}

	if err := r.loadChildren(ctx, []*models.Ingredient{ing}); err != nil {
		return nil, err
	}
	return ing, nil
}

func (r *ingredientRepository) List(ctx context.Context) ([]*models.Ingredient, error) {
	var ingredients []*models.Ingredient
	err := sqlx.SelectContext(ctx, r.db, &ingredients, `SELECT `+ingredientColumns+` FROM ingredients ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	if err := r.loadChildren(ctx, ingredients); err != nil {
		return nil, err
	}
	return ingredients, nil
}

// Search matches names case-insensitively anywhere in the string.
func (r *ingredientRepository) Search(ctx context.Context, q string, limit int) ([]*models.Ingredient, error) {
	var ingredients []*models.Ingredient
	err := sqlx.SelectContext(ctx, r.db, &ingredients,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE name ILIKE $1 ESCAPE '\' ORDER BY name, id LIMIT $2`,
		containsPattern(q), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	if err := r.loadChildren(ctx, ingredients); err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) AddUnits(ctx context.Context, ingredientID int64, units []models.UnitConversion) error {
	return r.insertUnits(ctx, ingredientID, units)
}

func (r *ingredientRepository) insertUnits(ctx context.Context, ingredientID int64, units []models.UnitConversion) error {
	for i := range units {
		u := &units[i]
		u.IngredientID = ingredientID
		err := r.db.QueryRowxContext(ctx,
			`INSERT INTO ingredient_units (ingredient_id, unit_name, amount, is_default, created_by)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			u.IngredientID, u.UnitName, u.Amount, u.IsDefault, u.CreatedBy,
		).Scan(&u.ID)
		if err != nil {
			if isUniqueViolation(err) {
				conflict := repository.ErrDuplicateUnit
				if violatedConstraint(err) == defaultUnitIndex {
					conflict = repository.ErrDefaultUnitTaken
				}
				return fmt.Errorf("unit %q for ingredient %d: %w", u.UnitName, ingredientID, conflict)
			}
			return fmt.Errorf("failed to create ingredient unit: %w", err)
		}
	}
	return nil
}

// loadChildren fills Nutrients and Units for a batch of ingredients with one
// query per child table.
func (r *ingredientRepository) loadChildren(ctx context.Context, ingredients []*models.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	ids := make([]int64, len(ingredients))
	byID := make(map[int64]*models.Ingredient, len(ingredients))
	for i, ing := range ingredients {
		ids[i] = ing.ID
		byID[ing.ID] = ing
	}

	var nutrients []models.IngredientNutrient
	err := sqlx.SelectContext(ctx, r.db, &nutrients,
		`SELECT id, ingredient_id, nutrient_key, amount, unit
		FROM ingredient_nutrients WHERE ingredient_id = ANY($1) ORDER BY id`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to load ingredient nutrients: %w", err)
	}
	for _, n := range nutrients {
		ing := byID[n.IngredientID]
		ing.Nutrients = append(ing.Nutrients, n)
	}

	var units []models.UnitConversion
	err = sqlx.SelectContext(ctx, r.db, &units,
		`SELECT id, ingredient_id, unit_name, amount, is_default, created_by
		FROM ingredient_units WHERE ingredient_id = ANY($1) ORDER BY id`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to load ingredient units: %w", err)
	}
	for _, u := range units {
		ing := byID[u.IngredientID]
		ing.Units = append(ing.Units, u)
	}
	return nil
}
