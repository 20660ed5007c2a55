package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/alimon-app/mise/internal/models"
)

const inventoryColumns = `id, user_id, ingredient_id, recipe_id, quantity, unit, created_at, updated_at`

// The conflict targets name the partial unique indexes on inventories, so
// the read-modify-write happens inside one statement.
const (
	upsertIngredientStock = `
		INSERT INTO inventories (user_id, ingredient_id, quantity, unit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, ingredient_id) WHERE ingredient_id IS NOT NULL
		DO UPDATE SET
			quantity   = inventories.quantity + EXCLUDED.quantity,
			unit       = EXCLUDED.unit,
			updated_at = NOW()
		RETURNING ` + inventoryColumns

	upsertRecipeStock = `
		INSERT INTO inventories (user_id, recipe_id, quantity, unit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, recipe_id) WHERE recipe_id IS NOT NULL
		DO UPDATE SET
			quantity   = inventories.quantity + EXCLUDED.quantity,
			unit       = EXCLUDED.unit,
			updated_at = NOW()
		RETURNING ` + inventoryColumns
)

type inventoryRepository struct {
	db sqlx.ExtContext
}

func (r *inventoryRepository) ApplyDelta(ctx context.Context, userID uuid.UUID, ref models.ItemRef, delta float64, unit string) (*models.InventoryItem, error) {
	if !ref.Valid() {
		return nil, fmt.Errorf("invalid inventory reference %s", ref)
	}

	query, id := upsertRecipeStock, ref.RecipeID
	if ref.IsIngredient() {
		query, id = upsertIngredientStock, ref.IngredientID
	}

	item := &models.InventoryItem{}
	if err := sqlx.GetContext(ctx, r.db, item, query, userID, *id, delta, unit); err != nil {
		return nil, fmt.Errorf("failed to apply inventory delta for %s: %w", ref, err)
	}
	return item, nil
}

func (r *inventoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.InventoryItem, error) {
	var items []*models.InventoryItem
	err := sqlx.SelectContext(ctx, r.db, &items,
		`SELECT `+inventoryColumns+` FROM inventories WHERE user_id = $1 ORDER BY updated_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}
