package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/alimon-app/mise/internal/models"
	"github.com/alimon-app/mise/internal/repository"
)

type foodLogRepository struct {
	db sqlx.ExtContext
}

func (r *foodLogRepository) Create(ctx context.Context, log *models.FoodLog) (*models.FoodLog, error) {
	query := `
		INSERT INTO food_logs (user_id, ingredient_id, recipe_id, quantity, unit, logged_at, update_inventory)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		log.UserID, log.IngredientID, log.RecipeID, log.Quantity, log.Unit, log.LoggedAt, log.UpdateInventory,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create food log: %w", err)
	}
	return log, nil
}

func (r *foodLogRepository) AddNutrients(ctx context.Context, foodLogID int64, nutrients []models.FoodLogNutrient) error {
	for i := range nutrients {
		n := &nutrients[i]
		n.FoodLogID = foodLogID
		err := r.db.QueryRowxContext(ctx,
			`INSERT INTO food_log_nutrients (food_log_id, nutrient_key, amount, unit)
			VALUES ($1, $2, $3, $4) RETURNING id`,
			n.FoodLogID, n.NutrientKey, n.Amount, n.Unit,
		).Scan(&n.ID)
		if err != nil {
			return fmt.Errorf("failed to create food log nutrient %s: %w", n.NutrientKey, err)
		}
	}
	return nil
}

// List returns the user's logs newest first, each with its nutrient rows.
func (r *foodLogRepository) List(ctx context.Context, userID uuid.UUID, filters repository.FoodLogFilters) ([]*models.FoodLog, error) {
	query := `SELECT id, user_id, ingredient_id, recipe_id, quantity, unit, logged_at, update_inventory, created_at
		FROM food_logs WHERE user_id = $1`
	args := []interface{}{userID}
	argIdx := 2

	if filters.From != nil {
		query += fmt.Sprintf(" AND logged_at >= $%d", argIdx)
		args = append(args, *filters.From)
		argIdx++
	}
	if filters.To != nil {
		query += fmt.Sprintf(" AND logged_at < $%d", argIdx)
		args = append(args, *filters.To)
		argIdx++
	}
	query += " ORDER BY logged_at DESC, id DESC"
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filters.Limit)
	}

	var logs []*models.FoodLog
	if err := sqlx.SelectContext(ctx, r.db, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query food logs: %w", err)
	}
	if len(logs) == 0 {
		return logs, nil
	}

	ids := make([]int64, len(logs))
	byID := make(map[int64]*models.FoodLog, len(logs))
	for i, l := range logs {
		ids[i] = l.ID
		byID[l.ID] = l
		l.Nutrients = []models.FoodLogNutrient{}
	}

	var nutrients []models.FoodLogNutrient
	err := sqlx.SelectContext(ctx, r.db, &nutrients,
		`SELECT id, food_log_id, nutrient_key, amount, unit
		FROM food_log_nutrients WHERE food_log_id = ANY($1) ORDER BY id`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load food log nutrients: %w", err)
	}
	for _, n := range nutrients {
		l := byID[n.FoodLogID]
		l.Nutrients = append(l.Nutrients, n)
	}
	return logs, nil
}
