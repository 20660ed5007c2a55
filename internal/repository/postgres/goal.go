package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/alimon-app/mise/internal/models"
	"github.com/alimon-app/mise/internal/repository"
)

const goalColumns = `id, user_id, nutrient_key, target_amount, created_at, updated_at`

type goalRepository struct {
	db sqlx.ExtContext
}

func (r *goalRepository) Create(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	saved := &models.Goal{}
	err := sqlx.GetContext(ctx, r.db, saved,
		`INSERT INTO goals (user_id, nutrient_key, target_amount) VALUES ($1, $2, $3) RETURNING `+goalColumns,
		goal.UserID, goal.NutrientKey, goal.TargetAmount,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("goal for %s: %w", goal.NutrientKey, repository.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return saved, nil
}

func (r *goalRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	var goals []*models.Goal
	err := sqlx.SelectContext(ctx, r.db, &goals,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY nutrient_key`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

func (r *goalRepository) UpdateTarget(ctx context.Context, userID uuid.UUID, id int64, target float64) (*models.Goal, error) {
	goal := &models.Goal{}
	err := sqlx.GetContext(ctx, r.db, goal,
		`UPDATE goals SET target_amount = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+goalColumns,
		id, userID, target,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("goal with ID %d: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return goal, nil
}

func (r *goalRepository) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	return checkAffected(rowsAffected, "goal", id)
}
