package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/alimon-app/mise/internal/models"
)

type nutrientRepository struct {
	db sqlx.ExtContext
}

// UpsertDefinitions records the latest unit and label seen for each key.
func (r *nutrientRepository) UpsertDefinitions(ctx context.Context, defs []models.NutrientDefinition) error {
	for _, d := range defs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO nutrient_definitions (key, unit, display_name) VALUES ($1, $2, $3)
			ON CONFLICT (key) DO UPDATE SET unit = EXCLUDED.unit, display_name = EXCLUDED.display_name`,
			d.Key, d.Unit, d.DisplayName,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert nutrient definition %s: %w", d.Key, err)
		}
	}
	return nil
}

func (r *nutrientRepository) ListDefinitions(ctx context.Context) ([]models.NutrientDefinition, error) {
	var defs []models.NutrientDefinition
	if err := sqlx.SelectContext(ctx, r.db, &defs, `SELECT key, unit, display_name FROM nutrient_definitions ORDER BY key`); err != nil {
		return nil, fmt.Errorf("failed to list nutrient definitions: %w", err)
	}
	return defs, nil
}
