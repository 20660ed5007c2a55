package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/alimon-app/mise/internal/models"
	"github.com/alimon-app/mise/internal/repository"
)

// LogFoodInput describes one eaten portion.
type LogFoodInput struct {
	IngredientID    *int64
	RecipeID        *int64
	Quantity        float64
	Unit            string
	LoggedAt        *time.Time
	UpdateInventory bool
}

func (in LogFoodInput) ref() models.ItemRef {
	return models.ItemRef{IngredientID: in.IngredientID, RecipeID: in.RecipeID}
}

// LogFood records a food log entry and its scaled nutrient rows, and
// consumes the normalized quantity from inventory when asked to. All of it
// commits or none of it does.
func (s *Service) LogFood(ctx context.Context, userID uuid.UUID, in LogFoodInput) (*models.FoodLog, error) {
	ref := in.ref()
	if !ref.Valid() {
		return nil, invalidf("exactly one of ingredient_id or recipe_id is required")
	}
	if in.Quantity <= 0 {
		return nil, invalidf("quantity must be greater than zero")
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		return nil, invalidf("unit is required")
	}
	loggedAt := s.now()
	if in.LoggedAt != nil {
		loggedAt = *in.LoggedAt
	}

	var log *models.FoodLog
	err := s.store.InTx(ctx, func(repos *repository.Repositories) error {
		it, err := loadItem(ctx, repos, ref)
		if err != nil {
			return err
		}
		normalized, baseUnit, err := it.normalize(in.Quantity, unit)
		if err != nil {
			return err
		}
		scaled, err := it.scale(normalized)
		if err != nil {
			return err
		}

		log, err = repos.FoodLogs.Create(ctx, &models.FoodLog{
			UserID:          userID,
			IngredientID:    ref.IngredientID,
			RecipeID:        ref.RecipeID,
			Quantity:        in.Quantity,
			Unit:            unit,
			LoggedAt:        loggedAt,
			UpdateInventory: in.UpdateInventory,
		})
		if err != nil {
			return err
		}

		log.Nutrients = make([]models.FoodLogNutrient, len(scaled))
		for i, a := range scaled {
			log.Nutrients[i] = models.FoodLogNutrient{NutrientKey: a.Key, Amount: a.Amount, Unit: a.Unit}
		}
		if err := repos.FoodLogs.AddNutrients(ctx, log.ID, log.Nutrients); err != nil {
			return err
		}

		if in.UpdateInventory {
			if _, err := repos.Inventory.ApplyDelta(ctx, userID, ref, -normalized, baseUnit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to log food: %w", err)
	}

	foodLogsTotal.WithLabelValues(itemKind(ref.IsIngredient())).Inc()
	if in.UpdateInventory {
		inventoryAdjustmentsTotal.WithLabelValues("consumption").Inc()
	}
	s.logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"food_log_id": log.ID,
		"item":        ref.String(),
		"nutrients":   len(log.Nutrients),
	}).Info("Food logged")
	return log, nil
}

// ListFoodLogs returns the user's logs for one calendar day, or every log
// when day is nil, with ingredient or recipe attached.
func (s *Service) ListFoodLogs(ctx context.Context, userID uuid.UUID, day *time.Time) ([]*models.FoodLog, error) {
	filters := repository.FoodLogFilters{}
	if day != nil {
		from, to := DayBounds(*day)
		filters.From, filters.To = &from, &to
	}
	return s.listFoodLogs(ctx, userID, filters)
}

// RecentMeals returns the user's latest logs.
func (s *Service) RecentMeals(ctx context.Context, userID uuid.UUID) ([]*models.FoodLog, error) {
	return s.listFoodLogs(ctx, userID, repository.FoodLogFilters{Limit: recentMealsLimit})
}

func (s *Service) listFoodLogs(ctx context.Context, userID uuid.UUID, filters repository.FoodLogFilters) ([]*models.FoodLog, error) {
	repos := s.repos()
	logs, err := repos.FoodLogs.List(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list food logs: %w", err)
	}
	cache := newItemCache(repos)
	for _, l := range logs {
		if l.Ingredient, l.Recipe, err = cache.resolve(ctx, l.Ref()); err != nil {
			return nil, err
		}
	}
	if logs == nil {
		logs = []*models.FoodLog{}
	}
	return logs, nil
}

// DayBounds returns the half-open window [start of day, start of next day)
// containing t, in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// ParseDay parses a YYYY-MM-DD date as a UTC day.
func ParseDay(raw string) (time.Time, error) {
	day, err := time.Parse(time.DateOnly, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, invalidf("date must be formatted YYYY-MM-DD")
	}
	return day, nil
}
