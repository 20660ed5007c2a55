package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/alimon-app/mise/internal/models"
)

func (s *Service) ListGoals(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	goals, err := s.repos().Goals.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	if goals == nil {
		goals = []*models.Goal{}
	}
	return goals, nil
}

// CreateGoal adds a daily target. A user has at most one goal per nutrient.
func (s *Service) CreateGoal(ctx context.Context, userID uuid.UUID, nutrientKey string, target float64) (*models.Goal, error) {
	nutrientKey = strings.TrimSpace(nutrientKey)
	if nutrientKey == "" {
		return nil, invalidf("nutrient_key is required")
	}
	if target <= 0 {
		return nil, invalidf("target_amount must be greater than zero")
	}

	goal, err := s.repos().Goals.Create(ctx, &models.Goal{UserID: userID, NutrientKey: nutrientKey, TargetAmount: target})
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	s.logger.WithField("user_id", userID).Infof("Goal set: %s = %g", nutrientKey, target)
	return goal, nil
}

func (s *Service) UpdateGoal(ctx context.Context, userID uuid.UUID, id int64, target float64) (*models.Goal, error) {
	if target <= 0 {
		return nil, invalidf("target_amount must be greater than zero")
	}
	goal, err := s.repos().Goals.UpdateTarget(ctx, userID, id, target)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return goal, nil
}

func (s *Service) DeleteGoal(ctx context.Context, userID uuid.UUID, id int64) error {
	if err := s.repos().Goals.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}
