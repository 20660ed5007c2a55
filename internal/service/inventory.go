package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/alimon-app/mise/internal/models"
)

// AddInventoryInput is a restock of one ingredient or recipe.
type AddInventoryInput struct {
	IngredientID *int64
	RecipeID     *int64
	Quantity     float64
	Unit         string
}

// AddInventory merges new stock into the user's row for the item. The
// quantity is stored in the item's base unit so that consumption from food
// logs subtracts like for like.
func (s *Service) AddInventory(ctx context.Context, userID uuid.UUID, in AddInventoryInput) (*models.InventoryItem, error) {
	ref := models.ItemRef{IngredientID: in.IngredientID, RecipeID: in.RecipeID}
	if !ref.Valid() {
		return nil, invalidf("must provide either ingredient_id or recipe_id (not both)")
	}
	if in.Quantity <= 0 {
		return nil, invalidf("quantity must be greater than zero")
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		return nil, invalidf("unit is required")
	}

	repos := s.repos()
	it, err := loadItem(ctx, repos, ref)
	if err != nil {
		return nil, err
	}
	normalized, baseUnit, err := it.normalize(in.Quantity, unit)
	if err != nil {
		return nil, err
	}

	row, err := repos.Inventory.ApplyDelta(ctx, userID, ref, normalized, baseUnit)
	if err != nil {
		return nil, fmt.Errorf("failed to add inventory: %w", err)
	}
	row.Ingredient, row.Recipe = it.ingredient, it.recipe

	inventoryAdjustmentsTotal.WithLabelValues("restock").Inc()
	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"item":     ref.String(),
		"delta":    normalized,
		"quantity": row.Quantity,
	}).Info("Inventory restocked")
	return row, nil
}

// ListInventory returns the user's stock with ingredient (including units)
// or recipe attached.
func (s *Service) ListInventory(ctx context.Context, userID uuid.UUID) ([]*models.InventoryItem, error) {
	repos := s.repos()
	items, err := repos.Inventory.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	cache := newItemCache(repos)
	for _, row := range items {
		if row.Ingredient, row.Recipe, err = cache.resolve(ctx, row.Ref()); err != nil {
			return nil, err
		}
	}
	if items == nil {
		items = []*models.InventoryItem{}
	}
	return items, nil
}
