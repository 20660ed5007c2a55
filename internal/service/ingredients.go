package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/alimon-app/mise/internal/models"
	"github.com/alimon-app/mise/internal/nutrition"
	"github.com/alimon-app/mise/internal/repository"
)

// NutrientInput is one per-serving nutrient amount of a new ingredient.
type NutrientInput struct {
	Key         string
	Amount      float64
	Unit        string
	DisplayName string
}

// CreateIngredientInput describes a new ingredient.
type CreateIngredientInput struct {
	Name                 string
	Brand                *string
	ServingSize          *float64
	ServingUnit          *string
	ServingsPerContainer *float64
	Nutrients            []NutrientInput
	Units                []models.UnitConversion
}

func (in *CreateIngredientInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalidf("name is required")
	}
	if in.ServingSize != nil {
		if *in.ServingSize <= 0 {
			return invalidf("serving_size must be greater than zero")
		}
		if in.ServingUnit == nil || strings.TrimSpace(*in.ServingUnit) == "" {
			return invalidf("serving_unit is required with serving_size")
		}
	}
	if in.ServingsPerContainer != nil && *in.ServingsPerContainer <= 0 {
		return invalidf("servings_per_container must be greater than zero")
	}

	seen := make(map[string]bool, len(in.Nutrients))
	for i := range in.Nutrients {
		n := &in.Nutrients[i]
		n.Key = strings.TrimSpace(n.Key)
		n.Unit = strings.TrimSpace(n.Unit)
		if n.Key == "" || n.Unit == "" {
			return invalidf("every nutrient needs a key and a unit")
		}
		if n.Amount < 0 {
			return invalidf("nutrient %s must not be negative", n.Key)
		}
		if seen[n.Key] {
			return invalidf("nutrient %s listed twice", n.Key)
		}
		seen[n.Key] = true
	}

	for i := range in.Units {
		in.Units[i].UnitName = strings.TrimSpace(in.Units[i].UnitName)
	}
	return asValidation(nutrition.ValidateUnits(in.Units))
}

// CreateIngredient stores an ingredient with its nutrients and units and
// records each nutrient's unit and label in the global definitions.
func (s *Service) CreateIngredient(ctx context.Context, userID uuid.UUID, in CreateIngredientInput) (*models.Ingredient, error) {
	return s.createIngredient(ctx, &userID, in)
}

// ImportIngredient stores an ingredient from an external database. Imported
// ingredients have no owner, so nobody can add units to them.
func (s *Service) ImportIngredient(ctx context.Context, in CreateIngredientInput) (*models.Ingredient, error) {
	return s.createIngredient(ctx, nil, in)
}

func (s *Service) createIngredient(ctx context.Context, owner *uuid.UUID, in CreateIngredientInput) (*models.Ingredient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	ing := &models.Ingredient{
		Name:                 in.Name,
		Brand:                in.Brand,
		ServingSize:          in.ServingSize,
		ServingUnit:          in.ServingUnit,
		ServingsPerContainer: in.ServingsPerContainer,
		CreatedBy:            owner,
		Units:                append([]models.UnitConversion(nil), in.Units...),
	}
	for i := range ing.Units {
		ing.Units[i].CreatedBy = owner
	}
	nutrition.NormalizeUnits(ing)

	defs := make([]models.NutrientDefinition, 0, len(in.Nutrients))
	for _, n := range in.Nutrients {
		ing.Nutrients = append(ing.Nutrients, models.IngredientNutrient{NutrientKey: n.Key, Amount: n.Amount, Unit: n.Unit})
		name := strings.TrimSpace(n.DisplayName)
		if name == "" {
			name = nutrition.DisplayName(n.Key)
		}
		defs = append(defs, models.NutrientDefinition{Key: n.Key, Unit: n.Unit, DisplayName: name})
	}

	err := s.store.InTx(ctx, func(repos *repository.Repositories) error {
		var err error
		if ing, err = repos.Ingredients.Create(ctx, ing); err != nil {
			return err
		}
		return repos.Nutrients.UpsertDefinitions(ctx, defs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}

	ingredientsCreatedTotal.Inc()
	s.logger.WithFields(logrus.Fields{
		"owner":         owner,
		"ingredient_id": ing.ID,
		"nutrients":     len(ing.Nutrients),
		"units":         len(ing.Units),
	}).Infof("Created ingredient %q", ing.Name)
	return ing, nil
}

// GetIngredient returns one ingredient with display names on its nutrients.
func (s *Service) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	ing, err := s.repos().Ingredients.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	if ing == nil {
		return nil, notFoundf("ingredient %d", id)
	}
	if err := s.enrichNutrients(ctx, []*models.Ingredient{ing}); err != nil {
		return nil, err
	}
	return ing, nil
}

func (s *Service) ListIngredients(ctx context.Context) ([]*models.Ingredient, error) {
	ingredients, err := s.repos().Ingredients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	if err := s.enrichNutrients(ctx, ingredients); err != nil {
		return nil, err
	}
	if ingredients == nil {
		ingredients = []*models.Ingredient{}
	}
	return ingredients, nil
}

// SearchIngredients matches names case-insensitively. A blank query finds
// nothing.
func (s *Service) SearchIngredients(ctx context.Context, q string) ([]*models.Ingredient, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []*models.Ingredient{}, nil
	}
	ingredients, err := s.repos().Ingredients.Search(ctx, q, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	if ingredients == nil {
		ingredients = []*models.Ingredient{}
	}
	return ingredients, nil
}

// AddUnits attaches more unit conversions to an ingredient the user created.
// The combined set must still have at most one default. An ingredient without
// a serving size that ends up with no default gets its first new unit
// promoted, so it stays loggable.
func (s *Service) AddUnits(ctx context.Context, userID uuid.UUID, ingredientID int64, units []models.UnitConversion) error {
	if len(units) == 0 {
		return invalidf("at least one unit is required")
	}

	var added []models.UnitConversion
	err := s.store.InTx(ctx, func(repos *repository.Repositories) error {
		ing, err := repos.Ingredients.GetByID(ctx, ingredientID)
		if err != nil {
			return fmt.Errorf("failed to get ingredient: %w", err)
		}
		if ing == nil {
			return notFoundf("ingredient %d", ingredientID)
		}
		if ing.CreatedBy == nil || *ing.CreatedBy != userID {
			return fmt.Errorf("ingredient %d belongs to another user: %w", ingredientID, ErrForbidden)
		}

		combined := make([]models.UnitConversion, 0, len(ing.Units)+len(units))
		combined = append(combined, ing.Units...)
		for _, u := range units {
			u.UnitName = strings.TrimSpace(u.UnitName)
			u.CreatedBy = &userID
			combined = append(combined, u)
		}
		if err := nutrition.ValidateUnits(combined); err != nil {
			return asValidation(err)
		}
		if !hasDefault(ing.Units) {
			pending := &models.Ingredient{ServingSize: ing.ServingSize, Units: combined[len(ing.Units):]}
			nutrition.NormalizeUnits(pending)
		}
		added = combined[len(ing.Units):]

		if err := repos.Ingredients.AddUnits(ctx, ingredientID, added); err != nil {
			switch {
			case errors.Is(err, repository.ErrDefaultUnitTaken):
				return &ValidationError{Msg: nutrition.ErrMultipleDefaultUnits.Error(), Err: err}
			case errors.Is(err, repository.ErrDuplicateUnit):
				return &ValidationError{Msg: "unit name already exists for this ingredient", Err: err}
			}
			return fmt.Errorf("failed to add units: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "ingredient_id": ingredientID}).
		Infof("Added %d unit(s)", len(added))
	return nil
}

func hasDefault(units []models.UnitConversion) bool {
	for _, u := range units {
		if u.IsDefault {
			return true
		}
	}
	return false
}

// NutrientDisplayNames maps every known nutrient key to its label, stored
// definitions taking precedence over the static catalog.
func (s *Service) NutrientDisplayNames(ctx context.Context) (map[string]string, error) {
	defs, err := s.repos().Nutrients.ListDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list nutrient definitions: %w", err)
	}
	names := make(map[string]string, len(defs))
	for _, d := range defs {
		names[d.Key] = d.DisplayName
	}
	return names, nil
}

func displayName(names map[string]string, key string) string {
	if name, ok := names[key]; ok && name != "" {
		return name
	}
	return nutrition.DisplayName(key)
}

func (s *Service) enrichNutrients(ctx context.Context, ingredients []*models.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	names, err := s.NutrientDisplayNames(ctx)
	if err != nil {
		return err
	}
	for _, ing := range ingredients {
		for i := range ing.Nutrients {
			ing.Nutrients[i].DisplayName = displayName(names, ing.Nutrients[i].NutrientKey)
		}
	}
	return nil
}
