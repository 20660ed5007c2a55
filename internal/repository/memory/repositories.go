package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alimon-app/mise/internal/models"
	"github.com/alimon-app/mise/internal/repository"
)

type userRepository struct{ view viewFunc }

func (r *userRepository) Upsert(_ context.Context, user *models.User) (*models.User, error) {
	var out *models.User
	err := r.view(func(st *state) error {
		now := time.Now()
		existing, ok := st.users[user.ID]
		if !ok {
			u := *user
			u.CreatedAt, u.UpdatedAt = now, now
			st.users[u.ID] = &u
			c := u
			out = &c
			return nil
		}
		if user.TelegramID != nil {
			existing.TelegramID = user.TelegramID
		}
		if user.DisplayName != "" {
			existing.DisplayName = user.DisplayName
		}
		existing.UpdatedAt = now
		c := *existing
		out = &c
		return nil
	})
	return out, err
}

func (r *userRepository) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	var out *models.User
	err := r.view(func(st *state) error {
		if u, ok := st.users[id]; ok {
			c := *u
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *userRepository) GetByTelegramID(_ context.Context, telegramID int64) (*models.User, error) {
	var out *models.User
	err := r.view(func(st *state) error {
		for _, u := range st.users {
			if u.TelegramID != nil && *u.TelegramID == telegramID {
				c := *u
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

type ingredientRepository struct{ view viewFunc }

func (r *ingredientRepository) Create(_ context.Context, ing *models.Ingredient) (*models.Ingredient, error) {
	err := r.view(func(st *state) error {
		ing.ID = st.nextID()
		ing.CreatedAt = time.Now()
		for i := range ing.Nutrients {
			ing.Nutrients[i].ID = st.nextID()
			ing.Nutrients[i].IngredientID = ing.ID
		}
		stored := cloneIngredient(ing)
		stored.Units = nil
		if err := addUnits(st, stored, ing.Units); err != nil {
			return err
		}
		copy(ing.Units, stored.Units)
		st.ingredients[ing.ID] = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ing, nil
}

func (r *ingredientRepository) GetByID(_ context.Context, id int64) (*models.Ingredient, error) {
	var out *models.Ingredient
	err := r.view(func(st *state) error {
		if ing, ok := st.ingredients[id]; ok {
			out = cloneIngredient(ing)
		}
		return nil
	})
	return out, err
}

func (r *ingredientRepository) List(_ context.Context) ([]*models.Ingredient, error) {
	return r.filter(func(*models.Ingredient) bool { return true }, 0)
}

func (r *ingredientRepository) Search(_ context.Context, q string, limit int) ([]*models.Ingredient, error) {
	needle := strings.ToLower(q)
	return r.filter(func(ing *models.Ingredient) bool {
		return strings.Contains(strings.ToLower(ing.Name), needle)
	}, limit)
}

func (r *ingredientRepository) filter(keep func(*models.Ingredient) bool, limit int) ([]*models.Ingredient, error) {
	var out []*models.Ingredient
	err := r.view(func(st *state) error {
		for _, ing := range st.ingredients {
			if keep(ing) {
				out = append(out, cloneIngredient(ing))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *ingredientRepository) AddUnits(_ context.Context, ingredientID int64, units []models.UnitConversion) error {
	return r.view(func(st *state) error {
		ing, ok := st.ingredients[ingredientID]
		if !ok {
			return fmt.Errorf("ingredient with ID %d: %w", ingredientID, repository.ErrNotFound)
		}
		updated := cloneIngredient(ing)
		if err := addUnits(st, updated, units); err != nil {
			return err
		}
		copy(units, updated.Units[len(ing.Units):])
		st.ingredients[ingredientID] = updated
		return nil
	})
}

// addUnits mirrors the (ingredient_id, unit_name) and single-default
// constraints of ingredient_units.
func addUnits(st *state, ing *models.Ingredient, units []models.UnitConversion) error {
	for _, u := range units {
		for _, existing := range ing.Units {
			if existing.UnitName == u.UnitName {
				return fmt.Errorf("unit %q for ingredient %d: %w", u.UnitName, ing.ID, repository.ErrDuplicateUnit)
			}
			if existing.IsDefault && u.IsDefault {
				return fmt.Errorf("unit %q for ingredient %d: %w", u.UnitName, ing.ID, repository.ErrDefaultUnitTaken)
			}
		}
		u.ID = st.nextID()
		u.IngredientID = ing.ID
		ing.Units = append(ing.Units, u)
	}
	return nil
}

type recipeRepository struct{ view viewFunc }

func (r *recipeRepository) Create(_ context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	err := r.view(func(st *state) error {
		recipe.ID = st.nextID()
		recipe.CreatedAt = time.Now()
		for i := range recipe.Ingredients {
			recipe.Ingredients[i].ID = st.nextID()
			recipe.Ingredients[i].RecipeID = recipe.ID
			recipe.Ingredients[i].Position = i
		}
		for i := range recipe.Nutrients {
			recipe.Nutrients[i].ID = st.nextID()
			recipe.Nutrients[i].RecipeID = recipe.ID
		}
		st.recipes[recipe.ID] = cloneRecipe(recipe)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

func (r *recipeRepository) GetByID(_ context.Context, id int64) (*models.Recipe, error) {
	var out *models.Recipe
	err := r.view(func(st *state) error {
		if recipe, ok := st.recipes[id]; ok {
			out = cloneRecipe(recipe)
		}
		return nil
	})
	return out, err
}

func (r *recipeRepository) Search(_ context.Context, q string, limit int) ([]*models.Recipe, error) {
	needle := strings.ToLower(q)
	var out []*models.Recipe
	err := r.view(func(st *state) error {
		for _, recipe := range st.recipes {
			if strings.Contains(strings.ToLower(recipe.Name), needle) {
				c := *recipe
				c.Ingredients, c.Nutrients = nil, nil
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

type foodLogRepository struct{ view viewFunc }

func (r *foodLogRepository) Create(_ context.Context, log *models.FoodLog) (*models.FoodLog, error) {
	if !log.Ref().Valid() {
		return nil, fmt.Errorf("failed to create food log: invalid reference %s", log.Ref())
	}
	err := r.view(func(st *state) error {
		log.ID = st.nextID()
		log.CreatedAt = time.Now()
		if log.LoggedAt.IsZero() {
			log.LoggedAt = log.CreatedAt
		}
		st.foodLogs = append(st.foodLogs, cloneFoodLog(log))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

func (r *foodLogRepository) AddNutrients(_ context.Context, foodLogID int64, nutrients []models.FoodLogNutrient) error {
	return r.view(func(st *state) error {
		for _, l := range st.foodLogs {
			if l.ID != foodLogID {
				continue
			}
			for i := range nutrients {
				nutrients[i].ID = st.nextID()
				nutrients[i].FoodLogID = foodLogID
				l.Nutrients = append(l.Nutrients, nutrients[i])
			}
			return nil
		}
		return fmt.Errorf("food log with ID %d: %w", foodLogID, repository.ErrNotFound)
	})
}

func (r *foodLogRepository) List(_ context.Context, userID uuid.UUID, filters repository.FoodLogFilters) ([]*models.FoodLog, error) {
	var out []*models.FoodLog
	err := r.view(func(st *state) error {
		for _, l := range st.foodLogs {
			if l.UserID != userID {
				continue
			}
			if filters.From != nil && l.LoggedAt.Before(*filters.From) {
				continue
			}
			if filters.To != nil && !l.LoggedAt.Before(*filters.To) {
				continue
			}
			out = append(out, cloneFoodLog(l))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LoggedAt.Equal(out[j].LoggedAt) {
			return out[i].LoggedAt.After(out[j].LoggedAt)
		}
		return out[i].ID > out[j].ID
	})
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, err
}

type inventoryRepository struct{ view viewFunc }

func (r *inventoryRepository) ApplyDelta(_ context.Context, userID uuid.UUID, ref models.ItemRef, delta float64, unit string) (*models.InventoryItem, error) {
	if !ref.Valid() {
		return nil, fmt.Errorf("invalid inventory reference %s", ref)
	}
	var out *models.InventoryItem
	err := r.view(func(st *state) error {
		now := time.Now()
		for _, item := range st.inventory {
			if item.UserID == userID && item.Ref().String() == ref.String() {
				item.Quantity += delta
				item.Unit = unit
				item.UpdatedAt = now
				c := *item
				out = &c
				return nil
			}
		}
		item := &models.InventoryItem{
			ID:           st.nextID(),
			UserID:       userID,
			IngredientID: ref.IngredientID,
			RecipeID:     ref.RecipeID,
			Quantity:     delta,
			Unit:         unit,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		st.inventory = append(st.inventory, item)
		c := *item
		out = &c
		return nil
	})
	return out, err
}

func (r *inventoryRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.InventoryItem, error) {
	var out []*models.InventoryItem
	err := r.view(func(st *state) error {
		for _, item := range st.inventory {
			if item.UserID == userID {
				c := *item
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, err
}

type goalRepository struct{ view viewFunc }

func (r *goalRepository) Create(_ context.Context, goal *models.Goal) (*models.Goal, error) {
	var out *models.Goal
	err := r.view(func(st *state) error {
		for _, g := range st.goals {
			if g.UserID == goal.UserID && g.NutrientKey == goal.NutrientKey {
				return fmt.Errorf("goal for %s: %w", goal.NutrientKey, repository.ErrConflict)
			}
		}
		now := time.Now()
		g := *goal
		g.ID = st.nextID()
		g.CreatedAt, g.UpdatedAt = now, now
		st.goals = append(st.goals, &g)
		c := g
		out = &c
		return nil
	})
	return out, err
}

func (r *goalRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	var out []*models.Goal
	err := r.view(func(st *state) error {
		for _, g := range st.goals {
			if g.UserID == userID {
				c := *g
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].NutrientKey < out[j].NutrientKey })
	return out, err
}

func (r *goalRepository) UpdateTarget(_ context.Context, userID uuid.UUID, id int64, target float64) (*models.Goal, error) {
	var out *models.Goal
	err := r.view(func(st *state) error {
		for _, g := range st.goals {
			if g.ID == id && g.UserID == userID {
				g.TargetAmount = target
				g.UpdatedAt = time.Now()
				c := *g
				out = &c
				return nil
			}
		}
		return fmt.Errorf("goal with ID %d: %w", id, repository.ErrNotFound)
	})
	return out, err
}

func (r *goalRepository) Delete(_ context.Context, userID uuid.UUID, id int64) error {
	return r.view(func(st *state) error {
		for i, g := range st.goals {
			if g.ID == id && g.UserID == userID {
				st.goals = append(st.goals[:i], st.goals[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("goal with ID %d: %w", id, repository.ErrNotFound)
	})
}

type nutrientRepository struct{ view viewFunc }

func (r *nutrientRepository) UpsertDefinitions(_ context.Context, defs []models.NutrientDefinition) error {
	return r.view(func(st *state) error {
		for _, d := range defs {
			st.nutrients[d.Key] = d
		}
		return nil
	})
}

func (r *nutrientRepository) ListDefinitions(_ context.Context) ([]models.NutrientDefinition, error) {
	var out []models.NutrientDefinition
	err := r.view(func(st *state) error {
		for _, d := range st.nutrients {
			out = append(out, d)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, err
}

type contactRepository struct{ view viewFunc }

func (r *contactRepository) Create(_ context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	var out *models.ContactMessage
	err := r.view(func(st *state) error {
		m := *msg
		m.ID = st.nextID()
		m.CreatedAt = time.Now()
		st.contacts = append(st.contacts, &m)
		c := m
		out = &c
		return nil
	})
	return out, err
}

func (r *contactRepository) List(_ context.Context, filters repository.ContactFilters) ([]*models.ContactMessage, error) {
	var out []*models.ContactMessage
	err := r.view(func(st *state) error {
		for i := len(st.contacts) - 1; i >= 0; i-- {
			m := st.contacts[i]
			switch filters.Status {
			case repository.ContactStatusResolved:
				if !m.IsResolved() {
					continue
				}
			case repository.ContactStatusUnresolved:
				if m.IsResolved() {
					continue
				}
			}
			c := *m
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (r *contactRepository) SetResolved(_ context.Context, id int64, resolvedAt *time.Time) (*models.ContactMessage, error) {
	var out *models.ContactMessage
	err := r.view(func(st *state) error {
		for _, m := range st.contacts {
			if m.ID == id {
				m.ResolvedAt = resolvedAt
				c := *m
				out = &c
				return nil
			}
		}
		return fmt.Errorf("contact message with ID %d: %w", id, repository.ErrNotFound)
	})
	return out, err
}
