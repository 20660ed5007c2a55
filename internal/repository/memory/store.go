// Package memory implements repository.Store in process memory. It keeps
// the same ownership, uniqueness and merge rules as the Postgres store and
// backs the service and API tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/alimon-app/mise/internal/models"
	"github.com/alimon-app/mise/internal/repository"
)

type state struct {
	seq         int64
	users       map[uuid.UUID]*models.User
	ingredients map[int64]*models.Ingredient
	recipes     map[int64]*models.Recipe
	foodLogs    []*models.FoodLog
	inventory   []*models.InventoryItem
	goals       []*models.Goal
	nutrients   map[string]models.NutrientDefinition
	contacts    []*models.ContactMessage
}

func newState() *state {
	return &state{
		users:       make(map[uuid.UUID]*models.User),
		ingredients: make(map[int64]*models.Ingredient),
		recipes:     make(map[int64]*models.Recipe),
		nutrients:   make(map[string]models.NutrientDefinition),
	}
}

func (st *state) nextID() int64 {
	st.seq++
	return st.seq
}

func (st *state) clone() *state {
	c := &state{
		seq:         st.seq,
		users:       make(map[uuid.UUID]*models.User, len(st.users)),
		ingredients: make(map[int64]*models.Ingredient, len(st.ingredients)),
		recipes:     make(map[int64]*models.Recipe, len(st.recipes)),
		foodLogs:    make([]*models.FoodLog, len(st.foodLogs)),
		inventory:   make([]*models.InventoryItem, len(st.inventory)),
		goals:       make([]*models.Goal, len(st.goals)),
		nutrients:   make(map[string]models.NutrientDefinition, len(st.nutrients)),
		contacts:    make([]*models.ContactMessage, len(st.contacts)),
	}
	for k, v := range st.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range st.ingredients {
		c.ingredients[k] = cloneIngredient(v)
	}
	for k, v := range st.recipes {
		c.recipes[k] = cloneRecipe(v)
	}
	for i, v := range st.foodLogs {
		c.foodLogs[i] = cloneFoodLog(v)
	}
	for i, v := range st.inventory {
		item := *v
		c.inventory[i] = &item
	}
	for i, v := range st.goals {
		g := *v
		c.goals[i] = &g
	}
	for k, v := range st.nutrients {
		c.nutrients[k] = v
	}
	for i, v := range st.contacts {
		m := *v
		c.contacts[i] = &m
	}
	return c
}

// Store is an in-memory repository.Store. A transaction holds the store lock
// for its whole duration and works on a private copy that replaces the
// committed state only when fn succeeds. Code running inside InTx must use
// the repositories it is handed, never Repos().
type Store struct {
	mu    sync.Mutex
	state *state
	repos *repository.Repositories
}

// NewStore creates an empty store
func NewStore() *Store {
	s := &Store{state: newState()}
	s.repos = newRepositories(func(fn func(st *state) error) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(s.state)
	})
	return s
}

type viewFunc func(fn func(st *state) error) error

func newRepositories(view viewFunc) *repository.Repositories {
	return &repository.Repositories{
		Users:       &userRepository{view: view},
		Ingredients: &ingredientRepository{view: view},
		Recipes:     &recipeRepository{view: view},
		FoodLogs:    &foodLogRepository{view: view},
		Inventory:   &inventoryRepository{view: view},
		Goals:       &goalRepository{view: view},
		Nutrients:   &nutrientRepository{view: view},
		Contacts:    &contactRepository{view: view},
	}
}

func (s *Store) Repos() *repository.Repositories {
	return s.repos
}

func (s *Store) InTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.state.clone()
	repos := newRepositories(func(fn func(st *state) error) error {
		return fn(work)
	})
	if err := fn(repos); err != nil {
		return err
	}
	s.state = work
	return nil
}

func cloneIngredient(ing *models.Ingredient) *models.Ingredient {
	c := *ing
	c.Nutrients = append([]models.IngredientNutrient(nil), ing.Nutrients...)
	c.Units = append([]models.UnitConversion(nil), ing.Units...)
	return &c
}

func cloneRecipe(r *models.Recipe) *models.Recipe {
	c := *r
	c.Ingredients = append([]models.RecipeIngredient(nil), r.Ingredients...)
	c.Nutrients = append([]models.RecipeNutrient(nil), r.Nutrients...)
	return &c
}

func cloneFoodLog(l *models.FoodLog) *models.FoodLog {
	c := *l
	c.Nutrients = append([]models.FoodLogNutrient{}, l.Nutrients...)
	c.Ingredient = nil
	c.Recipe = nil
	return &c
}
