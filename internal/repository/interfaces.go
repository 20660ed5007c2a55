package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alimon-app/mise/internal/models"
)

var (
	// ErrNotFound is returned by writes that matched no row owned by the caller.
	// Lookups return a nil model instead.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write would violate a uniqueness constraint
	ErrConflict = errors.New("conflict")
	// ErrDuplicateUnit and ErrDefaultUnitTaken refine ErrConflict for
	// ingredient_units.
	ErrDuplicateUnit    = fmt.Errorf("unit name already used: %w", ErrConflict)
	ErrDefaultUnitTaken = fmt.Errorf("default unit already set: %w", ErrConflict)
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
}

// IngredientRepository defines the interface for ingredient data operations
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*models.Ingredient, error)
	List(ctx context.Context) ([]*models.Ingredient, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Ingredient, error)
	AddUnits(ctx context.Context, ingredientID int64, units []models.UnitConversion) error
}

// RecipeRepository defines the interface for recipe data operations
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	GetByID(ctx context.Context, id int64) (*models.Recipe, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Recipe, error)
}

// FoodLogRepository defines the interface for food log operations
type FoodLogRepository interface {
	Create(ctx context.Context, log *models.FoodLog) (*models.FoodLog, error)
	AddNutrients(ctx context.Context, foodLogID int64, nutrients []models.FoodLogNutrient) error
	List(ctx context.Context, userID uuid.UUID, filters FoodLogFilters) ([]*models.FoodLog, error)
}

// InventoryRepository defines the interface for inventory operations
type InventoryRepository interface {
	// ApplyDelta atomically adds delta to the row for (userID, ref), creating
	// it when missing, and overwrites its unit.
	ApplyDelta(ctx context.Context, userID uuid.UUID, ref models.ItemRef, delta float64, unit string) (*models.InventoryItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.InventoryItem, error)
}

// GoalRepository defines the interface for goal operations
type GoalRepository interface {
	Create(ctx context.Context, goal *models.Goal) (*models.Goal, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error)
	UpdateTarget(ctx context.Context, userID uuid.UUID, id int64, target float64) (*models.Goal, error)
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
}

// NutrientRepository defines the interface for the global nutrient definitions
type NutrientRepository interface {
	UpsertDefinitions(ctx context.Context, defs []models.NutrientDefinition) error
	ListDefinitions(ctx context.Context) ([]models.NutrientDefinition, error)
}

// ContactRepository defines the interface for contact form messages
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error)
	List(ctx context.Context, filters ContactFilters) ([]*models.ContactMessage, error)
	SetResolved(ctx context.Context, id int64, resolvedAt *time.Time) (*models.ContactMessage, error)
}

// Repositories bundles every repository bound to the same connection or transaction
type Repositories struct {
	Users       UserRepository
	Ingredients IngredientRepository
	Recipes     RecipeRepository
	FoodLogs    FoodLogRepository
	Inventory   InventoryRepository
	Goals       GoalRepository
	Nutrients   NutrientRepository
	Contacts    ContactRepository
}

// Store hands out repositories and runs units of work. Repositories passed to
// fn inside InTx share one transaction; it commits when fn returns nil and
// rolls back otherwise.
type Store interface {
	Repos() *Repositories
	InTx(ctx context.Context, fn func(repos *Repositories) error) error
}

// FoodLogFilters represents filters for querying food logs
type FoodLogFilters struct {
	From  *time.Time // inclusive
	To    *time.Time // exclusive
	Limit int
}

// ContactStatus selects contact messages by resolution state
type ContactStatus string

const (
	ContactStatusAll        ContactStatus = "all"
	ContactStatusResolved   ContactStatus = "resolved"
	ContactStatusUnresolved ContactStatus = "unresolved"
)

// ContactFilters represents filters for querying contact messages
type ContactFilters struct {
	Status ContactStatus
}
