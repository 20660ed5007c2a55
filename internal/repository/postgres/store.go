package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/alimon-app/mise/internal/repository"
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

const defaultUnitIndex = "ux_ingredient_units_default"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Store hands out repositories bound either to the pool or to a transaction
type Store struct {
	db    *sqlx.DB
	repos *repository.Repositories
}

// NewStore creates a Postgres-backed store
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, repos: newRepositories(db)}
}

func newRepositories(q sqlx.ExtContext) *repository.Repositories {
	return &repository.Repositories{
		Users:       &userRepository{db: q},
		Ingredients: &ingredientRepository{db: q},
		Recipes:     &recipeRepository{db: q},
		FoodLogs:    &foodLogRepository{db: q},
		Inventory:   &inventoryRepository{db: q},
		Goals:       &goalRepository{db: q},
		Nutrients:   &nutrientRepository{db: q},
		Contacts:    &contactRepository{db: q},
	}
}

// Repos returns repositories that run each statement on its own connection
func (s *Store) Repos() *repository.Repositories {
	return s.repos
}

// InTx runs fn inside a single transaction
func (s *Store) InTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(newRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// violatedConstraint names the constraint behind a Postgres error, if any.
func violatedConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

// containsPattern builds an ILIKE ... ESCAPE '\' pattern matching q literally
// anywhere in the value.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

func checkAffected(rowsAffected int64, what string, id int64) error {
	if rowsAffected == 0 {
		return fmt.Errorf("%s with ID %d: %w", what, id, repository.ErrNotFound)
	}
	return nil
}
