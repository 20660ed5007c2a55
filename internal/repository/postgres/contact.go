package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/alimon-app/mise/internal/models"
	"github.com/alimon-app/mise/internal/repository"
)

const contactColumns = `id, name, email, category, message, created_at, resolved_at`

type contactRepository struct {
	db sqlx.ExtContext
}

func (r *contactRepository) Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	saved := &models.ContactMessage{}
	err := sqlx.GetContext(ctx, r.db, saved,
		`INSERT INTO contacts (name, email, category, message) VALUES ($1, $2, $3, $4) RETURNING `+contactColumns,
		msg.Name, msg.Email, msg.Category, msg.Message,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact message: %w", err)
	}
	return saved, nil
}

func (r *contactRepository) List(ctx context.Context, filters repository.ContactFilters) ([]*models.ContactMessage, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts`
	switch filters.Status {
	case repository.ContactStatusResolved:
		query += " WHERE resolved_at IS NOT NULL"
	case repository.ContactStatusUnresolved:
		query += " WHERE resolved_at IS NULL"
	}
	query += " ORDER BY created_at DESC, id DESC"

	var msgs []*models.ContactMessage
	if err := sqlx.SelectContext(ctx, r.db, &msgs, query); err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return msgs, nil
}

func (r *contactRepository) SetResolved(ctx context.Context, id int64, resolvedAt *time.Time) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{}
	err := sqlx.GetContext(ctx, r.db, msg,
		`UPDATE contacts SET resolved_at = $2 WHERE id = $1 RETURNING `+contactColumns,
		id, resolvedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("contact message with ID %d: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve contact message: %w", err)
	}
	return msg, nil
}
