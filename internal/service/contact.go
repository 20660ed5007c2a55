package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alimon-app/mise/internal/models"
	"github.com/alimon-app/mise/internal/repository"
)

const defaultContactCategory = "general"

// ContactInput is a message submitted through the public contact form.
type ContactInput struct {
	Name     string
	Email    string
	Category string
	Message  string
}

func (s *Service) SubmitContact(ctx context.Context, in ContactInput) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Category: strings.TrimSpace(in.Category),
		Message:  strings.TrimSpace(in.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return nil, invalidf("missing required fields")
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		return nil, invalidf("email is not a valid address")
	}
	if msg.Category == "" {
		msg.Category = defaultContactCategory
	}

	saved, err := s.repos().Contacts.Create(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}
	s.logger.WithField("category", saved.Category).Info("Contact message received")
	return saved, nil
}

// ListContacts is restricted to the administrator.
func (s *Service) ListContacts(ctx context.Context, userID uuid.UUID, status string) ([]*models.ContactMessage, error) {
	if err := s.checkAdmin(userID); err != nil {
		return nil, err
	}
	filter := repository.ContactStatus(strings.TrimSpace(status))
	switch filter {
	case "":
		filter = repository.ContactStatusAll
	case repository.ContactStatusAll, repository.ContactStatusResolved, repository.ContactStatusUnresolved:
	default:
		return nil, invalidf("status must be all, resolved or unresolved")
	}

	msgs, err := s.repos().Contacts.List(ctx, repository.ContactFilters{Status: filter})
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	if msgs == nil {
		msgs = []*models.ContactMessage{}
	}
	return msgs, nil
}

// ResolveContact marks a message handled, or reopens it.
func (s *Service) ResolveContact(ctx context.Context, userID uuid.UUID, id int64, resolved bool) (*models.ContactMessage, error) {
	if err := s.checkAdmin(userID); err != nil {
		return nil, err
	}
	var resolvedAt *time.Time
	if resolved {
		now := s.now()
		resolvedAt = &now
	}
	msg, err := s.repos().Contacts.SetResolved(ctx, id, resolvedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update contact message: %w", err)
	}
	return msg, nil
}

// IsAdmin reports whether userID is the configured administrator.
func (s *Service) IsAdmin(userID uuid.UUID) bool {
	return s.admin != nil && *s.admin == userID
}

func (s *Service) checkAdmin(userID uuid.UUID) error {
	if !s.IsAdmin(userID) {
		return fmt.Errorf("admin access required: %w", ErrForbidden)
	}
	return nil
}
