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

// searchLimit caps ingredient and recipe search results.
const searchLimit = 10

// recentMealsLimit is how many logs the recent meals view shows.
const recentMealsLimit = 3

// Service is the business logic layer shared by the HTTP API, the Telegram
// bot and the CLI. Every multi-row write goes through Store.InTx.
type Service struct {
	store  repository.Store
	logger *logrus.Logger
	admin  *uuid.UUID
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithAdmin grants userID access to the contact inbox.
func WithAdmin(userID *uuid.UUID) Option {
	return func(s *Service) { s.admin = userID }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a new Service.
func New(store repository.Store, logger *logrus.Logger, opts ...Option) *Service {
	s := &Service{store: store, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) repos() *repository.Repositories {
	return s.store.Repos()
}

// EnsureUser returns the user behind an access token subject, creating the
// record on first sight. A non-empty display name refreshes the stored one.
func (s *Service) EnsureUser(ctx context.Context, id uuid.UUID, displayName string) (*models.User, error) {
	displayName = strings.TrimSpace(displayName)

	user, err := s.repos().Users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user %s: %w", id, err)
	}
	if user != nil && (displayName == "" || displayName == user.DisplayName) {
		return user, nil
	}

	user, err = s.repos().Users.Upsert(ctx, &models.User{ID: id, DisplayName: displayName})
	if err != nil {
		return nil, fmt.Errorf("failed to save user %s: %w", id, err)
	}
	s.logger.WithField("user_id", id).Debug("User saved")
	return user, nil
}

// EnsureTelegramUser retrieves the user linked to a Telegram account, or
// creates one with a fresh ID. Profile name changes are written back.
func (s *Service) EnsureTelegramUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*models.User, error) {
	name := telegramDisplayName(username, firstName, lastName)

	user, err := s.repos().Users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user (telegram_id=%d): %w", telegramID, err)
	}
	if user == nil {
		user, err = s.repos().Users.Upsert(ctx, &models.User{ID: uuid.New(), TelegramID: &telegramID, DisplayName: name})
		if err != nil {
			return nil, fmt.Errorf("failed to create user (telegram_id=%d): %w", telegramID, err)
		}
		s.logger.Infof("Created new user: %s (telegram_id=%d)", user.DisplayName, telegramID)
		return user, nil
	}

	if name != "" && name != user.DisplayName {
		id := user.ID
		user, err = s.repos().Users.Upsert(ctx, &models.User{ID: id, DisplayName: name})
		if err != nil {
			return nil, fmt.Errorf("failed to update user %s: %w", id, err)
		}
		s.logger.Infof("Updated user profile: %s (telegram_id=%d)", user.DisplayName, telegramID)
	}
	return user, nil
}

func telegramDisplayName(username, firstName, lastName string) string {
	full := strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
	if full != "" {
		return full
	}
	if username = strings.TrimSpace(username); username != "" {
		return "@" + username
	}
	return ""
}
