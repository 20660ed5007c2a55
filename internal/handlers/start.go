package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/alimon-app/mise/internal/service"
)

// StartHandler handles the /start command
type StartHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewStartHandler creates a new start command handler
func NewStartHandler(svc *service.Service, logger *logrus.Logger) *StartHandler {
	return &StartHandler{
		svc:    svc,
		logger: logger,
	}
}

// Handle processes the /start command
func (h *StartHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	user, err := ensureUser(context.Background(), h.svc, message)
	if err != nil {
		return err
	}

	welcomeText := fmt.Sprintf(`🥗 *Welcome to Mise, %s!*

I keep track of what you eat, what's in your pantry and how close you are to your daily nutrient goals.

*Quick start:*
• /log 2 cup almond milk - Log a portion
• /today - See today's totals
• /goals calories 2000 - Set a daily goal
• /stock - Check your pantry

Use /help for everything else.`, escape(user.DisplayName))

	if err := reply(bot, message, welcomeText); err != nil {
		return fmt.Errorf("failed to send start message: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": user.ID,
	}).Info("Sent start message")

	return nil
}
