package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/alimon-app/mise/internal/models"
	"github.com/alimon-app/mise/internal/nutrition"
	"github.com/alimon-app/mise/internal/service"
)

// maxLoggedNutrients caps the nutrient lines echoed back after /log.
const maxLoggedNutrients = 6

// LogHandler handles /log and /eat. /eat also consumes the portion from the
// user's inventory.
type LogHandler struct {
	svc             *service.Service
	logger          *logrus.Logger
	updateInventory bool
}

// NewLogHandler creates a handler for /log.
func NewLogHandler(svc *service.Service, logger *logrus.Logger) *LogHandler {
	return &LogHandler{svc: svc, logger: logger}
}

// NewEatHandler creates a handler for /eat.
func NewEatHandler(svc *service.Service, logger *logrus.Logger) *LogHandler {
	return &LogHandler{svc: svc, logger: logger, updateInventory: true}
}

// Handle processes the /log command.
func (h *LogHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	p, err := parsePortion(args)
	if err != nil {
		return reply(bot, message, "❌ "+escape(err.Error())+"\nUsage: `/log 2 cup almond milk`")
	}

	ctx := context.Background()
	user, err := ensureUser(ctx, h.svc, message)
	if err != nil {
		return err
	}

	ref, name, err := resolveItem(ctx, h.svc, p.Name)
	if err != nil {
		return fmt.Errorf("resolve item: %w", err)
	}
	if !ref.Valid() {
		return reply(bot, message, fmt.Sprintf("🔍 Nothing matches *%s*.", escape(p.Name)))
	}

	log, err := h.svc.LogFood(ctx, user.ID, service.LogFoodInput{
		IngredientID:    ref.IngredientID,
		RecipeID:        ref.RecipeID,
		Quantity:        p.Quantity,
		Unit:            p.Unit,
		UpdateInventory: h.updateInventory,
	})
	if err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id":     message.Chat.ID,
		"user_id":     user.ID,
		"food_log_id": log.ID,
	}).Info("Food logged from chat")

	return reply(bot, message, formatLogged(log, name))
}

func formatLogged(log *models.FoodLog, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Logged %s %s *%s*", formatAmount(log.Quantity), escape(log.Unit), escape(name))
	if log.UpdateInventory {
		sb.WriteString(" (taken from stock)")
	}
	for i, n := range log.Nutrients {
		if i == maxLoggedNutrients {
			fmt.Fprintf(&sb, "\n_…and %d more_", len(log.Nutrients)-i)
			break
		}
		fmt.Fprintf(&sb, "\n• %s: %s %s", nutrition.DisplayName(n.NutrientKey), formatAmount(n.Amount), n.Unit)
	}
	return sb.String()
}
