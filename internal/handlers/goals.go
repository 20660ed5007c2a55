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

// GoalsHandler handles /goals, /goals <nutrient> <target> and
// /goals <nutrient> off.
type GoalsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

func NewGoalsHandler(svc *service.Service, logger *logrus.Logger) *GoalsHandler {
	return &GoalsHandler{svc: svc, logger: logger}
}

func (h *GoalsHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()
	user, err := ensureUser(ctx, h.svc, message)
	if err != nil {
		return err
	}

	goals, err := h.svc.ListGoals(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list goals: %w", err)
	}

	switch len(args) {
	case 0:
		return reply(bot, message, formatGoals(goals))
	case 2:
	default:
		return reply(bot, message, "❌ Usage: `/goals protein 120` or `/goals protein off`")
	}

	key := strings.ToLower(args[0])
	existing := findGoal(goals, key)

	if strings.EqualFold(args[1], "off") {
		if existing == nil {
			return reply(bot, message, fmt.Sprintf("🤷 No goal set for %s.", nutrition.DisplayName(key)))
		}
		if err := h.svc.DeleteGoal(ctx, user.ID, existing.ID); err != nil {
			return err
		}
		return reply(bot, message, fmt.Sprintf("🗑 Removed your %s goal.", nutrition.DisplayName(key)))
	}

	target, err := parseQuantity(args[1])
	if err != nil {
		return reply(bot, message, "❌ "+escape(err.Error()))
	}

	var goal *models.Goal
	if existing != nil {
		goal, err = h.svc.UpdateGoal(ctx, user.ID, existing.ID, target)
	} else {
		goal, err = h.svc.CreateGoal(ctx, user.ID, key, target)
	}
	if err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"goal_id": goal.ID,
		"key":     goal.NutrientKey,
	}).Info("Goal set from chat")

	return reply(bot, message, fmt.Sprintf("🎯 %s goal set to %s%s.",
		nutrition.DisplayName(goal.NutrientKey), formatAmount(goal.TargetAmount), goalUnitSuffix(goal.NutrientKey)))
}

func findGoal(goals []*models.Goal, key string) *models.Goal {
	for _, g := range goals {
		if g.NutrientKey == key {
			return g
		}
	}
	return nil
}

func goalUnitSuffix(key string) string {
	if def, ok := nutrition.Lookup(key); ok {
		return " " + def.Unit
	}
	return ""
}

func formatGoals(goals []*models.Goal) string {
	if len(goals) == 0 {
		return "🎯 No goals yet. Try `/goals calories 2000`."
	}
	var sb strings.Builder
	sb.WriteString("🎯 *Daily goals*\n")
	for _, g := range goals {
		fmt.Fprintf(&sb, "\n• %s: %s%s", nutrition.DisplayName(g.NutrientKey), formatAmount(g.TargetAmount), goalUnitSuffix(g.NutrientKey))
	}
	return sb.String()
}
