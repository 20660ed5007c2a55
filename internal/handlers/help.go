package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// HelpHandler handles the /help command
type HelpHandler struct {
	logger *logrus.Logger
}

func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

func (h *HelpHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	helpText := `📚 *Mise Help*

*Food log:*
• /log <qty> <unit> <name> - Log an ingredient or recipe
• /eat <qty> <unit> <name> - Log it and take it out of stock
• /today [YYYY-MM-DD] - Nutrient totals for a day

*Goals:*
• /goals - Show your daily goals
• /goals <nutrient> <target> - Set a goal
• /goals <nutrient> off - Remove a goal

*Pantry:*
• /stock - Show your inventory
• /stock add <qty> <unit> <name> - Add to your inventory

_Units: servings, containers, the serving unit (e.g. g, ml) or any custom unit of the ingredient. Recipes are counted in servings._`

	if err := reply(bot, message, helpText); err != nil {
		return fmt.Errorf("failed to send help message: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}).Info("Sent help message")

	return nil
}
