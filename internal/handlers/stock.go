package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/alimon-app/mise/internal/models"
	"github.com/alimon-app/mise/internal/service"
)

// StockHandler handles /stock and /stock add <qty> <unit> <name>.
type StockHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

func NewStockHandler(svc *service.Service, logger *logrus.Logger) *StockHandler {
	return &StockHandler{svc: svc, logger: logger}
}

func (h *StockHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()
	user, err := ensureUser(ctx, h.svc, message)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		items, err := h.svc.ListInventory(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("list inventory: %w", err)
		}
		return reply(bot, message, formatStock(items))
	}

	if !strings.EqualFold(args[0], "add") {
		return reply(bot, message, "❌ Usage: `/stock` or `/stock add 1 containers almond milk`")
	}
	p, err := parsePortion(args[1:])
	if err != nil {
		return reply(bot, message, "❌ "+escape(err.Error())+"\nUsage: `/stock add 1 containers almond milk`")
	}

	ref, name, err := resolveItem(ctx, h.svc, p.Name)
	if err != nil {
		return fmt.Errorf("resolve item: %w", err)
	}
	if !ref.Valid() {
		return reply(bot, message, fmt.Sprintf("🔍 Nothing matches *%s*.", escape(p.Name)))
	}

	item, err := h.svc.AddInventory(ctx, user.ID, service.AddInventoryInput{
		IngredientID: ref.IngredientID,
		RecipeID:     ref.RecipeID,
		Quantity:     p.Quantity,
		Unit:         p.Unit,
	})
	if err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":      user.ID,
		"inventory_id": item.ID,
	}).Info("Stock added from chat")

	return reply(bot, message, fmt.Sprintf("📦 *%s*: now %s %s", escape(name), formatAmount(item.Quantity), escape(item.Unit)))
}

func formatStock(items []*models.InventoryItem) string {
	if len(items) == 0 {
		return "📦 Your pantry is empty. Add something with `/stock add`."
	}
	var sb strings.Builder
	sb.WriteString("📦 *Pantry*\n")
	for _, it := range items {
		marker := ""
		if it.Quantity <= 0 {
			marker = " ⚠️"
		}
		fmt.Fprintf(&sb, "\n• %s: %s %s%s", escape(itemName(it.Ingredient, it.Recipe)), formatAmount(it.Quantity), escape(it.Unit), marker)
	}
	return sb.String()
}
