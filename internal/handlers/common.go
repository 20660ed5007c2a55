package handlers

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/alimon-app/mise/internal/models"
	"github.com/alimon-app/mise/internal/service"
)

// reply sends a Markdown message to the chat the command came from.
func reply(bot *tgbotapi.BotAPI, message *tgbotapi.Message, text string) error {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func ensureUser(ctx context.Context, svc *service.Service, message *tgbotapi.Message) (*models.User, error) {
	from := message.From
	user, err := svc.EnsureTelegramUser(ctx, from.ID, from.UserName, from.FirstName, from.LastName)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	return user, nil
}

// formatAmount rounds to one decimal and drops a trailing ".0".
func formatAmount(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// parseQuantity accepts "1.5" and "1,5".
func parseQuantity(raw string) (float64, error) {
	q, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || q <= 0 || math.IsInf(q, 0) || math.IsNaN(q) {
		return 0, fmt.Errorf("%q is not a positive number", raw)
	}
	return q, nil
}

// portion is a "<qty> <unit> <name…>" argument list.
type portion struct {
	Quantity float64
	Unit     string
	Name     string
}

func parsePortion(args []string) (portion, error) {
	if len(args) < 3 {
		return portion{}, fmt.Errorf("expected <quantity> <unit> <name>")
	}
	q, err := parseQuantity(args[0])
	if err != nil {
		return portion{}, err
	}
	return portion{Quantity: q, Unit: args[1], Name: strings.Join(args[2:], " ")}, nil
}

// pickIngredient prefers an exact (case-insensitive) name match over the
// first search hit.
func pickIngredient(matches []*models.Ingredient, name string) *models.Ingredient {
	for _, ing := range matches {
		if strings.EqualFold(ing.Name, name) {
			return ing
		}
	}
	if len(matches) > 0 {
		return matches[0]
	}
	return nil
}

func pickRecipe(matches []*models.Recipe, name string) *models.Recipe {
	for _, r := range matches {
		if strings.EqualFold(r.Name, name) {
			return r
		}
	}
	if len(matches) > 0 {
		return matches[0]
	}
	return nil
}

// itemName labels an inventory row or food log by what it refers to.
func itemName(ing *models.Ingredient, recipe *models.Recipe) string {
	switch {
	case ing != nil:
		return ing.Name
	case recipe != nil:
		return recipe.Name
	default:
		return "unknown item"
	}
}

// resolveItem looks up an ingredient by name, then a recipe.
func resolveItem(ctx context.Context, svc *service.Service, name string) (models.ItemRef, string, error) {
	ingredients, err := svc.SearchIngredients(ctx, name)
	if err != nil {
		return models.ItemRef{}, "", err
	}
	if ing := pickIngredient(ingredients, name); ing != nil {
		return models.IngredientRef(ing.ID), ing.Name, nil
	}
	recipes, err := svc.SearchRecipes(ctx, name)
	if err != nil {
		return models.ItemRef{}, "", err
	}
	if r := pickRecipe(recipes, name); r != nil {
		return models.RecipeRef(r.ID), r.Name, nil
	}
	return models.ItemRef{}, "", nil
}
