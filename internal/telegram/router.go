package telegram

import (
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/alimon-app/mise/internal/service"
)

// Router handles message routing and command parsing
type Router struct {
	logger       *logrus.Logger
	handlers     map[string]CommandHandler
	descriptions map[string]string
}

// CommandHandler defines the interface for command handlers
type CommandHandler interface {
	Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error
}

// NewRouter creates a new message router
func NewRouter(logger *logrus.Logger) *Router {
	return &Router{
		logger:       logger,
		handlers:     make(map[string]CommandHandler),
		descriptions: make(map[string]string),
	}
}

// RegisterCommand registers a command handler
func (r *Router) RegisterCommand(command, description string, handler CommandHandler) {
	r.handlers[command] = handler
	r.descriptions[command] = description
	r.logger.Debugf("Registered command: %s", command)
}

// Descriptions returns the registered commands and their descriptions.
func (r *Router) Descriptions() map[string]string {
	out := make(map[string]string, len(r.descriptions))
	for k, v := range r.descriptions {
		out[k] = v
	}
	return out
}

// HandleMessage handles incoming messages
func (r *Router) HandleMessage(bot *tgbotapi.BotAPI, message *tgbotapi.Message) {
	if message.From == nil || message.Text == "" || !message.IsCommand() {
		return
	}

	command := message.Command()
	args := strings.Fields(message.CommandArguments())

	fields := logrus.Fields{
		"command": command,
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}
	r.logger.WithFields(fields).Debug("Received command")

	handler, exists := r.handlers[command]
	if !exists {
		r.logger.WithFields(fields).Warn("Unknown command")
		bot.Send(tgbotapi.NewMessage(message.Chat.ID, "❓ Unknown command. Use /help to see available commands."))
		return
	}

	if err := handler.Handle(bot, message, args); err != nil {
		text, expected := userMessage(err)
		entry := r.logger.WithFields(fields).WithError(err)
		if expected {
			entry.Info("Command rejected")
		} else {
			entry.Error("Command handler failed")
		}
		bot.Send(tgbotapi.NewMessage(message.Chat.ID, text))
	}
}

// userMessage turns a handler error into the reply shown in the chat. The
// flag reports whether the error was caused by the user's input.
func userMessage(err error) (string, bool) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return "⚠️ " + verr.Error(), true
	case errors.Is(err, service.ErrNotFound):
		return "🔍 Not found.", true
	case errors.Is(err, service.ErrConflict):
		return "⚠️ That already exists.", true
	case errors.Is(err, service.ErrForbidden):
		return "⛔ You can't change that.", true
	default:
		return "❌ An error occurred while processing your command. Please try again.", false
	}
}
