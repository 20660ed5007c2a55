package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/alimon-app/mise/internal/service"
)

// TodayHandler handles /today [YYYY-MM-DD].
type TodayHandler struct {
	svc    *service.Service
	logger *logrus.Logger
	now    func() time.Time
}

func NewTodayHandler(svc *service.Service, logger *logrus.Logger) *TodayHandler {
	return &TodayHandler{svc: svc, logger: logger, now: time.Now}
}

func (h *TodayHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	day := h.now().UTC()
	if len(args) > 0 {
		d, err := service.ParseDay(args[0])
		if err != nil {
			return reply(bot, message, "❌ Dates look like `2025-01-15`.")
		}
		day = d
	}

	ctx := context.Background()
	user, err := ensureUser(ctx, h.svc, message)
	if err != nil {
		return err
	}

	summary, err := h.svc.DailySummary(ctx, user.ID, day)
	if err != nil {
		return fmt.Errorf("daily summary: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"date":    summary.Date,
	}).Debug("Sent daily summary")

	return reply(bot, message, formatSummary(summary))
}

func formatSummary(summary *service.DailySummary) string {
	if len(summary.Nutrients) == 0 {
		return fmt.Sprintf("📭 Nothing logged on %s and no goals set.", summary.Date)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 *%s*\n", summary.Date)
	for _, n := range summary.Nutrients {
		fmt.Fprintf(&sb, "\n• %s: %s %s", n.DisplayName, formatAmount(n.Consumed), n.Unit)
		if n.Target != nil && n.DisplayPercent != nil {
			fmt.Fprintf(&sb, " / %s (%s%%)", formatAmount(*n.Target), formatAmount(*n.DisplayPercent))
			if *n.DisplayPercent >= 100 {
				sb.WriteString(" ✅")
			}
		}
	}
	return sb.String()
}
