package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/report"
	"github.com/Kerhoff/MessBoT/internal/service"
	"github.com/Kerhoff/MessBoT/internal/telegram"
)

// TodayHandler sends a mess owner today's summary of each owned mess followed
// by the spreadsheet export.
type TodayHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewTodayHandler creates a new TodayHandler.
func NewTodayHandler(svc *service.Service, logger *logrus.Logger) *TodayHandler {
	return &TodayHandler{svc: svc, logger: logger}
}

// Handle processes the /today command.
func (h *TodayHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	chatID := message.Chat.ID
	user, err := linkedUser(ctx, h.svc, bot, chatID)
	if err != nil || user == nil {
		return err
	}
	if user.Role != models.RoleMessOwner {
		return reply(bot, chatID, "⚠️ /today is available to mess owners only.")
	}

	messes, err := h.svc.MyMesses(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list messes: %w", err)
	}
	if len(messes) == 0 {
		return reply(bot, chatID, "You don't own any messes yet.")
	}

	for _, mess := range messes {
		summary, err := h.svc.TodaySummary(ctx, mess.ID, user.ID)
		if err != nil {
			return fmt.Errorf("today summary for mess %s: %w", mess.ID, err)
		}
		if err := reply(bot, chatID, formatSummary(summary)); err != nil {
			return err
		}

		data, err := report.TodaySummary(summary)
		if err != nil {
			return fmt.Errorf("render today summary: %w", err)
		}
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  report.TodaySummaryFilename(summary),
			Bytes: data,
		})
		if _, err := bot.Send(doc); err != nil {
			return fmt.Errorf("failed to send export: %w", err)
		}
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"user_id": user.ID,
		"messes":  len(messes),
	}).Info("Sent today summaries")

	return nil
}

func formatSummary(s *models.TodaySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍽 %s (%s) on %s\n", s.Mess.Name, s.Mess.Location, s.Date.Format(time.DateOnly))
	fmt.Fprintf(&b, "Active subscribers: %d\nBreakfast %d · Lunch %d · Dinner %d",
		s.Summary.TotalActiveSubscriptions, s.Summary.BreakfastCount, s.Summary.LunchCount, s.Summary.DinnerCount)

	for _, d := range s.Details {
		name := ""
		if d.User != nil {
			name = d.User.Name
		}
		fmt.Fprintf(&b, "\n• %s (%s): %s", name, d.Plan.Name, formatMeals(d.Attendance))
	}
	return b.String()
}
