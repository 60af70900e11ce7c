package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/service"
	"github.com/Kerhoff/MessBoT/internal/telegram"
)

// ---------------------------------------------------------------------------
// SubsHandler – /subs
// ---------------------------------------------------------------------------

// SubsHandler lists the linked user's active subscriptions
type SubsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewSubsHandler creates a new SubsHandler.
func NewSubsHandler(svc *service.Service, logger *logrus.Logger) *SubsHandler {
	return &SubsHandler{svc: svc, logger: logger}
}

// Handle processes the /subs command.
func (h *SubsHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	user, err := linkedUser(ctx, h.svc, bot, message.Chat.ID)
	if err != nil || user == nil {
		return err
	}

	subs, err := h.svc.ListActiveSubscriptions(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}

	return reply(bot, message.Chat.ID, formatSubscriptions(subs))
}

func formatSubscriptions(subs []*models.Subscription) string {
	if len(subs) == 0 {
		return "You have no active subscriptions."
	}

	var b strings.Builder
	b.WriteString("📋 Your active subscriptions:\n")
	for i, sub := range subs {
		mess := ""
		if sub.Plan != nil && sub.Plan.Mess != nil {
			mess = " @ " + sub.Plan.Mess.Name
		}
		fmt.Fprintf(&b, "\n%d. %s%s (%s)\n   %s → %s",
			i+1, sub.PlanNameSnapshot, mess, sub.MealTypeSnapshot,
			sub.StartDate.Format(time.DateOnly), sub.EndDate.Format(time.DateOnly))
	}
	b.WriteString("\n\nMark today's meals with /attend <n> breakfast lunch dinner")
	return b.String()
}

// ---------------------------------------------------------------------------
// AttendHandler – /attend <n> [breakfast] [lunch] [dinner]
// ---------------------------------------------------------------------------

const attendUsage = "Usage: /attend <n> [breakfast] [lunch] [dinner]\n" +
	"n is the number shown by /subs. Named meals are marked as taken today."

// AttendHandler marks today's meals for one of the linked user's subscriptions
type AttendHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewAttendHandler creates a new AttendHandler.
func NewAttendHandler(svc *service.Service, logger *logrus.Logger) *AttendHandler {
	return &AttendHandler{svc: svc, logger: logger}
}

// Handle processes the /attend command.
func (h *AttendHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	index, mark, err := parseAttendArgs(args)
	if err != nil {
		return reply(bot, message.Chat.ID, "❌ "+err.Error()+"\n"+attendUsage)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	user, err := linkedUser(ctx, h.svc, bot, message.Chat.ID)
	if err != nil || user == nil {
		return err
	}

	subs, err := h.svc.ListActiveSubscriptions(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}
	if index > len(subs) {
		return reply(bot, message.Chat.ID, fmt.Sprintf("❌ No subscription #%d. Use /subs to see your list.", index))
	}
	sub := subs[index-1]

	record, err := h.svc.MarkAttendance(ctx, sub.ID, user.ID, service.MarkAttendanceInput{
		Breakfast: mark.Breakfast,
		Lunch:     mark.Lunch,
		Dinner:    mark.Dinner,
	})
	if err != nil {
		return replyOrFail(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id":         message.Chat.ID,
		"subscription_id": sub.ID,
	}).Info("Marked attendance via bot")

	return reply(bot, message.Chat.ID, fmt.Sprintf("✅ %s on %s\n%s",
		sub.PlanNameSnapshot, record.Date.Format(time.DateOnly), formatMeals(record.Meals())))
}

// parseAttendArgs reads the 1-based subscription number and the meal names
func parseAttendArgs(args []string) (int, models.AttendanceMark, error) {
	var mark models.AttendanceMark
	if len(args) < 2 {
		return 0, mark, fmt.Errorf("give a subscription number and at least one meal")
	}

	index, err := strconv.Atoi(args[0])
	if err != nil || index < 1 {
		return 0, mark, fmt.Errorf("%q is not a subscription number", args[0])
	}

	taken := true
	for _, meal := range args[1:] {
		switch strings.ToLower(meal) {
		case "breakfast", "b":
			mark.Breakfast = &taken
		case "lunch", "l":
			mark.Lunch = &taken
		case "dinner", "d":
			mark.Dinner = &taken
		default:
			return 0, mark, fmt.Errorf("unknown meal %q", meal)
		}
	}
	return index, mark, nil
}

func formatMeals(m models.MealFlags) string {
	return fmt.Sprintf("Breakfast %s · Lunch %s · Dinner %s", tick(m.Breakfast), tick(m.Lunch), tick(m.Dinner))
}

func tick(b bool) string {
	if b {
		return "✅"
	}
	return "—"
}
