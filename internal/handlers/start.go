package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/MessBoT/internal/service"
	"github.com/Kerhoff/MessBoT/internal/telegram"
)

const welcomeText = `🍽 *Welcome to MessBoT!*

I keep track of your mess subscriptions and daily meals.

To get started, link this chat to your account: request a link token from the app and send it here as ` + "`/start <token>`" + `.

Use /help to see all commands.`

// StartHandler handles the /start command
type StartHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewStartHandler creates a new start command handler
func NewStartHandler(svc *service.Service, logger *logrus.Logger) *StartHandler {
	return &StartHandler{svc: svc, logger: logger}
}

// Handle sends the welcome text, or links the chat when a token is given
func (h *StartHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		return replyMarkdown(bot, message.Chat.ID, welcomeText)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	user, err := h.svc.LinkTelegram(ctx, args[0], message.Chat.ID)
	if err != nil {
		return replyOrFail(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": user.ID,
	}).Info("Linked chat via /start")

	return reply(bot, message.Chat.ID, fmt.Sprintf("✅ Linked to %s (%s). Try /subs.", user.Name, user.Email))
}
