package handlers

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/MessBoT/internal/apperr"
	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/service"
	"github.com/Kerhoff/MessBoT/internal/telegram"
)

// commandTimeout bounds the store work of a single command
const commandTimeout = 10 * time.Second

const notLinkedText = "🔗 This chat is not linked to a MessBoT account yet.\n" +
	"Request a link token with POST /api/auth/telegram-link and send it here as /start <token>."

func reply(bot telegram.Sender, chatID int64, text string) error {
	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func replyMarkdown(bot telegram.Sender, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// linkedUser returns the account linked to the chat. When there is none it
// sends the linking hint and returns nil.
func linkedUser(ctx context.Context, svc *service.Service, bot telegram.Sender, chatID int64) (*models.User, error) {
	user, err := svc.UserByTelegramChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, reply(bot, chatID, notLinkedText)
	}
	return user, nil
}

// replyOrFail answers with the message of a client-side service error. Any
// other error is returned so the router reports it.
func replyOrFail(bot telegram.Sender, chatID int64, err error) error {
	if appErr, ok := apperr.As(err); ok && appErr.Kind != apperr.KindInternal {
		return reply(bot, chatID, "⚠️ "+appErr.Message)
	}
	return err
}
