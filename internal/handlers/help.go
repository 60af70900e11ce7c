package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/MessBoT/internal/telegram"
)

const helpText = `📚 *MessBoT Help*

*Account:*
• /start <token> - Link this chat to your account

*Subscribers:*
• /subs - Show your active subscriptions
• /attend <n> [breakfast] [lunch] [dinner] - Mark today's meals for subscription #n

*Mess owners:*
• /today - Today's attendance for each of your messes, with a spreadsheet

• /help - Show this help message`

// HelpHandler handles the /help command
type HelpHandler struct {
	logger *logrus.Logger
}

func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

func (h *HelpHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if err := replyMarkdown(bot, message.Chat.ID, helpText); err != nil {
		return err
	}

	h.logger.WithField("chat_id", message.Chat.ID).Debug("Sent help message")
	return nil
}
