// Package handlers maps incoming Telegram updates onto commands and
// transfer requests.
package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/tgrelay/relay-bot/internal/auth"
	"github.com/tgrelay/relay-bot/internal/auth/reddit"
	"github.com/tgrelay/relay-bot/internal/lang"
	"github.com/tgrelay/relay-bot/internal/pipeline"
)

// Processor runs one transfer. Satisfied by pipeline.Pipeline.
type Processor interface {
	Process(ctx context.Context, chatID int64, rawURL string)
}

// Handler routes one update. Reddit may be nil when account linking is not
// configured.
type Handler struct {
	Messenger pipeline.Messenger
	Auth      *auth.Authorizer
	Pipeline  Processor
	Reddit    *reddit.Manager
}

// HandleUpdate processes a single update to completion. Callers run it on
// its own goroutine so one slow transfer does not stall the poll loop.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	chatID := msg.Chat.ID
	userID := msg.From.ID

	if msg.IsCommand() {
		h.handleCommand(chatID, userID, msg.Command())
		return
	}

	text := msg.Text
	if text == "" {
		return
	}
	if !h.Auth.Allowed(userID) {
		logrus.WithField("user_id", userID).Info("Rejected link from unauthorized user")
		h.reply(chatID, lang.GetMessage(lang.NotAuthorizedMsgID, userID))
		return
	}
	h.Pipeline.Process(ctx, chatID, text)
}

func (h *Handler) handleCommand(chatID, userID int64, command string) {
	switch command {
	case "start":
		if !h.Auth.Allowed(userID) {
			h.reply(chatID, lang.GetMessage(lang.NotAuthorizedMsgID, userID))
			return
		}
		h.reply(chatID, lang.GetMessage(lang.WelcomeMsgID))
	case "help":
		// Unauthorized users get silence here; /start already told them
		// their ID.
		if h.Auth.Allowed(userID) {
			h.reply(chatID, lang.GetMessage(lang.HelpMsgID))
		}
	case "id":
		h.reply(chatID, lang.GetMessage(lang.YourIDMsgID, userID))
	case "reddit":
		h.handleReddit(chatID, userID)
	}
}

func (h *Handler) handleReddit(chatID, userID int64) {
	if !h.Auth.Allowed(userID) {
		h.reply(chatID, lang.GetMessage(lang.NotAuthorizedMsgID, userID))
		return
	}
	if h.Reddit == nil || !h.Reddit.Configured() {
		h.reply(chatID, lang.GetMessage(lang.RedditNotConfiguredMsgID))
		return
	}
	authURL, err := h.Reddit.AuthURL(userID, chatID)
	if err != nil {
		logrus.WithError(err).Error("Could not start Reddit auth")
		h.reply(chatID, lang.GetMessage(lang.RedditNotConfiguredMsgID))
		return
	}
	h.reply(chatID, lang.GetMessage(lang.RedditAuthLinkMsgID, authURL))
}

func (h *Handler) reply(chatID int64, text string) {
	if _, err := h.Messenger.SendMessage(chatID, text); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Warn("Reply failed")
	}
}
