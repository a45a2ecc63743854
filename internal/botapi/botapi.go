// Package botapi wraps the Telegram Bot API client with the narrow surface
// the rest of the bot uses, translating API failures into typed errors.
package botapi

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/tgrelay/relay-bot/internal/mediainfo"
)

// Client sends through one bot token. When endpoint is non-empty the
// client talks to a local Bot API server, which lifts the hosted upload
// ceiling.
type Client struct {
	api *tgbotapi.BotAPI
}

func New(token, endpoint string) (*Client, error) {
	var (
		api *tgbotapi.BotAPI
		err error
	)
	if endpoint != "" {
		api, err = tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	} else {
		api, err = tgbotapi.NewBotAPI(token)
	}
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	logrus.WithField("account", api.Self.UserName).Info("Authorized on Telegram")
	return &Client{api: api}, nil
}

// Updates returns the long-poll update channel.
func (c *Client) Updates(timeout int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout
	return c.api.GetUpdatesChan(u)
}

// SendMessage posts text and returns the new message's ID so it can be
// edited into a status surface later.
func (c *Client) SendMessage(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	sent, err := c.api.Send(msg)
	if err != nil {
		return 0, classifyError(err)
	}
	return sent.MessageID, nil
}

func (c *Client) EditMessage(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	_, err := c.api.Send(edit)
	return classifyError(err)
}

func (c *Client) DeleteMessage(chatID int64, messageID int) error {
	_, err := c.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return classifyError(err)
}

// SendVideo uploads path as a playable video with its duration attached
// when known. Returns the sent message's ID.
func (c *Client) SendVideo(chatID int64, path, caption string, info mediainfo.Info) (int, error) {
	video := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(path))
	video.Caption = caption
	video.SupportsStreaming = true
	if info.Duration > 0 {
		video.Duration = info.Duration
	}
	sent, err := c.api.Send(video)
	if err != nil {
		return 0, classifyError(err)
	}
	return sent.MessageID, nil
}

// SendAudio uploads path as a playable audio track.
func (c *Client) SendAudio(chatID int64, path, caption string) (int, error) {
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
	audio.Caption = caption
	sent, err := c.api.Send(audio)
	if err != nil {
		return 0, classifyError(err)
	}
	return sent.MessageID, nil
}

// SendPhoto uploads path as an inline photo.
func (c *Client) SendPhoto(chatID int64, path, caption string) (int, error) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	photo.Caption = caption
	sent, err := c.api.Send(photo)
	if err != nil {
		return 0, classifyError(err)
	}
	return sent.MessageID, nil
}

// SendDocument uploads path as a generic file. Returns the sent message's
// ID.
func (c *Client) SendDocument(chatID int64, path, caption string) (int, error) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	sent, err := c.api.Send(doc)
	if err != nil {
		return 0, classifyError(err)
	}
	return sent.MessageID, nil
}

// CopyMessage re-emits a message from one chat into another without a
// forward header.
func (c *Client) CopyMessage(toChatID, fromChatID int64, messageID int) error {
	_, err := c.api.CopyMessage(tgbotapi.NewCopyMessage(toChatID, fromChatID, messageID))
	return classifyError(err)
}
