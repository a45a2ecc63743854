package delivery

import (
	"context"

	"github.com/tgrelay/relay-bot/internal/botapi"
	"github.com/tgrelay/relay-bot/internal/downloader"
	"github.com/tgrelay/relay-bot/internal/mediainfo"
)

// TelegramChannel sends through the bot itself. Ceiling is 0 when the bot
// talks to a local Bot API server.
type TelegramChannel struct {
	Client  *botapi.Client
	Ceiling int64
}

func (c *TelegramChannel) CeilingBytes() int64 {
	return c.Ceiling
}

// SendMedia uploads the file in its natural Telegram form: videos as
// playable videos with probed metadata, audio as tracks, photos inline,
// everything else as a document.
func (c *TelegramChannel) SendMedia(chatID int64, res *downloader.Result, caption string) error {
	var err error
	switch mediainfo.KindOf(res.FileName) {
	case mediainfo.Video:
		info := mediainfo.Probe(context.Background(), res.LocalPath)
		_, err = c.Client.SendVideo(chatID, res.LocalPath, caption, info)
	case mediainfo.Audio:
		_, err = c.Client.SendAudio(chatID, res.LocalPath, caption)
	case mediainfo.Photo:
		_, err = c.Client.SendPhoto(chatID, res.LocalPath, caption)
	default:
		_, err = c.Client.SendDocument(chatID, res.LocalPath, caption)
	}
	return err
}

func (c *TelegramChannel) SendDocument(chatID int64, res *downloader.Result, caption string) error {
	_, err := c.Client.SendDocument(chatID, res.LocalPath, caption)
	return err
}

// TelegramBridge uploads into a private channel the user account can read
// and copies the resulting message back into the requesting chat.
type TelegramBridge struct {
	Client    *botapi.Client
	ChannelID int64
}

func (b *TelegramBridge) Enabled() bool {
	return b.Client != nil && b.ChannelID != 0
}

func (b *TelegramBridge) Upload(res *downloader.Result, caption string) (int, error) {
	if mediainfo.IsVideo(res.FileName) {
		info := mediainfo.Probe(context.Background(), res.LocalPath)
		return b.Client.SendVideo(b.ChannelID, res.LocalPath, caption, info)
	}
	return b.Client.SendDocument(b.ChannelID, res.LocalPath, caption)
}

func (b *TelegramBridge) Reemit(toChatID int64, messageID int) error {
	return b.Client.CopyMessage(toChatID, b.ChannelID, messageID)
}
