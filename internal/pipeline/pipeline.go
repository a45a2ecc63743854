// Package pipeline runs one transfer end to end: classify the link,
// acquire the file, deliver it, and schedule local cleanup. Every request
// gets a single status message that is edited in place and one terminal
// edit when the transfer fails.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tgrelay/relay-bot/internal/botapi"
	"github.com/tgrelay/relay-bot/internal/cleanup"
	"github.com/tgrelay/relay-bot/internal/delivery"
	"github.com/tgrelay/relay-bot/internal/downloader"
	"github.com/tgrelay/relay-bot/internal/downloader/classify"
	"github.com/tgrelay/relay-bot/internal/downloader/ytnative"
	"github.com/tgrelay/relay-bot/internal/format"
	"github.com/tgrelay/relay-bot/internal/lang"
	"github.com/tgrelay/relay-bot/internal/progress"
)

// Messenger is the status-message surface. Satisfied by botapi.Client.
type Messenger interface {
	SendMessage(chatID int64, text string) (int, error)
	EditMessage(chatID int64, messageID int, text string) error
	DeleteMessage(chatID int64, messageID int) error
}

// Pipeline wires the strategies and the delivery router for one bot.
// VideoEngine may be nil when yt-dlp is disabled; NativeYouTube then
// covers YouTube links and everything else fails with a download error.
type Pipeline struct {
	Classifier    *classify.Classifier
	Direct        downloader.Downloader
	Scrape        downloader.Downloader
	VideoEngine   downloader.Downloader
	NativeYouTube downloader.Downloader
	Torrent       downloader.Downloader

	Router    *delivery.Router
	Messenger Messenger
	Janitor   *cleanup.Janitor

	ProgressInterval time.Duration
	ExtractTimeout   time.Duration
}

// Process handles one link from one chat. It never returns an error: every
// failure ends in a terminal status edit for the user and a log line.
func (p *Pipeline) Process(ctx context.Context, chatID int64, rawURL string) {
	log := logrus.WithFields(logrus.Fields{"chat_id": chatID, "url": rawURL})

	kind, err := p.Classifier.Classify(rawURL)
	if err != nil {
		log.WithError(err).Info("Rejected link")
		p.send(chatID, lang.GetMessage(lang.InvalidLinkMsgID))
		return
	}
	log = log.WithField("strategy", kind.String())

	statusID, err := p.send(chatID, lang.GetMessage(lang.ProcessingMsgID))
	if err != nil {
		log.WithError(err).Error("Could not post status message")
		return
	}

	reporter := progress.NewReporter(p.Messenger, chatID, statusID, p.ProgressInterval)
	strategy := p.strategyFor(kind, rawURL, chatID, statusID, reporter)
	if strategy == nil {
		log.Warn("No strategy available for link")
		p.edit(chatID, statusID, lang.GetMessage(lang.DownloadFailedMsgID, "no download engine available"))
		return
	}

	res, err := strategy.Download(ctx, rawURL, reporter.Func())
	if err != nil {
		log.WithError(err).Warn("Acquisition failed")
		p.edit(chatID, statusID, p.acquisitionMessage(err))
		return
	}
	log = log.WithFields(logrus.Fields{"file": res.FileName, "size": res.ByteSize})
	log.Info("Acquisition finished")

	defer p.Janitor.Schedule(res.LocalPath)

	reporter.SetLabel(lang.GetMessage(lang.ProgressUploadMsgID))
	outcome, err := p.Router.Deliver(chatID, res, deliveryCaption(res), func(text string) {
		p.edit(chatID, statusID, text)
	})
	log = log.WithField("outcome", outcome.String())

	if outcome.Delivered() {
		log.Info("Delivered")
		// The sent media carries its own caption; the status message has
		// served its purpose.
		if err := p.Messenger.DeleteMessage(chatID, statusID); err != nil {
			log.WithError(err).Debug("Could not delete status message")
		}
		return
	}

	log.WithError(err).Warn("Delivery failed")
	p.edit(chatID, statusID, deliveryMessage(outcome, err, p.Router.Bridge))
}

func (p *Pipeline) strategyFor(kind classify.Kind, rawURL string, chatID int64, statusID int, reporter *progress.Reporter) downloader.Downloader {
	switch kind {
	case classify.Scrape:
		p.edit(chatID, statusID, lang.GetMessage(lang.ExtractingMsgID, p.Classifier.ScrapeDomain))
		return p.Scrape
	case classify.VideoEngine:
		p.edit(chatID, statusID, lang.GetMessage(lang.DownloadingVideoMsgID))
		reporter.SetLabel(lang.GetMessage(lang.ProgressVideoMsgID))
		if p.VideoEngine != nil {
			return p.VideoEngine
		}
		if p.NativeYouTube != nil && ytnative.Supports(rawURL) {
			return p.NativeYouTube
		}
		return nil
	case classify.Torrent:
		reporter.SetLabel(lang.GetMessage(lang.ProgressDownloadMsgID))
		return p.Torrent
	default:
		return p.Direct
	}
}

// acquisitionMessage maps a structured acquisition error onto the terminal
// status text.
func (p *Pipeline) acquisitionMessage(err error) string {
	var httpErr *downloader.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return lang.GetMessage(lang.HTTPErrorMsgID, httpErr.Status)
	case errors.Is(err, downloader.ErrNoMediaFound):
		return lang.GetMessage(lang.DownloadFailedMsgID, lang.GetMessage(lang.NoMediaFoundMsgID))
	case errors.Is(err, downloader.ErrTimeout):
		return lang.GetMessage(lang.DownloadFailedMsgID, lang.GetMessage(lang.VideoTimeoutMsgID, p.ExtractTimeout.String()))
	case errors.Is(err, downloader.ErrInvalidURL):
		return lang.GetMessage(lang.InvalidLinkMsgID)
	default:
		return lang.GetMessage(lang.DownloadFailedMsgID, err.Error())
	}
}

func deliveryMessage(outcome delivery.Outcome, err error, bridge delivery.Bridge) string {
	switch outcome {
	case delivery.FailedCapacityExceeded:
		if bridge != nil && bridge.Enabled() {
			return lang.GetMessage(lang.TooLargeExhaustedMsgID)
		}
		return lang.GetMessage(lang.TooLargeNoBridgeMsgID)
	default:
		var perm *botapi.PermissionError
		if errors.As(err, &perm) {
			return lang.GetMessage(lang.BridgePermissionMsgID)
		}
		return lang.GetMessage(lang.UploadFailedMsgID, err.Error())
	}
}

func deliveryCaption(res *downloader.Result) string {
	return lang.GetMessage(lang.CaptionDeliveredMsgID, res.FileName, format.Size(res.ByteSize))
}

func (p *Pipeline) send(chatID int64, text string) (int, error) {
	return p.Messenger.SendMessage(chatID, text)
}

func (p *Pipeline) edit(chatID int64, messageID int, text string) {
	if err := p.Messenger.EditMessage(chatID, messageID, text); err != nil {
		logrus.WithError(err).Debug("Status edit failed")
	}
}
