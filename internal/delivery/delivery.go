// Package delivery routes a finished download to the requesting chat.
// Files over the channel ceiling go through the bridge channel when one is
// configured; oversized uploads the API still rejects get one retry as a
// plain document before the transfer is declared undeliverable.
package delivery

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tgrelay/relay-bot/internal/botapi"
	"github.com/tgrelay/relay-bot/internal/downloader"
	"github.com/tgrelay/relay-bot/internal/lang"
)

// Outcome names how a delivery attempt ended.
type Outcome int

const (
	DeliveredPrimary Outcome = iota
	DeliveredBridge
	DeliveredAsDocumentFallback
	FailedCapacityExceeded
	FailedOther
)

func (o Outcome) String() string {
	switch o {
	case DeliveredPrimary:
		return "delivered"
	case DeliveredBridge:
		return "delivered-via-bridge"
	case DeliveredAsDocumentFallback:
		return "delivered-as-document"
	case FailedCapacityExceeded:
		return "capacity-exceeded"
	case FailedOther:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Delivered reports whether the file reached the user.
func (o Outcome) Delivered() bool {
	return o == DeliveredPrimary || o == DeliveredBridge || o == DeliveredAsDocumentFallback
}

// Channel is the direct bot upload path. CeilingBytes is 0 when the
// backing API has no upload limit.
type Channel interface {
	CeilingBytes() int64
	SendMedia(chatID int64, res *downloader.Result, caption string) error
	SendDocument(chatID int64, res *downloader.Result, caption string) error
}

// Bridge is the oversized path: upload into a private channel, then
// re-emit the channel message into the requesting chat.
type Bridge interface {
	Enabled() bool
	Upload(res *downloader.Result, caption string) (messageID int, err error)
	Reemit(toChatID int64, messageID int) error
}

// Notify surfaces routing decisions to the user mid-delivery. May be nil.
type Notify func(text string)

// Router applies the delivery policy for one configured bot.
type Router struct {
	Channel Channel
	Bridge  Bridge
}

// Deliver sends res to chatID. The returned error is nil exactly when the
// outcome is a delivered one.
func (r *Router) Deliver(chatID int64, res *downloader.Result, caption string, notify Notify) (Outcome, error) {
	ceiling := r.Channel.CeilingBytes()
	if ceiling > 0 && res.ByteSize > ceiling {
		return r.deliverOversized(chatID, res, caption, notify)
	}
	return r.deliverDirect(chatID, res, caption)
}

func (r *Router) deliverOversized(chatID int64, res *downloader.Result, caption string, notify Notify) (Outcome, error) {
	if r.Bridge == nil || !r.Bridge.Enabled() {
		// The operator ceiling can sit below the API's real limit; the
		// direct attempt and the document retry still run.
		logrus.WithFields(logrus.Fields{
			"file": res.FileName,
			"size": res.ByteSize,
		}).Warn("File exceeds upload ceiling and no bridge is configured, attempting direct upload")
		return r.deliverDirect(chatID, res, caption)
	}

	post(notify, lang.GetMessage(lang.BridgeSendingMsgID))

	messageID, err := r.Bridge.Upload(res, caption)
	if err == nil {
		if reemitErr := r.Bridge.Reemit(chatID, messageID); reemitErr == nil {
			logrus.WithFields(logrus.Fields{
				"file": res.FileName,
				"size": res.ByteSize,
			}).Info("Delivered through bridge channel")
			return DeliveredBridge, nil
		} else {
			err = reemitErr
		}
	}

	var perm *botapi.PermissionError
	if errors.As(err, &perm) {
		// The bot is not an admin of the bridge channel. Falling through
		// to a direct upload would fail the same size check, so stop here
		// with an actionable message.
		post(notify, lang.GetMessage(lang.BridgePermissionMsgID))
		return FailedOther, fmt.Errorf("bridge channel access denied: %w", err)
	}

	logrus.WithError(err).Warn("Bridge delivery failed, attempting direct upload")
	post(notify, lang.GetMessage(lang.BridgeFailedFallbackMsgID, err.Error()))
	return r.deliverDirect(chatID, res, caption)
}

func (r *Router) deliverDirect(chatID int64, res *downloader.Result, caption string) (Outcome, error) {
	err := r.Channel.SendMedia(chatID, res, caption)
	if err == nil {
		return DeliveredPrimary, nil
	}

	var tooLarge *botapi.TooLargeError
	if !errors.As(err, &tooLarge) {
		return FailedOther, fmt.Errorf("send media: %w", err)
	}

	// Some files squeeze under the limit as documents because Telegram
	// skips transcoding them.
	docErr := r.Channel.SendDocument(chatID, res, res.FileName)
	if docErr == nil {
		return DeliveredAsDocumentFallback, nil
	}
	if errors.As(docErr, &tooLarge) {
		return FailedCapacityExceeded, fmt.Errorf("file %s rejected as media and as document: %w", res.FileName, docErr)
	}
	return FailedOther, fmt.Errorf("send document fallback: %w", docErr)
}

func post(notify Notify, text string) {
	if notify != nil {
		notify(text)
	}
}
