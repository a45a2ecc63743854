// Package progress converts transfer samples into throttled status-message
// edits. The reporter owns the throttle: producers call Report on every
// chunk and the reporter drops renders that fall inside the rolling window.
package progress

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tgrelay/relay-bot/internal/format"
	"github.com/tgrelay/relay-bot/internal/lang"
)

const barWidth = 20

// Sample is one observation of a running transfer. Total is 0 when the
// remote side did not declare a size.
type Sample struct {
	Done    int64
	Total   int64
	Elapsed time.Duration
}

// Func consumes samples. Strategies call it unconditionally after every
// chunk; throttling happens downstream.
type Func func(Sample)

// Editor applies a rendered status text to the display surface.
type Editor interface {
	EditMessage(chatID int64, messageID int, text string) error
}

// Reporter renders samples for one request into edits of a single status
// message, at most once per interval. Render failures are swallowed: a
// rejected edit must never abort the transfer it describes.
type Reporter struct {
	editor    Editor
	chatID    int64
	messageID int
	interval  time.Duration

	mu         sync.Mutex
	label      string
	lastRender time.Time
	now        func() time.Time
}

func NewReporter(editor Editor, chatID int64, messageID int, interval time.Duration) *Reporter {
	return &Reporter{
		editor:    editor,
		chatID:    chatID,
		messageID: messageID,
		interval:  interval,
		label:     lang.GetMessage(lang.ProgressDownloadMsgID),
		now:       time.Now,
	}
}

// SetLabel switches the phase label (download / video download / upload)
// shown in subsequent renders.
func (r *Reporter) SetLabel(label string) {
	r.mu.Lock()
	r.label = label
	r.mu.Unlock()
}

// Report renders the sample unless a render happened within the rolling
// window. Dropped samples are discarded, not queued.
func (r *Reporter) Report(s Sample) {
	r.mu.Lock()
	now := r.now()
	if now.Sub(r.lastRender) < r.interval {
		r.mu.Unlock()
		return
	}
	r.lastRender = now
	label := r.label
	r.mu.Unlock()

	if err := r.editor.EditMessage(r.chatID, r.messageID, renderText(label, s)); err != nil {
		logrus.WithError(err).Debug("Progress edit rejected, dropping render")
	}
}

// Func returns Report as a callback for acquisition strategies.
func (r *Reporter) Func() Func {
	return r.Report
}

func renderText(label string, s Sample) string {
	speed := float64(0)
	if s.Elapsed > 0 {
		speed = float64(s.Done) / s.Elapsed.Seconds()
	}
	if s.Total > 0 {
		return lang.GetMessage(lang.ProgressWithTotalMsgID,
			label,
			format.Bar(s.Done, s.Total, barWidth),
			format.Percent(s.Done, s.Total),
			format.Size(s.Done),
			format.Size(s.Total),
			format.Speed(speed),
		)
	}
	return lang.GetMessage(lang.ProgressNoTotalMsgID,
		label,
		format.Size(s.Done),
		format.Speed(speed),
	)
}
