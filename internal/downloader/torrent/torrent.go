// Package torrent acquires magnet links with an embedded BitTorrent
// client. The largest file in the torrent is treated as the payload.
package torrent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	anacrolix "github.com/anacrolix/torrent"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tgrelay/relay-bot/internal/downloader"
	"github.com/tgrelay/relay-bot/internal/progress"
)

const (
	defaultInfoTimeout = 2 * time.Minute
	pollInterval       = time.Second
)

// Downloader runs one ephemeral client per request, rooted in its own work
// directory under WorkRoot.
type Downloader struct {
	WorkRoot    string
	InfoTimeout time.Duration
}

func New(workRoot string) *Downloader {
	return &Downloader{WorkRoot: workRoot, InfoTimeout: defaultInfoTimeout}
}

func (d *Downloader) Download(ctx context.Context, magnet string, report progress.Func) (*downloader.Result, error) {
	workDir := filepath.Join(d.WorkRoot, uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	cfg := anacrolix.NewDefaultClientConfig()
	cfg.DataDir = workDir
	cfg.Seed = false
	cfg.ListenPort = 0

	client, err := anacrolix.NewClient(cfg)
	if err != nil {
		os.RemoveAll(workDir)
		return nil, fmt.Errorf("start torrent client: %w", err)
	}
	defer client.Close()

	t, err := client.AddMagnet(magnet)
	if err != nil {
		os.RemoveAll(workDir)
		return nil, fmt.Errorf("%w: %q", downloader.ErrInvalidURL, magnet)
	}

	infoTimeout := d.InfoTimeout
	if infoTimeout <= 0 {
		infoTimeout = defaultInfoTimeout
	}
	select {
	case <-t.GotInfo():
	case <-time.After(infoTimeout):
		os.RemoveAll(workDir)
		return nil, downloader.ErrTimeout
	case <-ctx.Done():
		os.RemoveAll(workDir)
		return nil, ctx.Err()
	}

	logrus.WithFields(logrus.Fields{
		"name": t.Name(),
		"size": humanize.IBytes(uint64(t.Info().TotalLength())),
	}).Info("Torrent metadata resolved, starting download")

	t.DownloadAll()

	total := t.Info().TotalLength()
	start := time.Now()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for t.BytesCompleted() < total {
		select {
		case <-ticker.C:
			if report != nil {
				report(progress.Sample{
					Done:    t.BytesCompleted(),
					Total:   total,
					Elapsed: time.Since(start),
				})
			}
		case <-ctx.Done():
			os.RemoveAll(workDir)
			if ctx.Err() == context.DeadlineExceeded {
				return nil, downloader.ErrTimeout
			}
			return nil, ctx.Err()
		}
	}

	payload := largestFile(t)
	if payload == nil {
		os.RemoveAll(workDir)
		return nil, downloader.ErrNoMediaFound
	}

	localPath := filepath.Join(workDir, filepath.FromSlash(payload.Path()))
	return &downloader.Result{
		LocalPath: localPath,
		FileName:  filepath.Base(localPath),
		ByteSize:  payload.Length(),
	}, nil
}

func largestFile(t *anacrolix.Torrent) *anacrolix.File {
	var largest *anacrolix.File
	for _, f := range t.Files() {
		if largest == nil || f.Length() > largest.Length() {
			largest = f
		}
	}
	return largest
}
