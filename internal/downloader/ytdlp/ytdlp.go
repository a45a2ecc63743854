// Package ytdlp drives the yt-dlp executable to acquire videos from sites
// that need a real extractor. Each request gets its own working directory
// so concurrent extractions never pick up each other's files.
package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tgrelay/relay-bot/internal/downloader"
	"github.com/tgrelay/relay-bot/internal/progress"
)

const (
	titleTimeout  = 30 * time.Second
	maxTitleRunes = 100
	fallbackTitle = "video"
)

// Downloader shells out to yt-dlp. WorkRoot is the directory under which
// per-request directories are created.
type Downloader struct {
	Path      string
	WorkRoot  string
	MaxHeight int
	Timeout   time.Duration
	Retries   int
}

func New(path, workRoot string, maxHeight int, timeout time.Duration) *Downloader {
	return &Downloader{
		Path:      path,
		WorkRoot:  workRoot,
		MaxHeight: maxHeight,
		Timeout:   timeout,
		Retries:   3,
	}
}

func (d *Downloader) Download(ctx context.Context, rawURL string, report progress.Func) (*downloader.Result, error) {
	title := d.fetchTitle(ctx, rawURL)

	workDir := filepath.Join(d.WorkRoot, uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if d.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	args := []string{
		"--newline",
		"--no-playlist",
		"--socket-timeout", "30",
		"--retries", fmt.Sprintf("%d", d.Retries),
		"-f", fmt.Sprintf("best[height<=%d]/best", d.MaxHeight),
		"-o", filepath.Join(workDir, title+".%(ext)s"),
		rawURL,
	}

	cmd := exec.CommandContext(runCtx, d.Path, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, &downloader.ExtractionError{Engine: "yt-dlp", Err: err}
	}

	// The scanner produces samples, this goroutine consumes them; the two
	// share nothing but the channel.
	start := time.Now()
	samples := make(chan progress.Sample, 1)
	go func() {
		defer close(samples)
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			if done, total, ok := parseProgressLine(scanner.Text()); ok {
				samples <- progress.Sample{Done: done, Total: total, Elapsed: time.Since(start)}
			}
		}
	}()
	for s := range samples {
		if report != nil {
			report(s)
		}
	}

	if err := cmd.Wait(); err != nil {
		os.RemoveAll(workDir)
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, downloader.ErrTimeout
		}
		return nil, &downloader.ExtractionError{
			Engine: "yt-dlp",
			Detail: lastLine(stderr.String()),
			Err:    err,
		}
	}

	res, err := newestFile(workDir)
	if err != nil {
		os.RemoveAll(workDir)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"url":  rawURL,
		"file": res.FileName,
		"size": humanize.IBytes(uint64(res.ByteSize)),
	}).Info("yt-dlp download finished")
	return res, nil
}

// fetchTitle asks yt-dlp for the video title to use as the output file
// stem. Failures fall back to a fixed name rather than aborting.
func (d *Downloader) fetchTitle(ctx context.Context, rawURL string) string {
	titleCtx, cancel := context.WithTimeout(ctx, titleTimeout)
	defer cancel()

	out, err := exec.CommandContext(titleCtx, d.Path, "--get-title", "--no-playlist", rawURL).Output()
	if err != nil {
		logrus.WithError(err).WithField("url", rawURL).Debug("Title fetch failed, using fallback")
		return fallbackTitle
	}
	if title := SanitizeTitle(strings.TrimSpace(string(out))); title != "" {
		return title
	}
	return fallbackTitle
}

// SanitizeTitle strips path separators and filesystem-hostile characters
// and caps the result at 100 runes.
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '\n', '\r', '\x00':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	runes := []rune(strings.TrimSpace(b.String()))
	if len(runes) > maxTitleRunes {
		runes = runes[:maxTitleRunes]
	}
	return strings.TrimSpace(string(runes))
}

// newestFile returns the most recently modified regular file in dir. The
// extractor decides the final extension, so the exact name is not known up
// front.
func newestFile(dir string) (*downloader.Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read work dir: %w", err)
	}

	var (
		newest     string
		newestTime time.Time
		size       int64
	)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".part") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = entry.Name()
			newestTime = info.ModTime()
			size = info.Size()
		}
	}
	if newest == "" {
		return nil, errors.New("yt-dlp produced no output file")
	}
	return &downloader.Result{
		LocalPath: filepath.Join(dir, newest),
		FileName:  newest,
		ByteSize:  size,
	}, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
