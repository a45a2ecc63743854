// Package ytnative acquires YouTube videos in-process, without the yt-dlp
// executable. It only considers muxed formats so no ffmpeg merge step is
// needed; quality tops out accordingly.
package ytnative

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/kkdai/youtube/v2"
	"github.com/sirupsen/logrus"

	"github.com/tgrelay/relay-bot/internal/downloader"
	"github.com/tgrelay/relay-bot/internal/downloader/ytdlp"
	"github.com/tgrelay/relay-bot/internal/progress"
)

var videoIDPattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/\n\s]+/\S+/|(?:v|e(?:mbed)?)/|shorts/|\S*?[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// Downloader fetches YouTube videos with the native client into Dir.
type Downloader struct {
	Dir       string
	MaxHeight int
	Client    youtube.Client
}

func New(dir string, maxHeight int) *Downloader {
	return &Downloader{Dir: dir, MaxHeight: maxHeight}
}

// Supports reports whether rawURL carries an extractable YouTube video ID.
func Supports(rawURL string) bool {
	return videoIDPattern.MatchString(rawURL)
}

func (d *Downloader) Download(ctx context.Context, rawURL string, report progress.Func) (*downloader.Result, error) {
	videoID, err := ExtractVideoID(rawURL)
	if err != nil {
		return nil, err
	}

	video, err := d.Client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, &downloader.ExtractionError{Engine: "youtube", Err: err}
	}

	format, err := pickFormat(video.Formats, d.MaxHeight)
	if err != nil {
		return nil, err
	}

	stream, size, err := d.Client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, &downloader.ExtractionError{Engine: "youtube", Err: err}
	}
	defer stream.Close()

	// Per-request directory, so two requests for the same video cannot
	// write over each other.
	workDir := filepath.Join(d.Dir, uuid.New().String())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	name := ytdlp.SanitizeTitle(video.Title)
	if name == "" {
		name = "video"
	}
	name += ".mp4"
	dest := filepath.Join(workDir, name)

	out, err := os.Create(dest)
	if err != nil {
		os.RemoveAll(workDir)
		return nil, fmt.Errorf("create %s: %w", dest, err)
	}

	written, err := copyWithProgress(ctx, out, stream, size, report)
	closeErr := out.Close()
	if err != nil {
		os.RemoveAll(workDir)
		return nil, fmt.Errorf("stream video %s: %w", videoID, err)
	}
	if closeErr != nil {
		os.RemoveAll(workDir)
		return nil, fmt.Errorf("close %s: %w", dest, closeErr)
	}

	logrus.WithFields(logrus.Fields{
		"video":   videoID,
		"quality": format.QualityLabel,
		"size":    humanize.IBytes(uint64(written)),
	}).Info("Native YouTube download finished")

	return &downloader.Result{LocalPath: dest, FileName: name, ByteSize: written}, nil
}

// ExtractVideoID pulls the 11-character video ID out of any common YouTube
// URL shape.
func ExtractVideoID(rawURL string) (string, error) {
	m := videoIDPattern.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return "", fmt.Errorf("%w: no video id in %q", downloader.ErrInvalidURL, rawURL)
	}
	return m[1], nil
}

// pickFormat selects the best muxed format at or below maxHeight, falling
// back to the lowest muxed format when everything exceeds the cap.
func pickFormat(formats youtube.FormatList, maxHeight int) (*youtube.Format, error) {
	muxed := make([]youtube.Format, 0, len(formats))
	for _, f := range formats {
		if f.QualityLabel != "" && f.AudioChannels > 0 {
			muxed = append(muxed, f)
		}
	}
	if len(muxed) == 0 {
		return nil, &downloader.ExtractionError{
			Engine: "youtube",
			Detail: "no muxed audio+video format available",
		}
	}

	sort.Slice(muxed, func(i, j int) bool { return muxed[i].Height > muxed[j].Height })
	for i := range muxed {
		if muxed[i].Height <= maxHeight {
			return &muxed[i], nil
		}
	}
	return &muxed[len(muxed)-1], nil
}

func copyWithProgress(ctx context.Context, out io.Writer, in io.Reader, total int64, report progress.Func) (int64, error) {
	if total < 0 {
		total = 0
	}
	buf := make([]byte, 1024*1024)
	start := time.Now()
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, err := in.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return written, werr
			}
			written += int64(n)
			if report != nil {
				report(progress.Sample{Done: written, Total: total, Elapsed: time.Since(start)})
			}
		}
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, err
		}
	}
}
