// Package mediainfo probes local video files with ffprobe so uploads can
// carry correct dimensions and duration. Probing is best-effort: any
// failure yields zero values, never an error the caller must handle.
package mediainfo

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const probeTimeout = 30 * time.Second

// Info holds the subset of stream metadata the uploader needs.
type Info struct {
	Width    int
	Height   int
	Duration int
}

// Kind is the Telegram media class a file is sent as.
type Kind int

const (
	Document Kind = iota
	Video
	Audio
	Photo
)

var videoExtensions = map[string]bool{
	".mp4": true, ".avi": true, ".mkv": true, ".mov": true,
	".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
	".mpg": true, ".mpeg": true, ".3gp": true, ".ts": true,
}

var audioExtensions = map[string]bool{
	".mp3": true, ".m4a": true, ".ogg": true, ".opus": true,
	".flac": true, ".wav": true, ".aac": true,
}

var photoExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

// KindOf classifies a file name by extension; unknown extensions are sent
// as documents.
func KindOf(name string) Kind {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return Document
	}
	ext := strings.ToLower(name[idx:])
	switch {
	case videoExtensions[ext]:
		return Video
	case audioExtensions[ext]:
		return Audio
	case photoExtensions[ext]:
		return Photo
	default:
		return Document
	}
}

// IsVideo reports whether the file name carries a known video extension.
func IsVideo(name string) bool {
	return KindOf(name) == Video
}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Duration  string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe runs ffprobe against path. Missing binary, malformed output, or a
// file without a video stream all return a zero Info.
func Probe(ctx context.Context, path string) Info {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(probeCtx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	).Output()
	if err != nil {
		logrus.WithError(err).WithField("file", path).Debug("ffprobe unavailable or failed")
		return Info{}
	}
	info := parseProbe(out)
	logrus.WithFields(logrus.Fields{
		"file":     path,
		"width":    info.Width,
		"height":   info.Height,
		"duration": info.Duration,
	}).Debug("Probed media metadata")
	return info
}

func parseProbe(raw []byte) Info {
	var parsed probeOutput
	if err := json.Unmarshal(raw, &parsed); err != nil {
		logrus.WithError(err).Debug("ffprobe output not parseable")
		return Info{}
	}

	var info Info
	for _, stream := range parsed.Streams {
		if stream.CodecType != "video" {
			continue
		}
		info.Width = stream.Width
		info.Height = stream.Height
		info.Duration = parseDuration(stream.Duration)
		break
	}
	if info.Duration == 0 {
		info.Duration = parseDuration(parsed.Format.Duration)
	}
	return info
}

func parseDuration(s string) int {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f)
}
