// Package downloader defines the acquisition contract shared by every
// transfer strategy and the structured errors callers inspect to pick a
// user-facing response.
package downloader

import (
	"context"

	"github.com/tgrelay/relay-bot/internal/progress"
)

// Result describes a file an acquisition strategy materialized on local
// disk. ByteSize is the on-disk size, which is authoritative over any
// size the remote side declared.
type Result struct {
	LocalPath string
	FileName  string
	ByteSize  int64
}

// Downloader acquires the media behind one URL into the local filesystem.
// Implementations report transfer samples through report (never nil) and
// must honor ctx cancellation.
type Downloader interface {
	Download(ctx context.Context, rawURL string, report progress.Func) (*Result, error)
}
