// Package direct fetches a URL that points straight at a file and streams
// it to disk in fixed-size chunks.
package direct

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tgrelay/relay-bot/internal/downloader"
	"github.com/tgrelay/relay-bot/internal/progress"
)

const fallbackFileName = "downloaded_file"

// Downloader streams HTTP responses into per-request directories under
// Dir, one ChunkSize read at a time.
type Downloader struct {
	Dir       string
	ChunkSize int
	Client    *http.Client
}

func New(dir string, chunkSize int) *Downloader {
	// Connection setup and first response are bounded; the body stream is
	// not, large files legitimately take a long time.
	return &Downloader{
		Dir:       dir,
		ChunkSize: chunkSize,
		Client: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
			},
		},
	}
}

// Download fetches rawURL into a fresh directory under Dir. The reported
// total comes from
// Content-Length when the server declares one; the returned ByteSize is
// always the size of the file actually written.
func (d *Downloader) Download(ctx context.Context, rawURL string, report progress.Func) (*downloader.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", downloader.ErrInvalidURL, rawURL)
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, downloader.ErrTimeout
		}
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &downloader.HTTPError{Status: resp.StatusCode, URL: rawURL}
	}

	// Each request writes into its own directory so concurrent downloads
	// of the same URL cannot truncate each other's file.
	workDir := filepath.Join(d.Dir, uuid.New().String())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	name := fileName(resp, rawURL)
	dest := filepath.Join(workDir, name)
	out, err := os.Create(dest)
	if err != nil {
		os.RemoveAll(workDir)
		return nil, fmt.Errorf("create %s: %w", dest, err)
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}

	written, err := d.stream(ctx, out, resp.Body, total, report)
	closeErr := out.Close()
	if err != nil {
		os.RemoveAll(workDir)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, downloader.ErrTimeout
		}
		return nil, fmt.Errorf("stream %s: %w", rawURL, err)
	}
	if closeErr != nil {
		os.RemoveAll(workDir)
		return nil, fmt.Errorf("close %s: %w", dest, closeErr)
	}

	logrus.WithFields(logrus.Fields{
		"url":  rawURL,
		"file": name,
		"size": humanize.IBytes(uint64(written)),
	}).Info("Direct download finished")

	return &downloader.Result{LocalPath: dest, FileName: name, ByteSize: written}, nil
}

func (d *Downloader) stream(ctx context.Context, out io.Writer, body io.Reader, total int64, report progress.Func) (int64, error) {
	chunk := d.ChunkSize
	if chunk <= 0 {
		chunk = 1024 * 1024
	}
	buf := make([]byte, chunk)
	start := time.Now()
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, err := body.Read(buf)
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

// fileName picks a name from Content-Disposition, then the URL path, then a
// fixed fallback. Path separators are stripped so a hostile header cannot
// escape the download directory.
func fileName(resp *http.Response, rawURL string) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := sanitize(params["filename"]); name != "" {
				return name
			}
		}
	}
	if u, err := url.Parse(rawURL); err == nil {
		if name := sanitize(path.Base(u.Path)); name != "" {
			return name
		}
	}
	return fallbackFileName
}

func sanitize(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
