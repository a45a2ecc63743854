package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tgrelay/relay-bot/internal/downloader"
	"github.com/tgrelay/relay-bot/internal/progress"
)

type fakeFetcher struct {
	gotURL string
	calls  int
	result *downloader.Result
	err    error
}

func (f *fakeFetcher) Download(ctx context.Context, rawURL string, report progress.Func) (*downloader.Result, error) {
	f.calls++
	f.gotURL = rawURL
	return f.result, f.err
}

func TestExtractRuleOrder(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "video tag",
			html: `<html><body><video src="https://cdn.example.com/a.mp4"></video></body></html>`,
			want: "https://cdn.example.com/a.mp4",
		},
		{
			name: "source tag",
			html: `<html><video><source src="/media/b.mp4" type="video/mp4"></video></html>`,
			want: "https://qombol.com/media/b.mp4",
		},
		{
			name: "player file assignment",
			html: `<script>jwplayer().setup({file: "https://host.example/v.m3u8"});</script>`,
			want: "https://host.example/v.m3u8",
		},
		{
			name: "video_url assignment",
			html: `<script>var config = {video_url: "https://host.example/stream/77"};</script>`,
			want: "https://host.example/stream/77",
		},
		{
			name: "bunny cdn",
			html: `<div data-x="https://vz-123.b-cdn.net/play/video.mp4"></div>`,
			want: "https://vz-123.b-cdn.net/play/video.mp4",
		},
		{
			name: "wordpress uploads",
			html: `<a href="wp-content/uploads/2024/01/clip.mp4">download</a>`,
			want: "https://qombol.com/page/wp-content/uploads/2024/01/clip.mp4",
		},
		{
			name: "known platform iframe",
			html: `<iframe src="https://www.youtube.com/embed/abc123"></iframe>`,
			want: "https://www.youtube.com/embed/abc123",
		},
		{
			name: "protocol relative",
			html: `<video src="//cdn.example.com/c.mp4"></video>`,
			want: "https://cdn.example.com/c.mp4",
		},
		{
			name: "video tag beats generic url",
			html: `<p>https://other.example/z.mp4</p><video src="https://cdn.example.com/wanted.mp4"></video>`,
			want: "https://cdn.example.com/wanted.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.html, "https://qombol.com/page/item")
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractIgnoresUnknownIframe(t *testing.T) {
	html := `<iframe src="https://ads.example.com/banner"></iframe>`
	_, err := Extract(html, "https://qombol.com/page")
	if !errors.Is(err, downloader.ErrNoMediaFound) {
		t.Fatalf("expected ErrNoMediaFound for non-media iframe, got %v", err)
	}
}

func TestExtractNoMedia(t *testing.T) {
	html := `<html><body><h1>hello</h1><p>nothing here</p></body></html>`
	_, err := Extract(html, "https://qombol.com/page")
	if !errors.Is(err, downloader.ErrNoMediaFound) {
		t.Fatalf("expected ErrNoMediaFound, got %v", err)
	}
}

func TestDownloadDelegatesToFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != browserUserAgent {
			t.Error("expected browser user agent on page fetch")
		}
		w.Write([]byte(`<video src="https://cdn.example.com/found.mp4"></video>`))
	}))
	defer srv.Close()

	fetcher := &fakeFetcher{result: &downloader.Result{FileName: "found.mp4", ByteSize: 10}}
	s := New(fetcher)

	res, err := s.Download(context.Background(), srv.URL+"/video/1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if fetcher.gotURL != "https://cdn.example.com/found.mp4" {
		t.Errorf("fetcher got %q", fetcher.gotURL)
	}
	if res.FileName != "found.mp4" {
		t.Errorf("FileName = %q", res.FileName)
	}
}

func TestDownloadNoMediaSkipsFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>no media</body></html>`))
	}))
	defer srv.Close()

	fetcher := &fakeFetcher{}
	s := New(fetcher)

	_, err := s.Download(context.Background(), srv.URL+"/video/2", nil)
	if !errors.Is(err, downloader.ErrNoMediaFound) {
		t.Fatalf("expected ErrNoMediaFound, got %v", err)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher must not be called without a media URL, got %d calls", fetcher.calls)
	}
}

func TestDownloadPageHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := New(&fakeFetcher{})
	_, err := s.Download(context.Background(), srv.URL+"/video/3", nil)

	var httpErr *downloader.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Status != http.StatusForbidden {
		t.Errorf("Status = %d, want 403", httpErr.Status)
	}
}
