package classify

import (
	"errors"
	"testing"

	"github.com/tgrelay/relay-bot/internal/downloader"
)

func TestClassify(t *testing.T) {
	c := &Classifier{ScrapeDomain: "qombol.com"}

	tests := []struct {
		url  string
		want Kind
	}{
		{"magnet:?xt=urn:btih:deadbeef", Torrent},
		{"https://qombol.com/video/1234", Scrape},
		{"https://www.qombol.com/video/1234", Scrape},
		{"https://www.youtube.com/watch?v=abc123", VideoEngine},
		{"https://youtu.be/abc123", VideoEngine},
		{"https://m.youtube.com/watch?v=abc123", VideoEngine},
		{"https://www.pornhub.com/view_video.php?viewkey=x", VideoEngine},
		{"https://xvideos.com/video/1", VideoEngine},
		{"https://example.com/file.mp4", Direct},
		{"http://cdn.example.org/archive.zip", Direct},
		{"  https://example.com/file.bin  ", Direct},
	}

	for _, tt := range tests {
		got, err := c.Classify(tt.url)
		if err != nil {
			t.Errorf("Classify(%q) returned error: %v", tt.url, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestClassifyInvalidURLs(t *testing.T) {
	c := &Classifier{ScrapeDomain: "qombol.com"}

	for _, raw := range []string{
		"",
		"not a url",
		"example.com/no-scheme",
		"ftp://example.com/file",
		"https://",
	} {
		if _, err := c.Classify(raw); !errors.Is(err, downloader.ErrInvalidURL) {
			t.Errorf("Classify(%q) error = %v, want ErrInvalidURL", raw, err)
		}
	}
}

func TestClassifyVideoDomainDoesNotMatchLookalikes(t *testing.T) {
	c := &Classifier{}

	for _, raw := range []string{
		"https://notyoutube.com/watch?v=abc",
		"https://youtube.com.evil.example/watch?v=abc",
	} {
		got, err := c.Classify(raw)
		if err != nil {
			t.Fatalf("Classify(%q) returned error: %v", raw, err)
		}
		if got != Direct {
			t.Errorf("Classify(%q) = %v, want Direct", raw, got)
		}
	}
}

func TestClassifyScrapeDomainOverridesVideoList(t *testing.T) {
	c := &Classifier{ScrapeDomain: "youtube.com"}

	got, err := c.Classify("https://youtube.com/watch?v=abc")
	if err != nil {
		t.Fatal(err)
	}
	if got != Scrape {
		t.Errorf("scrape domain must win over the video list, got %v", got)
	}
}
