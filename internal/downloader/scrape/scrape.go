// Package scrape resolves a media URL out of an HTML page and hands it to
// the direct fetcher. Rules run in a fixed order from most to least
// specific; the first hit wins.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/tgrelay/relay-bot/internal/downloader"
	"github.com/tgrelay/relay-bot/internal/progress"
)

const (
	fetchTimeout   = 30 * time.Second
	connectTimeout = 10 * time.Second

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Fetcher downloads the resolved media URL. Satisfied by the direct
// strategy.
type Fetcher interface {
	Download(ctx context.Context, rawURL string, report progress.Func) (*downloader.Result, error)
}

// Scraper fetches a page, extracts the first media URL it can find, and
// delegates the actual transfer to Fetcher.
type Scraper struct {
	Client  *http.Client
	Fetcher Fetcher
}

func New(fetcher Fetcher) *Scraper {
	return &Scraper{
		Client: &http.Client{
			Timeout: fetchTimeout,
			Transport: &http.Transport{
				ResponseHeaderTimeout: connectTimeout,
			},
		},
		Fetcher: fetcher,
	}
}

func (s *Scraper) Download(ctx context.Context, pageURL string, report progress.Func) (*downloader.Result, error) {
	html, err := s.fetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	mediaURL, err := Extract(html, pageURL)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"page":  pageURL,
		"media": mediaURL,
	}).Info("Extracted media URL from page")

	return s.Fetcher.Download(ctx, mediaURL, report)
}

func (s *Scraper) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %q", downloader.ErrInvalidURL, pageURL)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := s.Client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", downloader.ErrTimeout
		}
		return "", fmt.Errorf("fetch page %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &downloader.HTTPError{Status: resp.StatusCode, URL: pageURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read page %s: %w", pageURL, err)
	}
	return string(body), nil
}

// Extract runs the rule groups over the page and returns the first media
// URL, made absolute against pageURL. Returns ErrNoMediaFound when no rule
// matches.
func Extract(html, pageURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	candidate := firstMatch(doc, html)
	if candidate == "" {
		logrus.WithField("page", pageURL).Warn("No media URL found in page")
		return "", downloader.ErrNoMediaFound
	}
	return absoluteURL(candidate, pageURL)
}

func firstMatch(doc *goquery.Document, html string) string {
	// Group 1: explicit media elements.
	if src := firstAttr(doc, "video[src], source[src]", "src"); src != "" {
		return src
	}

	// Group 2: player configuration in inline scripts.
	for _, re := range scriptRules {
		if m := re.FindStringSubmatch(html); m != nil {
			return m[1]
		}
	}

	// Group 3: CDN-hosted media URLs.
	for _, re := range cdnRules {
		if m := re.FindString(html); m != "" {
			return m
		}
	}

	// Group 4: any bare media file URL, including relative upload paths.
	for _, re := range fileRules {
		if m := re.FindString(html); m != "" {
			return m
		}
	}

	// Group 5: embedded players, accepted only when they point at a known
	// platform or directly at a media file.
	for _, sel := range []struct{ query, attr string }{
		{"iframe[src]", "src"},
		{"embed[src]", "src"},
	} {
		if src := firstAttr(doc, sel.query, sel.attr); src != "" && embedAcceptable(src) {
			return src
		}
	}
	for _, re := range embedScriptRules {
		if m := re.FindStringSubmatch(html); m != nil && embedAcceptable(m[1]) {
			return m[1]
		}
	}

	// Group 6: last resort, any URL that merely looks media-adjacent.
	for _, re := range lastResortRules {
		if m := re.FindString(html); m != "" {
			return m
		}
	}
	return ""
}

func firstAttr(doc *goquery.Document, selector, attr string) string {
	var found string
	doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if v, ok := sel.Attr(attr); ok && strings.TrimSpace(v) != "" {
			found = strings.TrimSpace(v)
			return false
		}
		return true
	})
	return found
}

var embedPlatforms = []string{
	"youtube.com", "vimeo.com", "dailymotion.com", "pornhub.com", "xvideos.com",
}

var mediaExtensions = []string{
	".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm",
}

func embedAcceptable(embedURL string) bool {
	lower := strings.ToLower(embedURL)
	for _, domain := range embedPlatforms {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	for _, ext := range mediaExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}

func absoluteURL(candidate, pageURL string) (string, error) {
	if strings.HasPrefix(candidate, "//") {
		return "https:" + candidate, nil
	}
	ref, err := url.Parse(candidate)
	if err != nil {
		return "", fmt.Errorf("%w: extracted %q", downloader.ErrInvalidURL, candidate)
	}
	if ref.IsAbs() {
		return candidate, nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: page %q", downloader.ErrInvalidURL, pageURL)
	}
	return base.ResolveReference(ref).String(), nil
}
