// Package classify routes an incoming URL to the acquisition strategy that
// can handle it. Classification looks only at the URL, never at the network.
package classify

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/tgrelay/relay-bot/internal/downloader"
)

// Kind names an acquisition strategy.
type Kind int

const (
	Direct Kind = iota
	Scrape
	VideoEngine
	Torrent
)

func (k Kind) String() string {
	switch k {
	case Direct:
		return "direct"
	case Scrape:
		return "scrape"
	case VideoEngine:
		return "video-engine"
	case Torrent:
		return "torrent"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// videoDomains are the registrable domains handed to the video extraction
// engine instead of a plain fetch.
var videoDomains = map[string]bool{
	"pornhub.com":  true,
	"youtube.com":  true,
	"youtu.be":     true,
	"xvideos.com":  true,
	"xnxx.com":     true,
	"porn300.com":  true,
	"xvv1deos.com": true,
}

// Classifier decides the strategy for a URL. ScrapeDomain is the site whose
// pages are resolved by DOM scraping rather than the video engine.
type Classifier struct {
	ScrapeDomain string
}

// Classify parses rawURL and picks a strategy. Magnet links are recognized
// before URL validation since they carry no host.
func (c *Classifier) Classify(rawURL string) (Kind, error) {
	rawURL = strings.TrimSpace(rawURL)
	if strings.HasPrefix(rawURL, "magnet:") {
		return Torrent, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Direct, fmt.Errorf("%w: %q", downloader.ErrInvalidURL, rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Direct, fmt.Errorf("%w: unsupported scheme %q", downloader.ErrInvalidURL, u.Scheme)
	}

	domain := registrableDomain(u.Hostname())
	if c.ScrapeDomain != "" && domain == registrableDomain(c.ScrapeDomain) {
		return Scrape, nil
	}
	if videoDomains[domain] {
		return VideoEngine, nil
	}
	return Direct, nil
}

func registrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return strings.TrimPrefix(host, "www.")
}
