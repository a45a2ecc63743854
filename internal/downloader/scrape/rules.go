package scrape

import "regexp"

const mediaExt = `(?:mp4|avi|mkv|mov|wmv|flv|webm)`

// scriptRules match player configuration assignments inside inline scripts.
var scriptRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)file:\s*["']([^"']+\.` + mediaExt + `|[^"']+\.m3u8)["']`),
	regexp.MustCompile(`(?i)src:\s*["']([^"']+\.` + mediaExt + `|[^"']+\.m3u8)["']`),
	regexp.MustCompile(`(?i)video_url["']?\s*:\s*["']([^"']+)["']`),
	regexp.MustCompile(`(?i)videoUrl["']?\s*:\s*["']([^"']+)["']`),
	regexp.MustCompile(`(?i)mp4["']?\s*:\s*["']([^"']+)["']`),
}

// cdnRules match media files hosted on common CDN hosts.
var cdnRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://[^"'\s]*\.b-cdn\.net/[^"'\s]*\.` + mediaExt),
	regexp.MustCompile(`(?i)https?://[^"'\s]*cdn[^"'\s]*\.` + mediaExt),
}

// fileRules match any absolute media file URL or a site-relative uploads
// path.
var fileRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://[^"'\s]+\.(?:` + `mp4|avi|mkv|mov|wmv|flv|webm|m3u8` + `)`),
	regexp.MustCompile(`(?i)wp-content/uploads/[^"'\s]*\.` + mediaExt),
}

// embedScriptRules match embed or player URLs assigned in scripts. Matches
// are filtered through embedAcceptable.
var embedScriptRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)embed_url["']?\s*:\s*["']([^"']+)["']`),
	regexp.MustCompile(`(?i)player["']?\s*:\s*["']([^"']+)["']`),
}

// lastResortRules accept anything that looks like a media URL at all.
var lastResortRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://[^"'\s]*(?:video|media|stream)[^"'\s]*\.` + mediaExt),
	regexp.MustCompile(`(?i)https?://[^"'\s]*\.` + mediaExt + `[^"'\s]*`),
}
