// Package embed turns pasted video URLs into playable embeds. It resolves a
// raw URL to a provider and canonical embed URL, fetches oEmbed markup for
// post-style providers, and combines both with the admin's provider choice.
package embed

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/mytube/video-gallery-api/internal/db/models"
)

// ErrEmptyURL is returned when the pasted URL is blank.
var ErrEmptyURL = errors.New("empty URL")

var (
	shortsPathRe = regexp.MustCompile(`/shorts/([^/?]+)`)
	vimeoPathRe  = regexp.MustCompile(`/(\d+)`)
	loomPathRe   = regexp.MustCompile(`/share/([^/?]+)`)
)

// Resolve maps a raw URL to a provider tag and canonical embed URL.
//
// Host matching is substring-based on the lowercased hostname, so subdomains
// like m.youtube.com match. Reddit and TikTok URLs pass through unchanged;
// their embeds are produced later via oEmbed. Anything unrecognized becomes
// the custom provider with the URL passed through verbatim.
func Resolve(rawURL string) (models.Provider, string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", "", ErrEmptyURL
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return models.ProviderCustom, trimmed, nil
	}
	host := strings.ToLower(parsed.Hostname())

	if strings.Contains(host, "reddit.com") || strings.Contains(host, "redd.it") {
		return models.ProviderReddit, trimmed, nil
	}
	if strings.Contains(host, "tiktok.com") {
		return models.ProviderTikTok, trimmed, nil
	}

	if strings.Contains(host, "youtube.com") {
		videoID := parsed.Query().Get("v")
		if videoID == "" {
			if m := shortsPathRe.FindStringSubmatch(parsed.Path); m != nil {
				videoID = m[1]
			}
		}
		if videoID != "" {
			return models.ProviderYouTube, "https://www.youtube.com/embed/" + videoID, nil
		}
	}

	if strings.Contains(host, "youtu.be") {
		videoID := strings.Trim(parsed.Path, "/")
		if i := strings.Index(videoID, "/"); i >= 0 {
			videoID = videoID[:i]
		}
		if videoID != "" {
			return models.ProviderYouTube, "https://www.youtube.com/embed/" + videoID, nil
		}
	}

	if strings.Contains(host, "vimeo.com") {
		if m := vimeoPathRe.FindStringSubmatch(parsed.Path); m != nil {
			return models.ProviderVimeo, "https://player.vimeo.com/video/" + m[1], nil
		}
	}

	if strings.Contains(host, "loom.com") {
		if m := loomPathRe.FindStringSubmatch(parsed.Path); m != nil {
			return models.ProviderLoom, "https://www.loom.com/embed/" + m[1], nil
		}
	}

	return models.ProviderCustom, trimmed, nil
}
