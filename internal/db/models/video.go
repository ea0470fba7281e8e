// Package models contains the persistent data models for the gallery service.
package models

import "time"

// Provider identifies the external site a video embed originates from.
type Provider string

// Provider constants enumerate the supported embed providers.
const (
	ProviderYouTube Provider = "youtube"
	ProviderReddit  Provider = "reddit"
	ProviderTikTok  Provider = "tiktok"
	ProviderVimeo   Provider = "vimeo"
	ProviderLoom    Provider = "loom"
	ProviderCustom  Provider = "custom"
)

// Valid reports whether p is one of the supported providers.
func (p Provider) Valid() bool {
	switch p {
	case ProviderYouTube, ProviderReddit, ProviderTikTok, ProviderVimeo, ProviderLoom, ProviderCustom:
		return true
	}
	return false
}

// Video represents a gallery entry. SourceURL is the URL the admin pasted;
// EmbedURL is the canonical playable URL derived from it. EmbedHTML is only
// non-empty for reddit/tiktok entries whose oEmbed lookup succeeded, in which
// case it takes precedence over EmbedURL for rendering.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Video struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	SourceURL    string    `json:"source_url"`
	EmbedURL     string    `json:"embed_url"`
	EmbedHTML    string    `json:"embed_html"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Provider     Provider  `json:"provider"`
	Category     string    `json:"category"`
	Views        int64     `json:"views"`
	Likes        int64     `json:"likes"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewVideo creates a Video with zeroed counters.
func NewVideo(title, description, sourceURL, thumbnailURL, category string) *Video {
	return &Video{
		Title:        title,
		Description:  description,
		SourceURL:    sourceURL,
		ThumbnailURL: thumbnailURL,
		Category:     category,
		Provider:     ProviderCustom,
		CreatedAt:    time.Now(),
	}
}

// ApplyEmbed sets the resolved embed fields on the video.
func (v *Video) ApplyEmbed(provider Provider, embedURL, embedHTML string) {
	v.Provider = provider
	v.EmbedURL = embedURL
	v.EmbedHTML = embedHTML
}
