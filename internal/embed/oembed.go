package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/mytube/video-gallery-api/internal/db/models"
	"github.com/mytube/video-gallery-api/pkg/logger"
)

// HTMLFetcher retrieves provider-hosted embed markup for a post URL.
// Implementations report "no markup" as an empty string, never as an error.
type HTMLFetcher interface {
	FetchHTML(ctx context.Context, provider models.Provider, postURL string) string
}

// OEmbedFetcher calls the public Reddit and TikTok oEmbed endpoints.
type OEmbedFetcher struct {
	endpoints  map[models.Provider]string
	userAgent  string
	httpClient *http.Client
}

// OEmbedConfig holds the fetcher settings. Zero values fall back to the
// public endpoints, a 10 second timeout and the default identifying
// user-agent.
type OEmbedConfig struct {
	RedditEndpoint string
	TikTokEndpoint string
	UserAgent      string
	Timeout        time.Duration
}

// NewOEmbedFetcher creates an OEmbedFetcher.
func NewOEmbedFetcher(cfg OEmbedConfig) *OEmbedFetcher {
	if cfg.RedditEndpoint == "" {
		cfg.RedditEndpoint = "https://www.reddit.com/oembed"
	}
	if cfg.TikTokEndpoint == "" {
		cfg.TikTokEndpoint = "https://www.tiktok.com/oembed"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "MyTube/1.0 (oembed)"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &OEmbedFetcher{
		endpoints: map[models.Provider]string{
			models.ProviderReddit: cfg.RedditEndpoint,
			models.ProviderTikTok: cfg.TikTokEndpoint,
		},
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchHTML issues a GET to the provider's oEmbed endpoint and returns the
// embed markup. Every failure mode (unknown provider, network error,
// timeout, non-JSON body, missing html field) yields an empty string so the
// caller can downgrade the provider instead of failing the save.
func (f *OEmbedFetcher) FetchHTML(ctx context.Context, provider models.Provider, postURL string) string {
	endpoint, ok := f.endpoints[provider]
	if !ok {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		endpoint+"?url="+url.QueryEscape(postURL), nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if logger.Log != nil {
			logger.Log.Warn("oEmbed request failed",
				zap.String("provider", string(provider)),
				zap.String("url", postURL),
				zap.Error(err),
			)
		}
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var payload struct {
		HTML string `json:"html"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if logger.Log != nil {
			logger.Log.Warn("oEmbed response is not valid JSON",
				zap.String("provider", string(provider)),
				zap.Error(err),
			)
		}
		return ""
	}

	return payload.HTML
}
