package embed

import (
	"context"
	"strings"

	"github.com/mytube/video-gallery-api/internal/db/models"
)

// ChoiceAuto lets the resolver pick the provider. An empty choice means the
// same thing.
const ChoiceAuto = "auto"

// Decision is the final embed triple stored on a video. EmbedHTML is only
// non-empty for reddit/tiktok with a successful oEmbed lookup.
type Decision struct {
	Provider  models.Provider
	EmbedURL  string
	EmbedHTML string
}

// Engine combines the resolver, the oEmbed fetcher and the admin's explicit
// provider choice. It runs on every video create and edit; there is no
// diffing against the previous embed state.
type Engine struct {
	fetcher HTMLFetcher
}

// NewEngine creates an Engine around the given fetcher.
func NewEngine(fetcher HTMLFetcher) *Engine {
	return &Engine{fetcher: fetcher}
}

// Decide produces the (provider, embed URL, embed HTML) triple for a source
// URL under the given provider choice.
//
// auto/"" runs the resolver; reddit/tiktok results then need oEmbed markup
// and downgrade to custom without it. An explicit reddit/tiktok choice
// forces the oEmbed attempt with the same downgrade. An explicit
// youtube/vimeo/loom choice is honored even when the URL doesn't parse as
// that provider, falling back to the raw URL as embed URL. An explicit
// custom choice skips resolution and network entirely.
func (e *Engine) Decide(ctx context.Context, providerChoice, sourceURL string) (Decision, error) {
	choice := strings.ToLower(strings.TrimSpace(providerChoice))
	trimmedURL := strings.TrimSpace(sourceURL)

	switch choice {
	case "", ChoiceAuto:
		provider, embedURL, err := Resolve(trimmedURL)
		if err != nil {
			return Decision{}, err
		}
		if provider == models.ProviderReddit || provider == models.ProviderTikTok {
			html := e.fetcher.FetchHTML(ctx, provider, trimmedURL)
			if html == "" {
				return Decision{Provider: models.ProviderCustom, EmbedURL: embedURL}, nil
			}
			return Decision{Provider: provider, EmbedURL: embedURL, EmbedHTML: html}, nil
		}
		return Decision{Provider: provider, EmbedURL: embedURL}, nil

	case string(models.ProviderReddit), string(models.ProviderTikTok):
		provider := models.Provider(choice)
		html := e.fetcher.FetchHTML(ctx, provider, trimmedURL)
		if html == "" {
			return Decision{Provider: models.ProviderCustom, EmbedURL: trimmedURL}, nil
		}
		return Decision{Provider: provider, EmbedURL: trimmedURL, EmbedHTML: html}, nil

	case string(models.ProviderYouTube), string(models.ProviderVimeo), string(models.ProviderLoom):
		requested := models.Provider(choice)
		resolved, embedURL, err := Resolve(trimmedURL)
		if err != nil {
			return Decision{}, err
		}
		if resolved == requested {
			return Decision{Provider: requested, EmbedURL: embedURL}, nil
		}
		// The admin's explicit choice wins even when the URL doesn't parse
		// as that provider's format.
		return Decision{Provider: requested, EmbedURL: trimmedURL}, nil

	default:
		return Decision{Provider: models.ProviderCustom, EmbedURL: trimmedURL}, nil
	}
}
