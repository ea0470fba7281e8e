package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mytube/video-gallery-api/internal/db/models"
	"github.com/mytube/video-gallery-api/internal/db/repository"
	"github.com/mytube/video-gallery-api/internal/embed"
	"github.com/mytube/video-gallery-api/pkg/logger"
)

// VideoInput carries the admin-submitted fields for creating or editing a
// video, including the playlist assignment from the edit form.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoInput struct {
	Title          string
	Description    string
	SourceURL      string
	ThumbnailURL   string
	ProviderChoice string
	Category       string
	Playlist       *ReassignInput
}

// WatchPage is the full payload for a watch view: the video, its comments,
// the caller's liked flag, and either the playlist block or the
// recommendation list.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type WatchPage struct {
	Video         *models.Video          `json:"video"`
	Comments      []*models.Comment      `json:"comments"`
	Liked         bool                   `json:"liked"`
	Playlist      *models.Playlist       `json:"playlist,omitempty"`
	PlaylistItems []*models.PlaylistVideo `json:"playlist_items,omitempty"`
	NextVideoID   int64                  `json:"next_video_id,omitempty"`
	Recommended   []*models.Video        `json:"recommended,omitempty"`
}

const recommendedLimit = 12

// VideoService manages gallery entries. Creating or editing a video runs
// the embed decision engine from scratch; there is no diffing against the
// previous embed state.
type VideoService struct {
	videos      repository.VideoRepository
	comments    repository.CommentRepository
	engine      *embed.Engine
	engagements *EngagementService
	playlists   *PlaylistService
}

// NewVideoService creates a VideoService.
func NewVideoService(
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	engine *embed.Engine,
	engagements *EngagementService,
	playlists *PlaylistService,
) *VideoService {
	return &VideoService{
		videos:      videos,
		comments:    comments,
		engine:      engine,
		engagements: engagements,
		playlists:   playlists,
	}
}

// Create adds a video from admin input.
func (s *VideoService) Create(ctx context.Context, input VideoInput) (*models.Video, error) {
	if err := validateVideoInput(&input); err != nil {
		return nil, err
	}

	decision, err := s.engine.Decide(ctx, input.ProviderChoice, input.SourceURL)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	video := models.NewVideo(input.Title, input.Description, input.SourceURL, input.ThumbnailURL, input.Category)
	video.ApplyEmbed(decision.Provider, decision.EmbedURL, decision.EmbedHTML)

	if err := s.videos.Create(ctx, video); err != nil {
		return nil, err
	}

	logger.Log.Info("Video created",
		zap.Int64("videoId", video.ID),
		zap.String("provider", string(video.Provider)),
		zap.String("sourceUrl", video.SourceURL),
	)

	if input.Playlist != nil {
		if err := s.playlists.Reassign(ctx, video.ID, *input.Playlist); err != nil {
			return nil, err
		}
	}

	return video, nil
}

// Update edits a video. The embed triple is fully re-resolved and the
// playlist membership reassigned when a playlist block is submitted.
func (s *VideoService) Update(ctx context.Context, videoID int64, input VideoInput) (*models.Video, error) {
	if err := validateVideoInput(&input); err != nil {
		return nil, err
	}

	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	decision, err := s.engine.Decide(ctx, input.ProviderChoice, input.SourceURL)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	video.Title = input.Title
	video.Description = input.Description
	video.SourceURL = input.SourceURL
	video.ThumbnailURL = input.ThumbnailURL
	video.Category = input.Category
	video.ApplyEmbed(decision.Provider, decision.EmbedURL, decision.EmbedHTML)

	if err := s.videos.Update(ctx, video); err != nil {
		return nil, err
	}

	if input.Playlist != nil {
		if err := s.playlists.Reassign(ctx, videoID, *input.Playlist); err != nil {
			return nil, err
		}
	}

	logger.Log.Info("Video updated",
		zap.Int64("videoId", video.ID),
		zap.String("provider", string(video.Provider)),
	)

	return video, nil
}

// Delete removes a video; comments, history, likes and playlist items
// cascade away with it.
func (s *VideoService) Delete(ctx context.Context, videoID int64) error {
	if err := s.videos.Delete(ctx, videoID); err != nil {
		return err
	}
	logger.Log.Info("Video deleted", zap.Int64("videoId", videoID))
	return nil
}

// Get retrieves a single video.
func (s *VideoService) Get(ctx context.Context, videoID int64) (*models.Video, error) {
	return s.videos.GetByID(ctx, videoID)
}

// List retrieves the gallery with search, category filter and sorting.
// Unknown sort values fall back to newest-first.
func (s *VideoService) List(ctx context.Context, query, category, sort string) ([]*models.Video, error) {
	filters := repository.VideoFilters{
		Query:    strings.TrimSpace(query),
		Category: strings.TrimSpace(category),
	}
	switch repository.VideoSort(strings.ToLower(strings.TrimSpace(sort))) {
	case repository.SortMostViews:
		filters.Sort = repository.SortMostViews
	case repository.SortMostLikes:
		filters.Sort = repository.SortMostLikes
	default:
		filters.Sort = repository.SortNewest
	}
	return s.videos.List(ctx, filters)
}

// Categories returns the distinct non-empty categories.
func (s *VideoService) Categories(ctx context.Context) ([]string, error) {
	return s.videos.Categories(ctx)
}

// Watch assembles the watch-page payload and records the watch. When the
// video belongs to a playlist, the playlist block replaces the
// recommendation list.
func (s *VideoService) Watch(ctx context.Context, user *models.User, videoID int64, suppressView bool) (*WatchPage, error) {
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	var userID *int64
	if user != nil {
		userID = &user.ID
	}
	if err := s.engagements.RecordWatch(ctx, userID, videoID, suppressView); err != nil {
		return nil, err
	}

	// Re-read after the counter bump so the payload shows the new count.
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	liked, err := s.engagements.HasLiked(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}

	page := &WatchPage{
		Video:    video,
		Comments: comments,
		Liked:    liked,
	}

	playlist, err := s.playlists.Membership(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if playlist != nil {
		page.Playlist = playlist
		if page.PlaylistItems, err = s.playlists.Items(ctx, playlist.ID); err != nil {
			return nil, err
		}
		if page.NextVideoID, err = s.playlists.Next(ctx, playlist.ID, videoID); err != nil {
			return nil, err
		}
		return page, nil
	}

	if page.Recommended, err = s.videos.Recommended(ctx, videoID, video.Provider, recommendedLimit); err != nil {
		return nil, err
	}
	return page, nil
}

func validateVideoInput(input *VideoInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.SourceURL = strings.TrimSpace(input.SourceURL)
	input.ThumbnailURL = strings.TrimSpace(input.ThumbnailURL)
	input.Category = strings.TrimSpace(input.Category)

	if input.Title == "" || input.SourceURL == "" {
		return &ValidationError{Message: "title and video URL are required"}
	}
	return nil
}
