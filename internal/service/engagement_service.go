package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mytube/video-gallery-api/internal/db/models"
	"github.com/mytube/video-gallery-api/internal/db/repository"
	"github.com/mytube/video-gallery-api/pkg/logger"
)

const (
	maxAuthorLen = 50
	maxBodyLen   = 1000

	// anonymousAuthor is the display name used when neither an explicit
	// author nor a signed-in user is available.
	anonymousAuthor = "Anonymous"
)

// LikeResult reports the outcome of a like operation.
type LikeResult struct {
	VideoID int64 `json:"video_id"`
	Likes   int64 `json:"likes"`
	Liked   bool  `json:"liked"`
}

// EngagementService manages watches, likes and comments.
type EngagementService struct {
	engagements repository.EngagementRepository
	videos      repository.VideoRepository
	comments    repository.CommentRepository
	publisher   EventPublisher
}

// NewEngagementService creates an EngagementService. The publisher may be
// nil, in which case no events are emitted.
func NewEngagementService(
	engagements repository.EngagementRepository,
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	publisher EventPublisher,
) *EngagementService {
	return &EngagementService{
		engagements: engagements,
		videos:      videos,
		comments:    comments,
		publisher:   publisher,
	}
}

// RecordWatch registers a watch-page load. The video's view counter is
// bumped unless suppressView is set (used by post-action redirects back to
// the same video). For signed-in users the per-user history row is upserted
// atomically; anonymous watches only touch the counter.
func (s *EngagementService) RecordWatch(ctx context.Context, userID *int64, videoID int64, suppressView bool) error {
	if !suppressView {
		if err := s.videos.IncrementViews(ctx, videoID); err != nil {
			return err
		}
	}

	if userID != nil {
		if err := s.engagements.UpsertWatch(ctx, *userID, videoID); err != nil {
			return err
		}
	}

	s.publish(ctx, EventVideoWatched, videoID, userID)
	return nil
}

// Like records that the user liked the video. Unauthenticated callers fail
// with ErrLoginRequired. A repeat like reports liked=true without touching
// the counter.
func (s *EngagementService) Like(ctx context.Context, userID *int64, videoID int64) (*LikeResult, error) {
	if userID == nil {
		return nil, ErrLoginRequired
	}

	// Existence check first so the video's absence surfaces as not-found
	// rather than a foreign key violation.
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	likes, err := s.engagements.Like(ctx, *userID, videoID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventVideoLiked, videoID, userID)

	return &LikeResult{VideoID: videoID, Likes: likes, Liked: true}, nil
}

// PostComment adds a comment to a video. The body must be non-blank; the
// author falls back to the signed-in user's username and then to the
// anonymous placeholder. Author and body are silently truncated to 50 and
// 1000 characters.
func (s *EngagementService) PostComment(ctx context.Context, user *models.User, videoID int64, author, body string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyComment
	}

	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	author = strings.TrimSpace(author)
	if author == "" && user != nil {
		author = user.Username
	}
	if author == "" {
		author = anonymousAuthor
	}

	comment := &models.Comment{
		VideoID: videoID,
		Author:  truncate(author, maxAuthorLen),
		Body:    truncate(body, maxBodyLen),
	}
	if user != nil {
		comment.UserID = &user.ID
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	var userID *int64
	if user != nil {
		userID = &user.ID
	}
	s.publish(ctx, EventCommentPosted, videoID, userID)

	return comment, nil
}

// HasLiked reports whether the user liked the video. Anonymous users never
// have likes.
func (s *EngagementService) HasLiked(ctx context.Context, userID *int64, videoID int64) (bool, error) {
	if userID == nil {
		return false, nil
	}
	return s.engagements.HasLiked(ctx, *userID, videoID)
}

// History returns the user's watch history, most recent first.
func (s *EngagementService) History(ctx context.Context, userID int64) ([]*models.HistoryEntry, error) {
	return s.engagements.History(ctx, userID)
}

// publish emits an engagement event. Publish failures are logged and
// swallowed; engagement writes never fail because the broker is down.
func (s *EngagementService) publish(ctx context.Context, eventType string, videoID int64, userID *int64) {
	if s.publisher == nil {
		return
	}

	event := &EngagementEvent{
		ID:         uuid.New(),
		Type:       eventType,
		VideoID:    videoID,
		UserID:     userID,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.PublishEngagement(ctx, event); err != nil {
		logger.Log.Warn("Failed to publish engagement event",
			zap.String("type", eventType),
			zap.Int64("videoId", videoID),
			zap.Error(err),
		)
	}
}

// truncate limits s to max characters, counting runes so multi-byte input
// is never cut mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
