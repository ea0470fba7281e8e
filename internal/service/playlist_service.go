package service

import (
	"context"

	"github.com/mytube/video-gallery-api/internal/db"
	"github.com/mytube/video-gallery-api/internal/db/models"
	"github.com/mytube/video-gallery-api/internal/db/repository"
)

const maxPlaylistNameLen = 120

// PlaylistService computes playlist membership and sequential navigation.
type PlaylistService struct {
	playlists repository.PlaylistRepository
}

// NewPlaylistService creates a PlaylistService.
func NewPlaylistService(playlists repository.PlaylistRepository) *PlaylistService {
	return &PlaylistService{playlists: playlists}
}

// Membership returns the playlist the video belongs to, or nil when it is
// not in any playlist.
func (s *PlaylistService) Membership(ctx context.Context, videoID int64) (*models.Playlist, error) {
	playlist, err := s.playlists.MembershipForVideo(ctx, videoID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return playlist, nil
}

// Items returns the playlist's videos ordered by ascending position, ties
// broken by newest creation time.
func (s *PlaylistService) Items(ctx context.Context, playlistID int64) ([]*models.PlaylistVideo, error) {
	if _, err := s.playlists.GetByID(ctx, playlistID); err != nil {
		return nil, err
	}
	return s.playlists.Items(ctx, playlistID)
}

// Next returns the ID of the video following currentVideoID in the
// playlist, or zero when the current video is the last item or not a member.
func (s *PlaylistService) Next(ctx context.Context, playlistID, currentVideoID int64) (int64, error) {
	return s.playlists.NextVideoID(ctx, playlistID, currentVideoID)
}

// List returns all playlists, newest first.
func (s *PlaylistService) List(ctx context.Context) ([]*models.Playlist, error) {
	return s.playlists.List(ctx)
}

// ReassignInput selects the target playlist for a video: a new playlist
// name (created on the fly), an existing playlist ID, or neither to remove
// the video from its playlist.
type ReassignInput struct {
	NewPlaylistName string
	PlaylistID      *int64
	Position        int
}

// Reassign moves a video's playlist membership. The old membership is
// removed when the target differs, then the (playlist, video) pair is
// upserted with the given position. Positions below 1 are clamped to 1.
func (s *PlaylistService) Reassign(ctx context.Context, videoID int64, input ReassignInput) error {
	position := input.Position
	if position < 1 {
		position = 1
	}

	var targetID *int64
	if input.NewPlaylistName != "" {
		playlist := &models.Playlist{Name: truncate(input.NewPlaylistName, maxPlaylistNameLen)}
		if err := s.playlists.Create(ctx, playlist); err != nil {
			return err
		}
		targetID = &playlist.ID
	} else if input.PlaylistID != nil {
		if _, err := s.playlists.GetByID(ctx, *input.PlaylistID); err != nil {
			return err
		}
		targetID = input.PlaylistID
	}

	current, err := s.Membership(ctx, videoID)
	if err != nil {
		return err
	}
	if current != nil && (targetID == nil || *targetID != current.ID) {
		if err := s.playlists.RemoveItem(ctx, current.ID, videoID); err != nil {
			return err
		}
	}

	if targetID != nil {
		return s.playlists.UpsertItem(ctx, *targetID, videoID, position)
	}
	return nil
}
