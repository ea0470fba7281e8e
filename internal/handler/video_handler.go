package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mytube/video-gallery-api/internal/metrics"
	"github.com/mytube/video-gallery-api/internal/service"
	"github.com/mytube/video-gallery-api/pkg/logger"
)

// VideoHandler serves the public gallery and the admin video CRUD.
type VideoHandler struct {
	videos    *service.VideoService
	playlists *service.PlaylistService
}

// NewVideoHandler creates a new VideoHandler instance.
func NewVideoHandler(videos *service.VideoService, playlists *service.PlaylistService) *VideoHandler {
	return &VideoHandler{videos: videos, playlists: playlists}
}

// videoRequest is the admin create/edit payload.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type videoRequest struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	SourceURL       string           `json:"source_url"`
	ThumbnailURL    string           `json:"thumbnail_url"`
	ProviderChoice  string           `json:"provider_choice"`
	Category        string           `json:"category"`
	NewPlaylistName string           `json:"new_playlist_name"`
	PlaylistID      *int64           `json:"playlist_id"`
	Position        playlistPosition `json:"position"`
}

// playlistPosition tolerates numbers, quoted numbers and garbage in the
// position field. Anything unparsable falls back to 1 instead of failing
// the whole payload.
type playlistPosition int

func (p *playlistPosition) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		*p = 1
		return nil
	}
	*p = playlistPosition(n)
	return nil
}

// toInput maps the payload onto the service input. The playlist block is
// always submitted: a new playlist name wins over an existing ID, and an
// empty selection removes the video from its current playlist.
func (r *videoRequest) toInput() service.VideoInput {
	playlist := service.ReassignInput{
		NewPlaylistName: strings.TrimSpace(r.NewPlaylistName),
		Position:        int(r.Position),
	}
	// A zero or negative ID means "no playlist", same as an absent field.
	if r.PlaylistID != nil && *r.PlaylistID > 0 {
		playlist.PlaylistID = r.PlaylistID
	}

	return service.VideoInput{
		Title:          r.Title,
		Description:    r.Description,
		SourceURL:      r.SourceURL,
		ThumbnailURL:   r.ThumbnailURL,
		ProviderChoice: r.ProviderChoice,
		Category:       r.Category,
		Playlist:       &playlist,
	}
}

// List serves the gallery with search, category filter and sorting.
func (h *VideoHandler) List(c *gin.Context) {
	videos, err := h.videos.List(c.Request.Context(),
		c.Query("q"), c.Query("cat"), c.Query("sort"))
	if err != nil {
		handleError(c, err)
		return
	}

	categories, err := h.videos.Categories(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"videos":     videos,
		"categories": categories,
	})
}

// Watch serves the watch-page payload and records the watch. The noview
// query flag suppresses the view counter bump, used by clients reloading
// the page after posting a comment or a like.
func (h *VideoHandler) Watch(c *gin.Context) {
	videoID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid video id")
		return
	}

	suppressView := c.Query("noview") == "1"

	page, err := h.videos.Watch(c.Request.Context(), currentUser(c), videoID, suppressView)
	if err != nil {
		handleError(c, err)
		return
	}

	metrics.VideoWatches.WithLabelValues(string(page.Video.Provider)).Inc()
	c.JSON(http.StatusOK, page)
}

// Create adds a video (admin only).
func (h *VideoHandler) Create(c *gin.Context) {
	var req videoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	video, err := h.videos.Create(c.Request.Context(), req.toInput())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, video)
}

// Update edits a video (admin only).
func (h *VideoHandler) Update(c *gin.Context) {
	videoID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid video id")
		return
	}

	var req videoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	video, err := h.videos.Update(c.Request.Context(), videoID, req.toInput())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, video)
}

// Delete removes a video (admin only).
func (h *VideoHandler) Delete(c *gin.Context) {
	videoID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid video id")
		return
	}

	if err := h.videos.Delete(c.Request.Context(), videoID); err != nil {
		handleError(c, err)
		return
	}

	logger.Log.Info("Video removed via admin API", zap.Int64("videoId", videoID))
	c.Status(http.StatusNoContent)
}

// AdminList serves the gallery for the admin dashboard, together with the
// playlists needed by the edit form.
func (h *VideoHandler) AdminList(c *gin.Context) {
	videos, err := h.videos.List(c.Request.Context(), c.Query("q"), "", "")
	if err != nil {
		handleError(c, err)
		return
	}

	playlists, err := h.playlists.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"videos":    videos,
		"playlists": playlists,
	})
}

// PlaylistItems serves a playlist with its ordered videos.
func (h *VideoHandler) PlaylistItems(c *gin.Context) {
	playlistID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid playlist id")
		return
	}

	items, err := h.playlists.Items(c.Request.Context(), playlistID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
