package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mytube/video-gallery-api/internal/service"
)

// EngagementHandler serves likes, comments and watch history.
type EngagementHandler struct {
	engagements *service.EngagementService
}

// NewEngagementHandler creates a new EngagementHandler instance.
func NewEngagementHandler(engagements *service.EngagementService) *EngagementHandler {
	return &EngagementHandler{engagements: engagements}
}

// Like records a like for the signed-in user. Anonymous callers get 401.
func (h *EngagementHandler) Like(c *gin.Context) {
	videoID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid video id")
		return
	}

	var userID *int64
	if user := currentUser(c); user != nil {
		userID = &user.ID
	}

	result, err := h.engagements.Like(c.Request.Context(), userID, videoID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type commentRequest struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}

// PostComment adds a comment to a video.
func (h *EngagementHandler) PostComment(c *gin.Context) {
	videoID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid video id")
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	comment, err := h.engagements.PostComment(c.Request.Context(), currentUser(c), videoID, req.Author, req.Body)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// History serves the signed-in user's watch history, most recent first.
func (h *EngagementHandler) History(c *gin.Context) {
	user := currentUser(c)

	entries, err := h.engagements.History(c.Request.Context(), user.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}
