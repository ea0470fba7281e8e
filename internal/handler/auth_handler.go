package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mytube/video-gallery-api/internal/metrics"
	"github.com/mytube/video-gallery-api/internal/service"
)

// AuthHandler serves registration, login/logout and the admin user list.
type AuthHandler struct {
	users *service.UserService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a regular account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		metrics.AuthEvents.WithLabelValues("register", "failure").Inc()
		handleError(c, err)
		return
	}

	metrics.AuthEvents.WithLabelValues("register", "success").Inc()
	c.JSON(http.StatusCreated, user)
}

// Login verifies the credentials and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	session, user, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		metrics.AuthEvents.WithLabelValues("login", "failure").Inc()
		handleError(c, err)
		return
	}

	metrics.AuthEvents.WithLabelValues("login", "success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"token": session.Token,
		"user":  user,
	})
}

// Logout revokes the caller's bearer token.
func (h *AuthHandler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, err := uuid.Parse(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid session token")
		return
	}

	if err := h.users.Logout(c.Request.Context(), token); err != nil {
		handleError(c, err)
		return
	}

	metrics.AuthEvents.WithLabelValues("logout", "success").Inc()
	c.Status(http.StatusNoContent)
}

// ListUsers serves all accounts for the admin dashboard.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// userEditRequest carries the admin's account changes. Omitted fields are
// left untouched.
type userEditRequest struct {
	Username *string `json:"username"`
	IsAdmin  *bool   `json:"is_admin"`
	Password string  `json:"password"`
}

// EditUser applies account changes (admin only). Protected accounts reject
// every edit with 403.
func (h *AuthHandler) EditUser(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var req userEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	user, err := h.users.Edit(c.Request.Context(), userID, service.UserEdit{
		Username: req.Username,
		IsAdmin:  req.IsAdmin,
		Password: req.Password,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
