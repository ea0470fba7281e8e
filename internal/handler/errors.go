// Package handler wires the HTTP surface of the gallery API.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mytube/video-gallery-api/internal/db"
	"github.com/mytube/video-gallery-api/internal/service"
	"github.com/mytube/video-gallery-api/pkg/logger"
)

// ErrorResponse is the JSON body returned for every failed request.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
	})
}

// handleError maps service and repository errors to HTTP statuses.
func handleError(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err),
		errors.Is(err, service.ErrEmptyComment),
		errors.Is(err, service.ErrUsernameReserved):
		respondError(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrLoginRequired),
		errors.Is(err, service.ErrBadCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())

	case errors.Is(err, db.ErrProtectedRecord):
		respondError(c, http.StatusForbidden, "this account cannot be modified")

	case db.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not found")

	case db.IsDuplicateKey(err):
		respondError(c, http.StatusConflict, "already exists")

	default:
		logger.Log.Error("Request failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
