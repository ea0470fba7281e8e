package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is a bearer token issued at login and revoked at logout.
type Session struct {
	Token     uuid.UUID `json:"token"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSession issues a session for the given user.
func NewSession(userID int64) *Session {
	return &Session{
		Token:     uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}
}
