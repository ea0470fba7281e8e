package models

import "time"

// Comment belongs to exactly one video and is removed when the video is
// deleted. UserID is nil for anonymous comments.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Comment struct {
	ID        int64     `json:"id"`
	VideoID   int64     `json:"video_id"`
	UserID    *int64    `json:"user_id,omitempty"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
