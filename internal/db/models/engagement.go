package models

import "time"

// WatchHistory holds one row per (user, video) pair. Repeat watches bump
// WatchCount and replace LastWatchedAt via an atomic upsert.
type WatchHistory struct {
	UserID        int64     `json:"user_id"`
	VideoID       int64     `json:"video_id"`
	LastWatchedAt time.Time `json:"last_watched_at"`
	WatchCount    int64     `json:"watch_count"`
}

// HistoryEntry is a watch-history row joined with its video for the history
// listing.
type HistoryEntry struct {
	Video
	LastWatchedAt time.Time `json:"last_watched_at"`
	WatchCount    int64     `json:"watch_count"`
}

// VideoLike records that a user liked a video. Existence of the row is the
// liked flag; likes are never removed.
type VideoLike struct {
	UserID    int64     `json:"user_id"`
	VideoID   int64     `json:"video_id"`
	CreatedAt time.Time `json:"created_at"`
}
