package models

import "time"

// Playlist is an ordered container of videos.
type Playlist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PlaylistItem is a (playlist, video) membership with an admin-assigned
// position. Positions start at 1; ties and gaps are legal.
type PlaylistItem struct {
	PlaylistID int64 `json:"playlist_id"`
	VideoID    int64 `json:"video_id"`
	Position   int   `json:"position"`
}

// PlaylistVideo is a video joined with its position inside a playlist.
type PlaylistVideo struct {
	Video
	Position int `json:"position"`
}
