package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mytube/video-gallery-api/internal/db"
	"github.com/mytube/video-gallery-api/internal/db/models"
)

// PlaylistRepository defines operations for playlists and their items.
type PlaylistRepository interface {
	// Create inserts a playlist and fills in its ID and creation time.
	Create(ctx context.Context, playlist *models.Playlist) error

	// GetByID retrieves a playlist.
	GetByID(ctx context.Context, playlistID int64) (*models.Playlist, error)

	// List retrieves all playlists, newest first.
	List(ctx context.Context) ([]*models.Playlist, error)

	// MembershipForVideo returns the playlist a video belongs to.
	// db.ErrNotFound means the video is not in any playlist.
	MembershipForVideo(ctx context.Context, videoID int64) (*models.Playlist, error)

	// Items retrieves a playlist's videos ordered by ascending position,
	// ties broken by newest creation time.
	Items(ctx context.Context, playlistID int64) ([]*models.PlaylistVideo, error)

	// NextVideoID returns the video at the smallest position strictly
	// greater than the current video's position. Zero means there is no
	// next item, including when the current video is not a member.
	NextVideoID(ctx context.Context, playlistID, currentVideoID int64) (int64, error)

	// RemoveItem deletes a (playlist, video) membership.
	RemoveItem(ctx context.Context, playlistID, videoID int64) error

	// UpsertItem inserts a membership or overwrites its position.
	UpsertItem(ctx context.Context, playlistID, videoID int64, position int) error
}

type playlistRepository struct {
	pool *pgxpool.Pool
}

// NewPlaylistRepository creates a new PlaylistRepository.
func NewPlaylistRepository(pool *pgxpool.Pool) PlaylistRepository {
	return &playlistRepository{pool: pool}
}

func (r *playlistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO playlists (name) VALUES ($1) RETURNING id, created_at`,
		playlist.Name,
	).Scan(&playlist.ID, &playlist.CreatedAt)
	return db.WrapError(err, "create playlist")
}

func (r *playlistRepository) GetByID(ctx context.Context, playlistID int64) (*models.Playlist, error) {
	var p models.Playlist
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM playlists WHERE id = $1`, playlistID,
	).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, db.WrapError(err, "get playlist")
	}
	return &p, nil
}

func (r *playlistRepository) List(ctx context.Context) ([]*models.Playlist, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM playlists ORDER BY created_at DESC`)
	if err != nil {
		return nil, db.WrapError(err, "list playlists")
	}
	defer rows.Close()

	var playlists []*models.Playlist
	for rows.Next() {
		var p models.Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, db.WrapError(err, "list playlists")
		}
		playlists = append(playlists, &p)
	}
	return playlists, db.WrapError(rows.Err(), "list playlists")
}

func (r *playlistRepository) MembershipForVideo(ctx context.Context, videoID int64) (*models.Playlist, error) {
	query := `
		SELECT p.id, p.name, p.created_at
		FROM playlist_items pi
		JOIN playlists p ON p.id = pi.playlist_id
		WHERE pi.video_id = $1
		LIMIT 1
	`
	var p models.Playlist
	err := r.pool.QueryRow(ctx, query, videoID).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, db.WrapError(err, "playlist membership")
	}
	return &p, nil
}

func (r *playlistRepository) Items(ctx context.Context, playlistID int64) ([]*models.PlaylistVideo, error) {
	query := `
		SELECT v.id, v.title, v.description, v.source_url, v.embed_url, v.embed_html,
		       v.thumbnail_url, v.provider, v.category, v.views, v.likes, v.created_at,
		       pi.position
		FROM playlist_items pi
		JOIN videos v ON v.id = pi.video_id
		WHERE pi.playlist_id = $1
		ORDER BY pi.position ASC, v.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, playlistID)
	if err != nil {
		return nil, db.WrapError(err, "playlist items")
	}
	defer rows.Close()

	var items []*models.PlaylistVideo
	for rows.Next() {
		var pv models.PlaylistVideo
		err := rows.Scan(
			&pv.ID, &pv.Title, &pv.Description, &pv.SourceURL, &pv.EmbedURL, &pv.EmbedHTML,
			&pv.ThumbnailURL, &pv.Provider, &pv.Category, &pv.Views, &pv.Likes, &pv.CreatedAt,
			&pv.Position,
		)
		if err != nil {
			return nil, db.WrapError(err, "playlist items")
		}
		items = append(items, &pv)
	}
	return items, db.WrapError(rows.Err(), "playlist items")
}

func (r *playlistRepository) NextVideoID(ctx context.Context, playlistID, currentVideoID int64) (int64, error) {
	var currentPos int
	err := r.pool.QueryRow(ctx,
		`SELECT position FROM playlist_items WHERE playlist_id = $1 AND video_id = $2`,
		playlistID, currentVideoID,
	).Scan(&currentPos)
	if err != nil {
		wrapped := db.WrapError(err, "next in playlist")
		if db.IsNotFound(wrapped) {
			// Not a member: no next item, by design not an error.
			return 0, nil
		}
		return 0, wrapped
	}

	var nextID int64
	err = r.pool.QueryRow(ctx, `
		SELECT video_id FROM playlist_items
		WHERE playlist_id = $1 AND position > $2
		ORDER BY position ASC
		LIMIT 1
	`, playlistID, currentPos).Scan(&nextID)
	if err != nil {
		wrapped := db.WrapError(err, "next in playlist")
		if db.IsNotFound(wrapped) {
			return 0, nil
		}
		return 0, wrapped
	}
	return nextID, nil
}

func (r *playlistRepository) RemoveItem(ctx context.Context, playlistID, videoID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM playlist_items WHERE playlist_id = $1 AND video_id = $2`,
		playlistID, videoID,
	)
	return db.WrapError(err, "remove playlist item")
}

func (r *playlistRepository) UpsertItem(ctx context.Context, playlistID, videoID int64, position int) error {
	query := `
		INSERT INTO playlist_items (playlist_id, video_id, position)
		VALUES ($1, $2, $3)
		ON CONFLICT (playlist_id, video_id)
		DO UPDATE SET position = EXCLUDED.position
	`
	_, err := r.pool.Exec(ctx, query, playlistID, videoID, position)
	return db.WrapError(err, "upsert playlist item")
}
