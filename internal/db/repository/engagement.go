package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mytube/video-gallery-api/internal/db"
	"github.com/mytube/video-gallery-api/internal/db/models"
)

// EngagementRepository manages per-user watch history and likes together
// with the aggregate counters on the video row. Both the watch upsert and
// the like insert lean on the (user_id, video_id) uniqueness constraints so
// concurrent requests for the same pair cannot double-count.
type EngagementRepository interface {
	// UpsertWatch records a watch: first watch inserts a row with count 1,
	// repeats bump the count and replace the timestamp atomically.
	UpsertWatch(ctx context.Context, userID, videoID int64) error

	// Like inserts the like row and increments the video's likes counter in
	// one transaction. A repeat like is a no-op reported as success. The
	// returned count is the video's likes counter after the call.
	Like(ctx context.Context, userID, videoID int64) (likes int64, err error)

	// HasLiked reports whether the user already liked the video.
	HasLiked(ctx context.Context, userID, videoID int64) (bool, error)

	// History retrieves the user's watch history joined with videos, most
	// recently watched first.
	History(ctx context.Context, userID int64) ([]*models.HistoryEntry, error)

	// GetWatch retrieves the watch-history row for a (user, video) pair.
	GetWatch(ctx context.Context, userID, videoID int64) (*models.WatchHistory, error)
}

type engagementRepository struct {
	pool *pgxpool.Pool
}

// NewEngagementRepository creates a new EngagementRepository.
func NewEngagementRepository(pool *pgxpool.Pool) EngagementRepository {
	return &engagementRepository{pool: pool}
}

func (r *engagementRepository) UpsertWatch(ctx context.Context, userID, videoID int64) error {
	query := `
		INSERT INTO watch_history (user_id, video_id, last_watched_at, watch_count)
		VALUES ($1, $2, NOW(), 1)
		ON CONFLICT (user_id, video_id)
		DO UPDATE SET last_watched_at = EXCLUDED.last_watched_at,
		              watch_count = watch_history.watch_count + 1
	`
	_, err := r.pool.Exec(ctx, query, userID, videoID)
	return db.WrapError(err, "upsert watch")
}

func (r *engagementRepository) Like(ctx context.Context, userID, videoID int64) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, db.WrapError(err, "like video")
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	tag, err := tx.Exec(ctx, `
		INSERT INTO video_likes (user_id, video_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, video_id) DO NOTHING
	`, userID, videoID)
	if err != nil {
		return 0, db.WrapError(err, "like video")
	}

	var likes int64
	if tag.RowsAffected() > 0 {
		// First like from this user: bump the aggregate counter.
		err = tx.QueryRow(ctx,
			`UPDATE videos SET likes = likes + 1 WHERE id = $1 RETURNING likes`,
			videoID,
		).Scan(&likes)
	} else {
		err = tx.QueryRow(ctx, `SELECT likes FROM videos WHERE id = $1`, videoID).Scan(&likes)
	}
	if err != nil {
		return 0, db.WrapError(err, "like video")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, db.WrapError(err, "like video")
	}
	return likes, nil
}

func (r *engagementRepository) HasLiked(ctx context.Context, userID, videoID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM video_likes WHERE user_id = $1 AND video_id = $2)`,
		userID, videoID,
	).Scan(&exists)
	return exists, db.WrapError(err, "check like")
}

func (r *engagementRepository) History(ctx context.Context, userID int64) ([]*models.HistoryEntry, error) {
	query := `
		SELECT v.id, v.title, v.description, v.source_url, v.embed_url, v.embed_html,
		       v.thumbnail_url, v.provider, v.category, v.views, v.likes, v.created_at,
		       h.last_watched_at, h.watch_count
		FROM watch_history h
		JOIN videos v ON v.id = h.video_id
		WHERE h.user_id = $1
		ORDER BY h.last_watched_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, db.WrapError(err, "watch history")
	}
	defer rows.Close()

	var entries []*models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.SourceURL, &e.EmbedURL, &e.EmbedHTML,
			&e.ThumbnailURL, &e.Provider, &e.Category, &e.Views, &e.Likes, &e.CreatedAt,
			&e.LastWatchedAt, &e.WatchCount,
		)
		if err != nil {
			return nil, db.WrapError(err, "watch history")
		}
		entries = append(entries, &e)
	}
	return entries, db.WrapError(rows.Err(), "watch history")
}

func (r *engagementRepository) GetWatch(ctx context.Context, userID, videoID int64) (*models.WatchHistory, error) {
	var w models.WatchHistory
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, video_id, last_watched_at, watch_count
		FROM watch_history
		WHERE user_id = $1 AND video_id = $2
	`, userID, videoID).Scan(&w.UserID, &w.VideoID, &w.LastWatchedAt, &w.WatchCount)
	if err != nil {
		return nil, db.WrapError(err, "get watch")
	}
	return &w, nil
}
