// Package repository provides database operations for the gallery service.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mytube/video-gallery-api/internal/db"
	"github.com/mytube/video-gallery-api/internal/db/models"
)

// VideoSort selects the ordering of a gallery listing.
type VideoSort string

// VideoSort constants enumerate the supported orderings.
const (
	SortNewest    VideoSort = "new"
	SortMostViews VideoSort = "views"
	SortMostLikes VideoSort = "likes"
)

// VideoFilters narrows and orders a gallery listing. Query matches title,
// description and category case-insensitively; Category matches exactly
// after trimming.
type VideoFilters struct {
	Query    string
	Category string
	Sort     VideoSort
}

// VideoRepository defines operations for managing videos.
type VideoRepository interface {
	// Create inserts a new video and fills in its ID and creation time.
	Create(ctx context.Context, video *models.Video) error

	// Update rewrites all mutable fields of a video.
	Update(ctx context.Context, video *models.Video) error

	// Delete removes a video; comments, history, likes and playlist
	// memberships go with it via cascade.
	Delete(ctx context.Context, videoID int64) error

	// GetByID retrieves a single video.
	GetByID(ctx context.Context, videoID int64) (*models.Video, error)

	// List retrieves videos matching the filters.
	List(ctx context.Context, filters VideoFilters) ([]*models.Video, error)

	// Categories returns the distinct non-empty categories, ordered
	// case-insensitively.
	Categories(ctx context.Context) ([]string, error)

	// Recommended returns up to limit videos excluding the given one,
	// same-provider entries first, newest first.
	Recommended(ctx context.Context, excludeID int64, provider models.Provider, limit int) ([]*models.Video, error)

	// IncrementViews bumps the view counter by one.
	IncrementViews(ctx context.Context, videoID int64) error
}

type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

const videoColumns = `id, title, description, source_url, embed_url, embed_html,
	thumbnail_url, provider, category, views, likes, created_at`

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (title, description, source_url, embed_url, embed_html, thumbnail_url, provider, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		video.Title, video.Description, video.SourceURL, video.EmbedURL,
		video.EmbedHTML, video.ThumbnailURL, video.Provider, video.Category,
	).Scan(&video.ID, &video.CreatedAt)
	return db.WrapError(err, "create video")
}

func (r *videoRepository) Update(ctx context.Context, video *models.Video) error {
	query := `
		UPDATE videos
		SET title = $2, description = $3, source_url = $4, embed_url = $5,
		    embed_html = $6, thumbnail_url = $7, provider = $8, category = $9
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		video.ID, video.Title, video.Description, video.SourceURL, video.EmbedURL,
		video.EmbedHTML, video.ThumbnailURL, video.Provider, video.Category,
	)
	if err != nil {
		return db.WrapError(err, "update video")
	}
	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "update video")
	}
	return nil
}

func (r *videoRepository) Delete(ctx context.Context, videoID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, videoID)
	if err != nil {
		return db.WrapError(err, "delete video")
	}
	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "delete video")
	}
	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, videoID int64) (*models.Video, error) {
	query := fmt.Sprintf(`SELECT %s FROM videos WHERE id = $1`, videoColumns)

	video, err := scanVideo(r.pool.QueryRow(ctx, query, videoID))
	if err != nil {
		return nil, db.WrapError(err, "get video by id")
	}
	return video, nil
}

func (r *videoRepository) List(ctx context.Context, filters VideoFilters) ([]*models.Video, error) {
	query := fmt.Sprintf(`SELECT %s FROM videos`, videoColumns)

	var conditions []string
	var args []interface{}

	if filters.Query != "" {
		args = append(args, "%"+filters.Query+"%")
		n := len(args)
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d OR category ILIKE $%d)", n, n, n))
	}
	if filters.Category != "" {
		args = append(args, filters.Category)
		conditions = append(conditions, fmt.Sprintf("TRIM(category) = $%d", len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	switch filters.Sort {
	case SortMostViews:
		query += " ORDER BY views DESC, created_at DESC"
	case SortMostLikes:
		query += " ORDER BY likes DESC, created_at DESC"
	default:
		query += " ORDER BY created_at DESC"
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, db.WrapError(err, "list videos")
	}
	defer rows.Close()

	return collectVideos(rows, "list videos")
}

func (r *videoRepository) Categories(ctx context.Context) ([]string, error) {
	query := `
		SELECT TRIM(category) AS c
		FROM videos
		WHERE TRIM(category) != ''
		GROUP BY TRIM(category)
		ORDER BY LOWER(TRIM(category)) ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, db.WrapError(err, "list categories")
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, db.WrapError(err, "list categories")
		}
		categories = append(categories, c)
	}
	return categories, db.WrapError(rows.Err(), "list categories")
}

func (r *videoRepository) Recommended(ctx context.Context, excludeID int64, provider models.Provider, limit int) ([]*models.Video, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM videos
		WHERE id != $1
		ORDER BY (provider = $2) DESC, created_at DESC
		LIMIT $3
	`, videoColumns)

	rows, err := r.pool.Query(ctx, query, excludeID, provider, limit)
	if err != nil {
		return nil, db.WrapError(err, "recommended videos")
	}
	defer rows.Close()

	return collectVideos(rows, "recommended videos")
}

func (r *videoRepository) IncrementViews(ctx context.Context, videoID int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, videoID)
	if err != nil {
		return db.WrapError(err, "increment views")
	}
	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "increment views")
	}
	return nil
}

func scanVideo(row pgx.Row) (*models.Video, error) {
	var v models.Video
	err := row.Scan(
		&v.ID, &v.Title, &v.Description, &v.SourceURL, &v.EmbedURL, &v.EmbedHTML,
		&v.ThumbnailURL, &v.Provider, &v.Category, &v.Views, &v.Likes, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func collectVideos(rows pgx.Rows, operation string) ([]*models.Video, error) {
	var videos []*models.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, db.WrapError(err, operation)
		}
		videos = append(videos, v)
	}
	return videos, db.WrapError(rows.Err(), operation)
}
