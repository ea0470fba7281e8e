package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mytube/video-gallery-api/internal/db"
	"github.com/mytube/video-gallery-api/internal/db/models"
)

// CommentRepository defines operations for video comments.
type CommentRepository interface {
	// Create inserts a comment and fills in its ID and creation time.
	Create(ctx context.Context, comment *models.Comment) error

	// ListByVideo retrieves a video's comments, newest first.
	ListByVideo(ctx context.Context, videoID int64) ([]*models.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (video_id, user_id, author, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		comment.VideoID, comment.UserID, comment.Author, comment.Body,
	).Scan(&comment.ID, &comment.CreatedAt)
	return db.WrapError(err, "create comment")
}

func (r *commentRepository) ListByVideo(ctx context.Context, videoID int64) ([]*models.Comment, error) {
	query := `
		SELECT id, video_id, user_id, author, body, created_at
		FROM comments
		WHERE video_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, videoID)
	if err != nil {
		return nil, db.WrapError(err, "list comments")
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.VideoID, &c.UserID, &c.Author, &c.Body, &c.CreatedAt); err != nil {
			return nil, db.WrapError(err, "list comments")
		}
		comments = append(comments, &c)
	}
	return comments, db.WrapError(rows.Err(), "list comments")
}
