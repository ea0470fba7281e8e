package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mytube/video-gallery-api/internal/db"
	"github.com/mytube/video-gallery-api/internal/db/models"
)

// SessionRepository defines operations for bearer-token sessions.
type SessionRepository interface {
	// Create persists a new session token.
	Create(ctx context.Context, session *models.Session) error

	// GetUser resolves a session token to its user.
	GetUser(ctx context.Context, token uuid.UUID) (*models.User, error)

	// Delete revokes a session token. Revoking an unknown token is not an
	// error.
	Delete(ctx context.Context, token uuid.UUID) error
}

type sessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepository{pool: pool}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `INSERT INTO sessions (token, user_id, created_at) VALUES ($1, $2, $3)`
	_, err := r.pool.Exec(ctx, query, session.Token, session.UserID, session.CreatedAt)
	return db.WrapError(err, "create session")
}

func (r *sessionRepository) GetUser(ctx context.Context, token uuid.UUID) (*models.User, error) {
	query := `
		SELECT u.id, u.username, u.password_hash, u.is_admin, u.protected, u.created_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1
	`
	user, err := scanUser(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		return nil, db.WrapError(err, "resolve session")
	}
	return user, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return db.WrapError(err, "delete session")
}
