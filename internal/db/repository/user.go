package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mytube/video-gallery-api/internal/db"
	"github.com/mytube/video-gallery-api/internal/db/models"
)

// UserRepository defines operations for managing user accounts.
type UserRepository interface {
	// Create inserts a new user and fills in its ID and creation time.
	// Duplicate usernames surface as db.ErrDuplicateKey.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, userID int64) (*models.User, error)

	// GetByUsername retrieves a user by exact username.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// List retrieves all users, newest first.
	List(ctx context.Context) ([]*models.User, error)

	// UpdateUsername changes the username; duplicates surface as
	// db.ErrDuplicateKey.
	UpdateUsername(ctx context.Context, userID int64, username string) error

	// SetAdmin sets or clears the admin flag.
	SetAdmin(ctx context.Context, userID int64, isAdmin bool) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, username, password_hash, is_admin, protected, created_at`

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash, is_admin, protected)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.IsAdmin, user.Protected,
	).Scan(&user.ID, &user.CreatedAt)
	return db.WrapError(err, "create user")
}

func (r *userRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	user, err := scanUser(row)
	if err != nil {
		return nil, db.WrapError(err, "get user by id")
	}
	return user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		return nil, db.WrapError(err, "get user by username")
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, db.WrapError(err, "list users")
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, db.WrapError(err, "list users")
		}
		users = append(users, user)
	}
	return users, db.WrapError(rows.Err(), "list users")
}

func (r *userRepository) UpdateUsername(ctx context.Context, userID int64, username string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET username = $2 WHERE id = $1`, userID, username)
	if err != nil {
		return db.WrapError(err, "update username")
	}
	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "update username")
	}
	return nil
}

func (r *userRepository) SetAdmin(ctx context.Context, userID int64, isAdmin bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_admin = $2 WHERE id = $1`, userID, isAdmin)
	if err != nil {
		return db.WrapError(err, "set admin flag")
	}
	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "set admin flag")
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, userID, passwordHash)
	if err != nil {
		return db.WrapError(err, "update password")
	}
	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "update password")
	}
	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.Protected, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
