package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mytube/video-gallery-api/internal/db"
	"github.com/mytube/video-gallery-api/internal/db/models"
	"github.com/mytube/video-gallery-api/internal/db/repository"
	"github.com/mytube/video-gallery-api/pkg/logger"
)

// UserService manages accounts and bearer-token sessions. The provisioned
// main admin account carries a protected flag and rejects all edits.
type UserService struct {
	users         repository.UserRepository
	sessions      repository.SessionRepository
	adminUsername string
}

// NewUserService creates a UserService. adminUsername is the reserved main
// admin name; registration rejects it case-insensitively.
func NewUserService(users repository.UserRepository, sessions repository.SessionRepository, adminUsername string) *UserService {
	return &UserService{
		users:         users,
		sessions:      sessions,
		adminUsername: adminUsername,
	}
}

// EnsureAdmin provisions the protected main admin account if it does not
// exist yet. Called once at startup.
func (s *UserService) EnsureAdmin(ctx context.Context, password string) error {
	_, err := s.users.GetByUsername(ctx, s.adminUsername)
	if err == nil {
		return nil
	}
	if !db.IsNotFound(err) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username:     s.adminUsername,
		PasswordHash: string(hash),
		IsAdmin:      true,
		Protected:    true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		// Another instance may have seeded it concurrently.
		if db.IsDuplicateKey(err) {
			return nil
		}
		return err
	}

	logger.Log.Info("Provisioned main admin account", zap.String("username", s.adminUsername))
	return nil
}

// Register creates a regular account. The reserved admin name is rejected;
// duplicate usernames surface as db.ErrDuplicateKey for the handler to
// report as "name taken".
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, &ValidationError{Message: "username and password are required"}
	}
	if strings.EqualFold(username, s.adminUsername) {
		return nil, ErrUsernameReserved
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(username, string(hash))
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.Info("User registered", zap.String("username", username))
	return user, nil
}

// Login verifies the credentials and issues a session token.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.Session, *models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil, ErrBadCredentials
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrBadCredentials
	}

	session := models.NewSession(user.ID)
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, err
	}

	return session, user, nil
}

// Logout revokes a session token.
func (s *UserService) Logout(ctx context.Context, token uuid.UUID) error {
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a session token to its user.
func (s *UserService) Authenticate(ctx context.Context, token uuid.UUID) (*models.User, error) {
	return s.sessions.GetUser(ctx, token)
}

// List returns all accounts, newest first.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// UserEdit carries the admin-submitted account changes. Nil fields are left
// untouched; an empty password means "do not change".
type UserEdit struct {
	Username *string
	IsAdmin  *bool
	Password string
}

// Edit applies account changes. Protected accounts reject every edit with
// db.ErrProtectedRecord.
func (s *UserService) Edit(ctx context.Context, userID int64, edit UserEdit) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Protected {
		return nil, db.ErrProtectedRecord
	}

	if edit.Username != nil {
		newName := strings.TrimSpace(*edit.Username)
		if newName != "" && newName != user.Username {
			if strings.EqualFold(newName, s.adminUsername) {
				return nil, ErrUsernameReserved
			}
			if err := s.users.UpdateUsername(ctx, userID, newName); err != nil {
				return nil, err
			}
			user.Username = newName
		}
	}

	if edit.IsAdmin != nil && *edit.IsAdmin != user.IsAdmin {
		if err := s.users.SetAdmin(ctx, userID, *edit.IsAdmin); err != nil {
			return nil, err
		}
		user.IsAdmin = *edit.IsAdmin
	}

	if edit.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(edit.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
			return nil, err
		}
	}

	logger.Log.Info("User updated", zap.Int64("userId", userID))
	return user, nil
}
