package models

import "time"

// User represents an account. Protected marks the provisioned main admin
// account, which cannot be edited.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	Protected    bool      `json:"protected"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser creates a regular (non-admin) user.
func NewUser(username, passwordHash string) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}
