// Package service provides the business logic for the gallery.
package service

import "errors"

var (
	// ErrLoginRequired is returned when an operation needs a signed-in user.
	ErrLoginRequired = errors.New("login required")

	// ErrEmptyComment is returned when a comment body is blank after trimming.
	ErrEmptyComment = errors.New("comment cannot be empty")

	// ErrUsernameReserved is returned when registering with the provisioned
	// admin username.
	ErrUsernameReserved = errors.New("username is reserved")

	// ErrBadCredentials is returned on a failed login.
	ErrBadCredentials = errors.New("wrong username or password")
)

// ValidationError reports invalid caller input that should be corrected and
// resubmitted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Message
}

// IsValidation returns true if the error is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
