package domain

import (
	"fmt"
	"regexp"
	"time"
)

// MinPasswordLength is the shortest password accepted for a user.
const MinPasswordLength = 6

var usernameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{1,31}$`)

// User is an application operator. Admins manage users and backups.
type User struct {
	ID           int64
	Username     string
	Name         string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// NewUser holds the input for creating a user.
type NewUser struct {
	Username string
	Name     string
	Password string
	IsAdmin  bool
}

// Validate checks username and password rules.
func (u NewUser) Validate() error {
	if !usernameRegex.MatchString(u.Username) {
		return fmt.Errorf("%w: username must be 2-32 chars of lowercase letters, digits, '.', '_' or '-'", ErrInvalidInput)
	}
	if len(u.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	return nil
}
