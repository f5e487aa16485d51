// Package auth implements login and user administration.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/bnema/pdv/internal/boundaries/out"
	"github.com/bnema/pdv/internal/domain"
	"github.com/bnema/pdv/pkg/sanitize"
)

// DefaultBcryptCost is the bcrypt cost used for new password hashes.
const DefaultBcryptCost = 12

// dummyHash is compared against when a username does not exist so unknown
// users and wrong passwords take the same time.
var dummyHash = []byte("$2a$12$C6UzMDM.H6dfI/f/IKcEeO4vVQTW6m8x0VNDdgK.1i3T1j6r1Kc5S")

// Service implements the AuthService interface.
type Service struct {
	users out.UserStore
	cost  int
	log   *log.Logger
}

// NewService creates a new auth service.
func NewService(users out.UserStore, logger *log.Logger) *Service {
	return &Service{
		users: users,
		cost:  DefaultBcryptCost,
		log:   logger.With("usecase", "auth"),
	}
}

// Login checks a username and password. Unknown users and wrong passwords
// both yield ErrUnauthorized.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			s.log.Warn("Login failed", "username", username, "reason", "unknown user")
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("Login failed", "username", username, "reason", "bad password")
		return nil, domain.ErrUnauthorized
	}

	s.log.Info("User logged in", "username", username, "admin", user.IsAdmin)
	return user, nil
}

// Resolve loads the user a session refers to. A user deleted since the
// session was issued resolves to ErrUnauthorized.
func (s *Service) Resolve(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns every user.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx)
}

// CreateUser validates input and stores a new user with a hashed password.
func (s *Service) CreateUser(ctx context.Context, input domain.NewUser) (*domain.User, error) {
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))
	input.Name = sanitize.Text(input.Name)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, domain.User{
		Username:     input.Username,
		Name:         input.Name,
		PasswordHash: hash,
		IsAdmin:      input.IsAdmin,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: username %q already exists", domain.ErrConflict, input.Username)
		}
		return nil, err
	}

	s.log.Info("User created", "username", user.Username, "admin", user.IsAdmin)
	return user, nil
}

// DeleteUser removes userID on behalf of actorID. Users cannot delete
// themselves and the last admin cannot be deleted.
func (s *Service) DeleteUser(ctx context.Context, actorID, userID int64) error {
	if actorID == userID {
		return domain.ErrSelfDelete
	}

	target, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if target.IsAdmin {
		admins, err := s.users.CountAdmins(ctx)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return domain.ErrLastAdmin
		}
	}

	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return err
	}

	s.log.Info("User deleted", "username", target.Username, "by", actorID)
	return nil
}

// ChangePassword replaces a user's password.
func (s *Service) ChangePassword(ctx context.Context, userID int64, password string) error {
	if len(password) < domain.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, domain.MinPasswordLength)
	}

	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	s.log.Info("Password changed", "user_id", userID)
	return nil
}

// HasAdmin reports whether at least one admin user exists.
func (s *Service) HasAdmin(ctx context.Context) (bool, error) {
	n, err := s.users.CountAdmins(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
