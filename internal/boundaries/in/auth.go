package in

import (
	"context"

	"github.com/bnema/pdv/internal/domain"
)

// AuthService defines login and user administration use cases.
type AuthService interface {
	// Login checks credentials and returns the matching user.
	Login(ctx context.Context, username, password string) (*domain.User, error)

	// Resolve loads the user a session refers to.
	Resolve(ctx context.Context, userID int64) (*domain.User, error)

	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, input domain.NewUser) (*domain.User, error)

	// DeleteUser removes a user on behalf of actorID.
	DeleteUser(ctx context.Context, actorID, userID int64) error

	ChangePassword(ctx context.Context, userID int64, password string) error
}
