package dto

import (
	"time"

	"github.com/bnema/pdv/internal/domain"
)

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the public view of a user. The password hash is never exposed.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// UsersResponse is returned by the user listing endpoint.
type UsersResponse struct {
	Users []User `json:"users"`
}

// CreateUserRequest creates a user.
type CreateUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// ToDomain converts the request.
func (r CreateUserRequest) ToDomain() domain.NewUser {
	return domain.NewUser{Username: r.Username, Name: r.Name, Password: r.Password, IsAdmin: r.IsAdmin}
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	Password string `json:"password"`
}

func UserFromDomain(u domain.User) User {
	return User{ID: u.ID, Username: u.Username, Name: u.Name, IsAdmin: u.IsAdmin, CreatedAt: u.CreatedAt}
}

func UsersFromDomain(users []domain.User) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, UserFromDomain(u))
	}
	return out
}
