package domain

import (
	"errors"
	"time"
)

// Role is the authorization level the backend assigns to a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrForbidden = errors.New("access forbidden")

// User is the profile snapshot the backend hands out at login. The portal
// never mutates it; the validate tags are the schema enforced whenever a
// User crosses the network or the credential store boundary.
type User struct {
	ID    int64  `json:"id"    validate:"required,gt=0"`
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  Role   `json:"role"  validate:"required,oneof=admin user"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Account is the backend-side record behind a User, including the
// password hash. Only the development backend handles accounts.
type Account struct {
	User
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
