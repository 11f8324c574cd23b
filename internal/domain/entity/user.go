package entity

import "time"

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleStandard Role = "Standard User"
	RoleGuest    Role = "Guest"
)

// User is a registered account (domain layer, no serialization concerns).
type User struct {
	ID           int64
	Name         string
	Email        string
	Mobile       *string
	PasswordHash string
	Role         Role
	IsVerified   bool
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanLogin reports whether the account is allowed to authenticate.
func (u *User) CanLogin() bool {
	return u.IsActive
}
