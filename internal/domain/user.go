package domain

import "strings"

// Role represents the access level of a directory user.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleOperator Role = "Operator"
)

// MinPasswordLength is enforced on password changes only; the bootstrap
// default and rows already present in the sheet are accepted as-is.
const MinPasswordLength = 6

// User is a directory entry.
// Passwords are stored and compared in plaintext. This is a documented gap
// inherited from the source system, not a secret store; do not return the
// password over the API.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the user may manage vehicles and the directory.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Validate checks the fields supplied when a user is created or edited.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrInvalidUserData
	}
	if u.Role != RoleAdmin && u.Role != RoleOperator {
		return ErrInvalidRole
	}
	return nil
}
