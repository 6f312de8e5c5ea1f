package models

import (
	"database/sql"
	"time"
)

// Roles understood by the permission layer. ADMIN and MANAGER always
// have full access; BASIC access is driven by stored module grants.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleBasic   = "BASIC"
)

// User represents an account in the admin application.
type User struct {
	ID             int64          `db:"id" json:"id"`
	Username       string         `db:"username" json:"username"`
	Email          string         `db:"email" json:"email"`
	HashedPassword string         `db:"hashed_password" json:"-"`
	Role           string         `db:"role" json:"role"`
	Active         bool           `db:"active" json:"active"`
	OrganizationID sql.NullInt64  `db:"organization_id" json:"organization_id,omitempty"`
	DepartmentID   sql.NullInt64  `db:"department_id" json:"department_id,omitempty"`
	ResetToken     sql.NullString `db:"reset_token" json:"-"`
	ResetTokenExp  sql.NullTime   `db:"reset_token_exp" json:"-"`
	LastActiveAt   sql.NullTime   `db:"last_active_at" json:"last_active_at,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// PublicUser is the reduced representation returned to other users.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// Public strips credentials and internal fields.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Active:   u.Active,
	}
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleBasic:
		return true
	}
	return false
}
