package models

import (
	"time"
)

// User defines the account model based on the 'users' table
type User struct {
	ID            int64        `json:"id" db:"id" example:"1"`
	Username      string       `json:"username" db:"username" example:"office.north"`
	Email         string       `json:"email" db:"email" example:"office@vemac.in"`
	Name          string       `json:"name" db:"name" example:"Ritu Sharma"`
	Phone         string       `json:"phone" db:"phone" example:"9876543210"`
	PasswordHash  string       `json:"-" db:"password_hash"` // bcrypt hash, never serialized
	Role          RoleType     `json:"role" db:"role" example:"office"`
	InstituteName string       `json:"instituteName" db:"institute_name" example:"Main Branch"`
	Status        ActiveStatus `json:"status" db:"status" example:"active"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time    `json:"updatedAt" db:"updated_at"`
}

// IsActive reports whether the account may sign in.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// UserFilter narrows user listings.
type UserFilter struct {
	Role   RoleType
	Search string
	Offset uint64
	Limit  int
}
