package model

import "database/sql"

// Profile mirrors the auth-side profile row for a signed-up user.
type Profile struct {
	ID    string         `db:"id" json:"id"` // auth user UUID
	Email string         `db:"email" json:"email"`
	Name  sql.NullString `db:"name" json:"name"`
}

// Role is the coarse authorization classification attached to a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)
