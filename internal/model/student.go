package model

import (
	"database/sql"
	"time"
)

// Student represents an admin-managed student record
type Student struct {
	ID        string         `db:"id" json:"id"`
	UserID    sql.NullString `db:"user_id" json:"user_id"` // Supabase Auth user UUID, set once the student signs up
	Name      string         `db:"name" json:"name"`
	Age       int            `db:"age" json:"age"`
	City      string         `db:"city" json:"city"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}
