package repository

import (
	"context"
	"database/sql"

	"app/internal/model"
)

// ProfileRepository exposes the auth-side profile rows the admin assignment
// view lists students from.
type ProfileRepository interface {
	// ListStudentProfiles retrieves the profile of every user holding the
	// student role.
	ListStudentProfiles(ctx context.Context) ([]model.Profile, error)
}

type profileRepo struct {
	db *sql.DB
}

// NewProfileRepo creates a new ProfileRepository
func NewProfileRepo(db *sql.DB) ProfileRepository {
	return &profileRepo{db: db}
}

// ListStudentProfiles retrieves the profile of every user with the student role
func (r *profileRepo) ListStudentProfiles(ctx context.Context) ([]model.Profile, error) {
	query := `
		SELECT p.id, p.email, p.name
		FROM profiles p
		JOIN user_roles ur ON ur.user_id = p.id
		WHERE ur.role = 'student'
		ORDER BY p.email ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.Name); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(profiles) == 0 {
		return []model.Profile{}, nil
	}

	return profiles, nil
}
