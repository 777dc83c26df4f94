package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pairlink/pairlink-go/internal/model"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository handles profile persistence and search.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, user_id, name, age, gender, location, about, looking_for, is_active, created_at, updated_at`

// GetByUserID retrieves the profile owned by a user.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ?`

	p := &model.Profile{}
	var about sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Age, &p.Gender, &p.Location,
		&about, &p.LookingFor, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.About = nullableString(about)

	return p, nil
}

// Update overwrites the mutable fields of the profile owned by p.UserID.
func (r *ProfileRepository) Update(ctx context.Context, p *model.Profile) error {
	query := `UPDATE profiles
		SET name = ?, age = ?, gender = ?, location = ?, about = ?, looking_for = ?, is_active = ?, updated_at = ?
		WHERE user_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.Age, p.Gender, p.Location, p.About, p.LookingFor, p.IsActive, p.UpdatedAt, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	// MySQL reports 0 affected rows when nothing changed, so confirm existence.
	if rowsAffected == 0 {
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE user_id = ?`, p.UserID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("check profile: %w", err)
		}
	}

	return nil
}

// Search returns active profiles matching every supplied filter, most recently
// updated first, capped at limit.
func (r *ProfileRepository) Search(ctx context.Context, f model.SearchFilter, limit int) ([]model.SearchResult, error) {
	where, args := searchConditions(f)
	query := `SELECT id, name, age, gender, location, about, user_id FROM profiles
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY updated_at DESC
		LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	defer rows.Close()

	results := make([]model.SearchResult, 0)
	for rows.Next() {
		var res model.SearchResult
		var about sql.NullString
		if err := rows.Scan(&res.ID, &res.Name, &res.Age, &res.Gender, &res.Location, &about, &res.UserID); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		res.About = nullableString(about)
		results = append(results, res)
	}

	return results, rows.Err()
}

// searchConditions builds the AND-combined WHERE terms. is_active is always present.
func searchConditions(f model.SearchFilter) ([]string, []any) {
	where := []string{"is_active = TRUE"}
	var args []any

	if f.AgeMin != nil {
		where = append(where, "age >= ?")
		args = append(args, *f.AgeMin)
	}
	if f.AgeMax != nil {
		where = append(where, "age <= ?")
		args = append(args, *f.AgeMax)
	}
	if f.Gender != "" {
		where = append(where, "gender = ?")
		args = append(args, f.Gender)
	}
	if f.Location != "" {
		where = append(where, "location = ?")
		args = append(args, f.Location)
	}
	if f.ExcludeUserID != "" {
		where = append(where, "user_id <> ?")
		args = append(args, f.ExcludeUserID)
	}

	return where, args
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
