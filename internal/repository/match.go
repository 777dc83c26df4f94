package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pairlink/pairlink-go/internal/model"
)

var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrDuplicateMatch = errors.New("match already exists")
)

// MatchRepository handles like/match persistence operations.
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new MatchRepository.
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchColumns = `id, sender_id, receiver_id, status, created_at, updated_at`

// Create inserts a match. The (sender, receiver) unique key surfaces as ErrDuplicateMatch.
func (r *MatchRepository) Create(ctx context.Context, m *model.Match) error {
	query := `INSERT INTO matches (` + matchColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, m.ID, m.SenderID, m.ReceiverID, m.Status, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		switch {
		case isDuplicateEntryError(err):
			return ErrDuplicateMatch
		case isMissingReferenceError(err):
			return ErrUserNotFound
		}
		return fmt.Errorf("insert match: %w", err)
	}

	return nil
}

// GetByID retrieves a match by its ID.
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*model.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByPair retrieves the match sent from senderID to receiverID.
func (r *MatchRepository) GetByPair(ctx context.Context, senderID, receiverID string) (*model.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE sender_id = ? AND receiver_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, senderID, receiverID))
}

// UpdateStatus sets the status of a match and returns the stored record.
func (r *MatchRepository) UpdateStatus(ctx context.Context, id string, status model.MatchStatus, at time.Time) (*model.Match, error) {
	_, err := r.db.ExecContext(ctx, `UPDATE matches SET status = ?, updated_at = ? WHERE id = ?`, status, at, id)
	if err != nil {
		return nil, fmt.Errorf("update match status: %w", err)
	}

	return r.GetByID(ctx, id)
}

// CountIncoming counts matches addressed to receiverID in any of the given statuses.
func (r *MatchRepository) CountIncoming(ctx context.Context, receiverID string, statuses ...model.MatchStatus) (int, error) {
	if len(statuses) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(statuses)), ", ")
	args := []any{receiverID}
	for _, s := range statuses {
		args = append(args, s)
	}

	var count int
	query := `SELECT COUNT(*) FROM matches WHERE receiver_id = ? AND status IN (` + placeholders + `)`
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count incoming matches: %w", err)
	}

	return count, nil
}

// ListIncoming lists matches addressed to receiverID with the given status,
// newest first, each with its sender's id, email and profile name.
func (r *MatchRepository) ListIncoming(ctx context.Context, receiverID string, status model.MatchStatus) ([]model.IncomingMatch, error) {
	query := `SELECT m.id, m.sender_id, m.receiver_id, m.status, m.created_at, m.updated_at,
			u.id, u.email, p.name
		FROM matches m
		JOIN users u ON u.id = m.sender_id
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE m.receiver_id = ? AND m.status = ?
		ORDER BY m.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, receiverID, status)
	if err != nil {
		return nil, fmt.Errorf("list incoming matches: %w", err)
	}
	defer rows.Close()

	items := make([]model.IncomingMatch, 0)
	for rows.Next() {
		var item model.IncomingMatch
		var name sql.NullString
		if err := rows.Scan(
			&item.ID, &item.SenderID, &item.ReceiverID, &item.Status, &item.CreatedAt, &item.UpdatedAt,
			&item.Sender.ID, &item.Sender.Email, &name,
		); err != nil {
			return nil, fmt.Errorf("scan incoming match: %w", err)
		}
		item.Sender.Profile = profileName(name)
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *MatchRepository) scanOne(row *sql.Row) (*model.Match, error) {
	m := &model.Match{}
	err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("get match: %w", err)
	}
	return m, nil
}

func profileName(name sql.NullString) *model.ProfileNameOnly {
	if !name.Valid {
		return nil
	}
	return &model.ProfileNameOnly{Name: name.String}
}
