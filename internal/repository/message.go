package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pairlink/pairlink-go/internal/model"
)

// MessageRepository handles direct message persistence operations.
type MessageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a message. An unknown sender or receiver surfaces as ErrUserNotFound.
func (r *MessageRepository) Create(ctx context.Context, m *model.Message) error {
	query := `INSERT INTO messages (id, sender_id, receiver_id, content, is_read, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, m.ID, m.SenderID, m.ReceiverID, m.Content, m.IsRead, m.CreatedAt)
	if err != nil {
		if isMissingReferenceError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("insert message: %w", err)
	}

	return nil
}

// ListInbox lists messages addressed to receiverID, newest first, with sender details.
func (r *MessageRepository) ListInbox(ctx context.Context, receiverID string) ([]model.InboxMessage, error) {
	query := `SELECT m.id, m.sender_id, m.receiver_id, m.content, m.is_read, m.created_at,
			u.id, u.email, p.name
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE m.receiver_id = ?
		ORDER BY m.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, receiverID)
	if err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}
	defer rows.Close()

	items := make([]model.InboxMessage, 0)
	for rows.Next() {
		var item model.InboxMessage
		var name sql.NullString
		if err := rows.Scan(
			&item.ID, &item.SenderID, &item.ReceiverID, &item.Content, &item.IsRead, &item.CreatedAt,
			&item.Sender.ID, &item.Sender.Email, &name,
		); err != nil {
			return nil, fmt.Errorf("scan inbox message: %w", err)
		}
		item.Sender.Profile = profileName(name)
		items = append(items, item)
	}

	return items, rows.Err()
}

// ListConversation returns every message exchanged between userID and
// partnerID in either direction, oldest first.
func (r *MessageRepository) ListConversation(ctx context.Context, userID, partnerID string) ([]model.Message, error) {
	query := `SELECT id, sender_id, receiver_id, content, is_read, created_at
		FROM messages
		WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, partnerID, partnerID, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	defer rows.Close()

	messages := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
