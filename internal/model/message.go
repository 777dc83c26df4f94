package model

import "time"

// MaxMessageLength bounds message content in characters.
const MaxMessageLength = 2000

// Message is a directional chat entry. Immutable after creation.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}

// InboxMessage is a received message enriched with its sender.
type InboxMessage struct {
	Message
	Sender UserSummary `json:"sender"`
}

// SendMessageRequest represents a message send request.
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"required,max=2000"`
}

// MessageResponse wraps a single message.
type MessageResponse struct {
	Message Message `json:"message"`
}
