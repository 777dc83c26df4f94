package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pairlink/pairlink-go/internal/model"
	"github.com/pairlink/pairlink-go/internal/repository"
)

// MessageService handles direct messages. Sending is not gated on match status.
type MessageService struct {
	messages MessageStore
}

// NewMessageService creates a new MessageService.
func NewMessageService(messages MessageStore) *MessageService {
	return &MessageService{messages: messages}
}

// Send stores a message from senderID to the receiver.
func (s *MessageService) Send(ctx context.Context, senderID string, req model.SendMessageRequest) (model.Message, error) {
	req.ReceiverID = strings.TrimSpace(req.ReceiverID)
	if strings.TrimSpace(req.Content) == "" {
		req.Content = ""
	}
	if err := validateStruct(req); err != nil {
		return model.Message{}, err
	}
	if req.ReceiverID == senderID {
		return model.Message{}, invalid("cannot message yourself")
	}

	msg := &model.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
		CreatedAt:  now(),
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.Message{}, ErrReceiverNotFound
		}
		return model.Message{}, err
	}

	return *msg, nil
}

// Inbox lists messages addressed to userID, newest first.
func (s *MessageService) Inbox(ctx context.Context, userID string) ([]model.InboxMessage, error) {
	items, err := s.messages.ListInbox(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.InboxMessage{}
	}
	return items, nil
}

// Room returns the conversation between userID and partnerID, oldest first.
func (s *MessageService) Room(ctx context.Context, userID, partnerID string) ([]model.Message, error) {
	partnerID = strings.TrimSpace(partnerID)
	if partnerID == "" {
		return nil, invalid("partnerId is required")
	}

	messages, err := s.messages.ListConversation(ctx, userID, partnerID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []model.Message{}
	}
	return messages, nil
}
